// Package types 定义 LinkGuard 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他 linkguard 内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
//
// # 文件组织
//
//   - link.go    - ConnectionState, LinkEvent, ConnectionStatus, AssociationInfo, LinkSnapshot
//   - verdict.go - Verdict, Classification
//   - events.go  - 事件总线上的可观测事件（EvtXxx）
//   - errors.go  - 公共错误定义
package types
