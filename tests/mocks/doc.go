// Package mocks 提供统一的测试 Mock 实现
//
// 两类测试替身：
//
//   - MockStack: 手写的 interfaces.NetworkStack，事件通过 Push 注入，
//     关联请求被记录，支持 XxxFunc 字段注入自定义行为
//   - gomock 生成的 MockNetworkStack / MockWatchdog / MockTrustChecker，
//     用于需要精确校验调用次数的场景
//
// # 使用示例
//
// 手写 Mock:
//
//	stack := mocks.NewMockStack(16)
//	stack.Info = types.AssociationInfo{Identifier: "gigi5g", SignalStrength: -50}
//	stack.Push(types.LinkStarted)
//	// ...
//	if stack.Associations() != 1 {
//	    t.Error("expected one association request")
//	}
//
// gomock:
//
//	ctrl := gomock.NewController(t)
//	wd := mocks.NewMockWatchdog(ctrl)
//	wd.EXPECT().Register().Return(nil)
//	wd.EXPECT().Reset().Return(nil).AnyTimes()
//
// gomock 文件由以下命令生成：
//
//	mockgen -destination=tests/mocks/interfaces_mock.go -package=mocks \
//	    github.com/dep2p/go-linkguard/pkg/interfaces NetworkStack,Watchdog,TrustChecker
package mocks
