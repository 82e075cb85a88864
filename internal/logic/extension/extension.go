package extension

import (
	"tx-inspector-sol/internal/logic/core"
	"tx-inspector-sol/internal/logic/resolver"
	"tx-inspector-sol/internal/types"
	"tx-inspector-sol/internal/wire"
)

// Analyzer 是协议扩展的能力接口。每个实现拥有自己的程序集与指令解码器，
// 面对任意畸形的指令数据必须降级为部分/未知动作，绝不 panic、绝不中断整笔分析。
type Analyzer interface {
	// Name 协议名（用于动作归属与日志）
	Name() string

	// SupportedPrograms 返回该扩展认领的程序地址。
	// 硬编码地址解析失败属于构建期缺陷：返回 error，登记时禁用该扩展而非崩溃。
	SupportedPrograms() ([]types.Pubkey, error)

	// Detect 判断消息是否存在对本协议程序的顶层直接调用
	Detect(msg *wire.Message, accounts *resolver.Resolved) bool

	// Analyze 对检出的指令做完整解码，向 state 写入动作/警告/计数
	Analyze(msg *wire.Message, accounts *resolver.Resolved, signer types.Pubkey, state *core.AnalysisState)

	// EnrichNotice 在完整分析后追加协议级提示文案
	EnrichNotice(state *core.AnalysisState)

	// ProgramDescription 返回某个程序地址的人类可读描述
	ProgramDescription(program types.Pubkey) (string, bool)
}
