package analyzer

import (
	"tx-inspector-sol/internal/logic/core"
	"tx-inspector-sol/internal/wire"
)

const (
	// LamportsPerSignature 每个必要签名的基础费
	LamportsPerSignature = 5000
	// DefaultComputeUnitLimit 未显式设置 compute unit limit 时的估算默认值
	DefaultComputeUnitLimit = 200_000
	// microLamportsPerLamport 优先费单价的换算基数
	microLamportsPerLamport = 1_000_000
)

// computeFees 按消息头与累加器里的 compute budget 参数计算费用。
// 所有乘加运算饱和，优先费的中间积走 128 bit 再除。
// 未见显式 limit 时按默认值估算并打 estimated 标记。
func computeFees(header wire.MessageHeader, st *core.AnalysisState, a *core.Analysis) {
	a.BaseFeeLamports = core.SaturatingMul64(LamportsPerSignature, uint64(header.NumRequiredSignatures))

	if st.HasComputeUnitPrice {
		limit := uint64(st.ComputeUnitLimit)
		if !st.HasComputeUnitLimit {
			limit = DefaultComputeUnitLimit
			a.PriorityFeeEstimated = true
		}
		a.PriorityFeeLamports = core.MulDiv64(st.ComputeUnitPriceMicro, limit, microLamportsPerLamport)
	}

	a.TotalFeeLamports = core.SaturatingAdd64(a.BaseFeeLamports, a.PriorityFeeLamports)
	a.SignerSentLamports = st.SignerSentLamports
	a.MaxTotalCostLamports = core.SaturatingAdd64(a.TotalFeeLamports, st.SignerSentLamports)
}
