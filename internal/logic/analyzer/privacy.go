package analyzer

import (
	"tx-inspector-sol/internal/logic/core"
)

// decidePrivacyLevel 在原生 + 扩展分类全部完成后执行判定表，按优先级短路：
//
//	任一扩展动作直接报告 Hybrid        → Hybrid
//	机密操作 > 0 且有公开价值移动      → Hybrid
//	机密操作 > 0 且无公开价值移动      → Confidential
//	压缩存储操作 > 0 且有公开价值移动  → Hybrid
//	压缩存储操作 > 0 且无公开移动      → Compressed
//	其余                               → Public
//
// 注意机密先于压缩判定：confidential + storage 且无公开混合时结论为
// Confidential（沿用既有产品行为，未引入“混合私密”档位）。
func decidePrivacyLevel(st *core.AnalysisState) core.PrivacyLevel {
	publicMovement := st.PublicValueMovement()

	switch {
	case st.HasHybridAction():
		return core.PrivacyHybrid
	case st.ConfidentialOps > 0 && publicMovement:
		return core.PrivacyHybrid
	case st.ConfidentialOps > 0:
		return core.PrivacyConfidential
	case st.StorageOps > 0 && publicMovement:
		return core.PrivacyHybrid
	case st.StorageOps > 0:
		return core.PrivacyCompressed
	default:
		return core.PrivacyPublic
	}
}
