package lightzk

import (
	"fmt"

	"tx-inspector-sol/internal/logic/core"
)

// ProtocolName 是本扩展在动作与提示中使用的协议名
const ProtocolName = "light-zk"

// ProofAction 一次零知识证明指令（验证或上下文管理）
type ProofAction struct {
	Kind string
	// 上下文管理类指令（close context 等）不构成机密操作
	Management bool
}

func (a ProofAction) Protocol() string { return ProtocolName }

func (a ProofAction) Description() string {
	if a.Management {
		return fmt.Sprintf("proof context management: %s", a.Kind)
	}
	return fmt.Sprintf("zk proof verification: %s", a.Kind)
}

func (a ProofAction) PrivacyImpact() core.PrivacyImpact {
	if a.Management {
		return core.ImpactNone
	}
	return core.ImpactConfidential
}

// CompressAction 压缩或解压指令；解压把价值带回公开账本，归为 Hybrid。
type CompressAction struct {
	Amount     uint64
	Decompress bool
	Partial    bool
}

func (a CompressAction) Protocol() string { return ProtocolName }

func (a CompressAction) Description() string {
	verb := "compress"
	if a.Decompress {
		verb = "decompress"
	}
	if a.Partial {
		return fmt.Sprintf("%s (amount not fully decoded, partial sum %d lamports)", verb, a.Amount)
	}
	return fmt.Sprintf("%s %d lamports into compressed state", verb, a.Amount)
}

func (a CompressAction) PrivacyImpact() core.PrivacyImpact {
	if a.Decompress {
		return core.ImpactHybrid
	}
	return core.ImpactStorageCompression
}

// TransferAction 压缩态内的普通转账
type TransferAction struct {
	Amount  uint64
	Partial bool
}

func (a TransferAction) Protocol() string { return ProtocolName }

func (a TransferAction) Description() string {
	if a.Partial {
		return fmt.Sprintf("compressed transfer (partially decoded, amount %d)", a.Amount)
	}
	return fmt.Sprintf("compressed transfer of %d", a.Amount)
}

func (a TransferAction) PrivacyImpact() core.PrivacyImpact {
	return core.ImpactStorageCompression
}

// BatchTransferAction 机密批量转账；Amount 是遍历压缩/输入/输出记录累得的饱和总额，
// 部分解码时保留已累计的部分和（而非归零）。
type BatchTransferAction struct {
	Amount             uint64
	InputRecords       int
	OutputRecords      int
	CompressionRecords int
	Partial            bool
}

func (a BatchTransferAction) Protocol() string { return ProtocolName }

func (a BatchTransferAction) Description() string {
	desc := fmt.Sprintf("confidential batch transfer: %d inputs, %d outputs, %d compression records, total amount %d",
		a.InputRecords, a.OutputRecords, a.CompressionRecords, a.Amount)
	if a.Partial {
		desc += " (partially decoded)"
	}
	return desc
}

func (a BatchTransferAction) PrivacyImpact() core.PrivacyImpact {
	return core.ImpactConfidential
}

// StateInvokeAction 压缩状态系统程序的通用调用
type StateInvokeAction struct {
	Cpi bool
}

func (a StateInvokeAction) Protocol() string { return ProtocolName }

func (a StateInvokeAction) Description() string {
	if a.Cpi {
		return "compressed state invocation (cpi)"
	}
	return "compressed state invocation"
}

func (a StateInvokeAction) PrivacyImpact() core.PrivacyImpact {
	return core.ImpactStorageCompression
}
