package lightzk

import (
	"fmt"

	"github.com/near/borsh-go"

	"tx-inspector-sol/internal/codec"
	"tx-inspector-sol/internal/logic/core"
)

// 压缩代币 / 压缩状态程序的 8 字节指令判别符（按大端读取比对）
const (
	discTransfer      uint64 = 0xa334c8e78c0345ba
	discCompress      uint64 = 0x52c1b075b01573fd
	discDecompress    uint64 = 0x4a3c31c5126e5d9a
	discBatchTransfer uint64 = 0xd15a046c3db9128b
	discInvoke        uint64 = 0x1a10a90715caf219
	discInvokeCpi     uint64 = 0x31d4bf8127c22bc4
)

// 证明程序的 1 字节指令 tag
const (
	proofCloseContext uint8 = iota
	proofVerifyZeroCiphertext
	proofVerifyCiphertextCiphertextEquality
	proofVerifyCiphertextCommitmentEquality
	proofVerifyPubkeyValidity
	proofVerifyPercentageWithCap
	proofVerifyBatchedRangeProofU64
	proofVerifyBatchedRangeProofU128
	proofVerifyBatchedRangeProofU256
)

var proofKindNames = map[uint8]string{
	proofCloseContext:                       "close_context_state",
	proofVerifyZeroCiphertext:               "verify_zero_ciphertext",
	proofVerifyCiphertextCiphertextEquality: "verify_ciphertext_ciphertext_equality",
	proofVerifyCiphertextCommitmentEquality: "verify_ciphertext_commitment_equality",
	proofVerifyPubkeyValidity:               "verify_pubkey_validity",
	proofVerifyPercentageWithCap:            "verify_percentage_with_cap",
	proofVerifyBatchedRangeProofU64:         "verify_batched_range_proof_u64",
	proofVerifyBatchedRangeProofU128:        "verify_batched_range_proof_u128",
	proofVerifyBatchedRangeProofU256:        "verify_batched_range_proof_u256",
}

// 批量转账各记录的固定布局尺寸（用于计数前的空间校验，防伪造长度分配）
const (
	compressionRecordSize = 32 + 8 + 1     // owner + amount + tree index
	inputRecordMinSize    = 32 + 8 + 2 + 2 // owner + amount + root index + 两个 option tag
	outputRecordSize      = 32 + 8 + 1     // owner + amount + tree index
)

// compressArgs 压缩/解压指令的 borsh 定长参数
type compressArgs struct {
	Amount    uint64
	Recipient [32]uint8
}

// decodeCompress 解析 compress / decompress；borsh 反序列化失败降级为部分结果
func decodeCompress(data []byte, decompress bool) CompressAction {
	var args compressArgs
	if err := borsh.Deserialize(&args, data); err != nil {
		return CompressAction{Decompress: decompress, Partial: true}
	}
	return CompressAction{Amount: args.Amount, Decompress: decompress}
}

// decodeTransfer 解析压缩态普通转账：amount u64 + root index u16
func decodeTransfer(data []byte) TransferAction {
	cur := codec.NewCursor(data)
	amount, err := cur.ReadU64()
	if err != nil {
		return TransferAction{Partial: true}
	}
	if _, err := cur.ReadU16(); err != nil {
		return TransferAction{Amount: amount, Partial: true}
	}
	return TransferAction{Amount: amount}
}

// readOptionTag 读取 borsh Option 的 1 字节 tag；0/1 之外视为畸形数据
func readOptionTag(cur *codec.Cursor) (bool, error) {
	tag, err := cur.ReadU8()
	if err != nil {
		return false, err
	}
	switch tag {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("invalid option tag %d", tag)
	}
}

// skipVec 跳过一个 u32 长度前缀的字节向量
func skipVec(cur *codec.Cursor) error {
	n, err := cur.ReadU32()
	if err != nil {
		return err
	}
	return cur.Skip(int(n))
}

// decodeBatchTransfer 是最复杂的指令解码：单向游标依次走过
//
//	7 字节标志位
//	Option<cpi 上下文记录>（3 字节定长）
//	Option<压缩记录列表>（定长记录，amount 累加）
//	Option<证明块>（三段变长字节向量，只跳过不解码）
//	输入记录列表（变长记录，amount 累加，逐条跳过可选尾部）
//	输出记录列表（定长记录，amount 累加）
//	两段独立的 Option<数值列表> 尾巴
//
// 任何一步读空即刻返回：已累计的部分和保留（Partial 置位），绝不报错中断。
func decodeBatchTransfer(data []byte) BatchTransferAction {
	act := BatchTransferAction{Partial: true}
	cur := codec.NewCursor(data)
	sum := func(v uint64) {
		act.Amount = core.SaturatingAdd64(act.Amount, v)
	}

	// 标志位
	if _, err := cur.ReadBytes(7); err != nil {
		return act
	}

	// cpi 上下文
	hasCtx, err := readOptionTag(cur)
	if err != nil {
		return act
	}
	if hasCtx {
		if err := cur.Skip(3); err != nil {
			return act
		}
	}

	// 压缩记录
	hasCompression, err := readOptionTag(cur)
	if err != nil {
		return act
	}
	if hasCompression {
		count, err := cur.ReadU32()
		if err != nil || int(count) > cur.Remaining()/compressionRecordSize {
			return act
		}
		for i := 0; i < int(count); i++ {
			if err := cur.Skip(32); err != nil {
				return act
			}
			amount, err := cur.ReadU64()
			if err != nil {
				return act
			}
			sum(amount)
			if err := cur.Skip(1); err != nil {
				return act
			}
			act.CompressionRecords++
		}
	}

	// 证明块：三段变长向量，跳过不验
	hasProof, err := readOptionTag(cur)
	if err != nil {
		return act
	}
	if hasProof {
		for i := 0; i < 3; i++ {
			if err := skipVec(cur); err != nil {
				return act
			}
		}
	}

	// 输入记录（变长：可选 lamports 与可选 tlv 尾部逐条跳过）
	inputCount, err := cur.ReadU32()
	if err != nil || int(inputCount) > cur.Remaining()/inputRecordMinSize {
		return act
	}
	for i := 0; i < int(inputCount); i++ {
		if err := cur.Skip(32); err != nil {
			return act
		}
		amount, err := cur.ReadU64()
		if err != nil {
			return act
		}
		sum(amount)
		if _, err := cur.ReadU16(); err != nil {
			return act
		}
		hasLamports, err := readOptionTag(cur)
		if err != nil {
			return act
		}
		if hasLamports {
			if _, err := cur.ReadU64(); err != nil {
				return act
			}
		}
		hasTlv, err := readOptionTag(cur)
		if err != nil {
			return act
		}
		if hasTlv {
			if err := skipVec(cur); err != nil {
				return act
			}
		}
		act.InputRecords++
	}

	// 输出记录（定长）
	outputCount, err := cur.ReadU32()
	if err != nil || int(outputCount) > cur.Remaining()/outputRecordSize {
		return act
	}
	for i := 0; i < int(outputCount); i++ {
		if err := cur.Skip(32); err != nil {
			return act
		}
		amount, err := cur.ReadU64()
		if err != nil {
			return act
		}
		sum(amount)
		if err := cur.Skip(1); err != nil {
			return act
		}
		act.OutputRecords++
	}

	// 两段独立的可选数值列表尾巴：root 下标（u16）与 lamports 变更（u64）
	hasRoots, err := readOptionTag(cur)
	if err != nil {
		return act
	}
	if hasRoots {
		n, err := cur.ReadU32()
		if err != nil || cur.Skip(int(n)*2) != nil {
			return act
		}
	}
	hasLamportsTail, err := readOptionTag(cur)
	if err != nil {
		return act
	}
	if hasLamportsTail {
		n, err := cur.ReadU32()
		if err != nil || cur.Skip(int(n)*8) != nil {
			return act
		}
	}

	act.Partial = false
	return act
}
