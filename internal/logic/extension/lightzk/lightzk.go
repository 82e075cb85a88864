package lightzk

import (
	"encoding/binary"
	"fmt"
	"sync"

	"tx-inspector-sol/internal/logic/core"
	"tx-inspector-sol/internal/logic/resolver"
	"tx-inspector-sol/internal/types"
	"tx-inspector-sol/internal/wire"
)

// 协议程序地址（base58 常量便于配置与日志比对）。
// 压缩代币与压缩状态程序走 8 字节 anchor 判别符，证明程序走 1 字节 tag。
const (
	CompressedTokenProgramStr = "cTokenmWW8bLPjZEBAUgYy3zKxQZW6VKi7bqNFEVv3m"
	LightSystemProgramStr     = "SySTEM1eSU2p4BGQfQpimFEWWSC1XDFeun3Nqzz3rT7"
	ZkProofProgramStr         = "ZkE1Gama1Proof11111111111111111111111111111"
)

// Analyzer 实现 extension.Analyzer。
// 程序地址在首次使用时解析：硬编码地址解析失败属于构建期缺陷，
// 通过 SupportedPrograms 的 error 上报并由注册表禁用，不会崩溃进程。
type Analyzer struct {
	once sync.Once
	err  error

	compressedToken types.Pubkey
	lightSystem     types.Pubkey
	zkProof         types.Pubkey
	programs        []types.Pubkey
	descriptions    map[types.Pubkey]string
}

func New() *Analyzer {
	return &Analyzer{}
}

func (l *Analyzer) load() {
	l.once.Do(func() {
		parse := func(s string) types.Pubkey {
			p, err := types.TryPubkeyFromBase58(s)
			if err != nil && l.err == nil {
				l.err = fmt.Errorf("lightzk: bad builtin program id %q: %w", s, err)
			}
			return p
		}
		l.compressedToken = parse(CompressedTokenProgramStr)
		l.lightSystem = parse(LightSystemProgramStr)
		l.zkProof = parse(ZkProofProgramStr)
		if l.err != nil {
			return
		}
		l.programs = []types.Pubkey{l.compressedToken, l.lightSystem, l.zkProof}
		l.descriptions = map[types.Pubkey]string{
			l.compressedToken: "light compressed token program",
			l.lightSystem:     "light compressed state program",
			l.zkProof:         "zk proof verification program",
		}
	})
}

func (l *Analyzer) Name() string {
	return ProtocolName
}

func (l *Analyzer) SupportedPrograms() ([]types.Pubkey, error) {
	l.load()
	if l.err != nil {
		return nil, l.err
	}
	return l.programs, nil
}

func (l *Analyzer) ProgramDescription(program types.Pubkey) (string, bool) {
	l.load()
	desc, ok := l.descriptions[program]
	return desc, ok
}

func (l *Analyzer) claims(program types.Pubkey) bool {
	for _, p := range l.programs {
		if p == program {
			return true
		}
	}
	return false
}

// Detect 仅检查顶层指令是否直接调用本协议程序
func (l *Analyzer) Detect(msg *wire.Message, accounts *resolver.Resolved) bool {
	l.load()
	if l.err != nil {
		return false
	}
	for _, ix := range msg.Instructions {
		if program, ok := accounts.At(int(ix.ProgramIDIndex)); ok && l.claims(program) {
			return true
		}
	}
	return false
}

// Analyze 对每条命中的顶层指令做解码。单条指令的畸形数据降级为
// 部分/未知动作外加一条警告，不影响其余指令与整笔分析。
func (l *Analyzer) Analyze(msg *wire.Message, accounts *resolver.Resolved, _ types.Pubkey, st *core.AnalysisState) {
	l.load()
	if l.err != nil {
		return
	}
	for _, ix := range msg.Instructions {
		program, ok := accounts.At(int(ix.ProgramIDIndex))
		if !ok {
			continue
		}
		switch program {
		case l.compressedToken:
			l.analyzeTokenInstruction(ix, st)
		case l.lightSystem:
			l.analyzeSystemInstruction(ix, st)
		case l.zkProof:
			l.analyzeProofInstruction(ix, st)
		}
	}
}

func (l *Analyzer) analyzeTokenInstruction(ix wire.CompiledInstruction, st *core.AnalysisState) {
	if len(ix.Data) < 8 {
		st.AddWarning(core.WarnMalformedProtocolInstruction,
			fmt.Sprintf("%s: instruction data too short for discriminator (%d bytes)", ProtocolName, len(ix.Data)))
		st.AddAction(core.OpaqueAction{
			ProtocolName: ProtocolName,
			Desc:         "unidentifiable compressed-token instruction",
			Impact:       core.ImpactNone,
		})
		return
	}
	payload := ix.Data[8:]
	switch binary.BigEndian.Uint64(ix.Data[:8]) {
	case discBatchTransfer:
		act := decodeBatchTransfer(payload)
		if act.Partial {
			st.AddWarning(core.WarnMalformedProtocolInstruction,
				fmt.Sprintf("%s: batch transfer truncated, amounts are a partial sum", ProtocolName))
		}
		st.AddAction(act)
	case discCompress:
		l.addCompress(st, payload, false)
	case discDecompress:
		l.addCompress(st, payload, true)
	case discTransfer:
		act := decodeTransfer(payload)
		if act.Partial {
			st.AddWarning(core.WarnMalformedProtocolInstruction,
				fmt.Sprintf("%s: compressed transfer truncated", ProtocolName))
		}
		st.AddAction(act)
	default:
		// 判别符不在表内：已检出但无法解码，保守地不赋予隐私影响
		st.AddAction(core.OpaqueAction{
			ProtocolName: ProtocolName,
			Desc:         fmt.Sprintf("unrecognized compressed-token instruction %x", ix.Data[:8]),
			Impact:       core.ImpactNone,
		})
	}
}

func (l *Analyzer) addCompress(st *core.AnalysisState, payload []byte, decompress bool) {
	act := decodeCompress(payload, decompress)
	if act.Partial {
		st.AddWarning(core.WarnMalformedProtocolInstruction,
			fmt.Sprintf("%s: compress/decompress arguments truncated", ProtocolName))
	}
	st.AddAction(act)
}

func (l *Analyzer) analyzeSystemInstruction(ix wire.CompiledInstruction, st *core.AnalysisState) {
	if len(ix.Data) < 8 {
		st.AddWarning(core.WarnMalformedProtocolInstruction,
			fmt.Sprintf("%s: instruction data too short for discriminator (%d bytes)", ProtocolName, len(ix.Data)))
		st.AddAction(core.OpaqueAction{
			ProtocolName: ProtocolName,
			Desc:         "unidentifiable compressed-state instruction",
			Impact:       core.ImpactNone,
		})
		return
	}
	switch binary.BigEndian.Uint64(ix.Data[:8]) {
	case discInvoke:
		st.AddAction(StateInvokeAction{})
	case discInvokeCpi:
		st.AddAction(StateInvokeAction{Cpi: true})
	default:
		st.AddAction(core.OpaqueAction{
			ProtocolName: ProtocolName,
			Desc:         fmt.Sprintf("unrecognized compressed-state instruction %x", ix.Data[:8]),
			Impact:       core.ImpactNone,
		})
	}
}

func (l *Analyzer) analyzeProofInstruction(ix wire.CompiledInstruction, st *core.AnalysisState) {
	if len(ix.Data) == 0 {
		st.AddWarning(core.WarnMalformedProtocolInstruction,
			fmt.Sprintf("%s: empty proof instruction", ProtocolName))
		st.AddAction(core.OpaqueAction{
			ProtocolName: ProtocolName,
			Desc:         "unidentifiable proof instruction",
			Impact:       core.ImpactNone,
		})
		return
	}
	tag := ix.Data[0]
	kind, ok := proofKindNames[tag]
	if !ok {
		st.AddAction(core.OpaqueAction{
			ProtocolName: ProtocolName,
			Desc:         fmt.Sprintf("unrecognized proof instruction tag %d", tag),
			Impact:       core.ImpactNone,
		})
		return
	}
	st.AddAction(ProofAction{Kind: kind, Management: tag == proofCloseContext})
}

// EnrichNotice 在完整分析后补一条协议级摘要
func (l *Analyzer) EnrichNotice(st *core.AnalysisState) {
	actions := 0
	for _, a := range st.Actions {
		if a.Protocol() == ProtocolName {
			actions++
		}
	}
	if actions == 0 {
		return
	}
	st.AddNotice(fmt.Sprintf(
		"%s: %d protocol action(s); %d confidential / %d compression op(s); amounts are protocol-reported sums",
		ProtocolName, actions, st.ConfidentialOps, st.StorageOps))
}
