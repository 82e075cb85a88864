package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tx-inspector-sol/internal/tablestore"
	"tx-inspector-sol/internal/types"
	"tx-inspector-sol/internal/wire"
)

func key(seed byte) types.Pubkey {
	var p types.Pubkey
	for i := range p {
		p[i] = seed
	}
	return p
}

func v0Message(lookups ...wire.AddressTableLookup) *wire.Message {
	return &wire.Message{
		Version:             wire.MessageVersionV0,
		Header:              wire.MessageHeader{NumRequiredSignatures: 1},
		AccountKeys:         []types.Pubkey{key(1), key(2)},
		AddressTableLookups: lookups,
	}
}

func TestResolveLegacy(t *testing.T) {
	msg := &wire.Message{
		Version:     wire.MessageVersionLegacy,
		AccountKeys: []types.Pubkey{key(1), key(2), key(3)},
	}
	r := Resolve(msg, nil)
	assert.Equal(t, msg.AccountKeys, r.Keys)
	assert.False(t, r.TablesMissing)
}

func TestResolveMergeOrder(t *testing.T) {
	// 两张表，各自贡献 writable 与 readonly 段；
	// 最终顺序必须是 静态 ++ 全部 writable ++ 全部 readonly
	tableA, tableB := key(0xA0), key(0xB0)
	msg := v0Message(
		wire.AddressTableLookup{
			TableKey:        tableA,
			WritableIndexes: []uint8{1, 0},
			ReadonlyIndexes: []uint8{0},
		},
		wire.AddressTableLookup{
			TableKey:        tableB,
			WritableIndexes: []uint8{0},
			ReadonlyIndexes: []uint8{1},
		},
	)
	tables := map[types.Pubkey]*tablestore.LookupTable{
		tableA: {
			Writable: []types.Pubkey{key(0x10), key(0x11)},
			Readonly: []types.Pubkey{key(0x12)},
		},
		tableB: {
			Writable: []types.Pubkey{key(0x20)},
			Readonly: []types.Pubkey{key(0x21), key(0x22)},
		},
	}

	r := Resolve(msg, tables)
	require.False(t, r.TablesMissing)
	assert.Equal(t, []types.Pubkey{
		key(1), key(2), // 静态
		key(0x11), key(0x10), key(0x20), // writable（按表序、按下标序）
		key(0x12), key(0x22), // readonly
	}, r.Keys)
	assert.Equal(t, msg.ResolvedAccountCount(), len(r.Keys))
}

func TestResolveMissingTable(t *testing.T) {
	tableA := key(0xA0)
	msg := v0Message(wire.AddressTableLookup{
		TableKey:        tableA,
		WritableIndexes: []uint8{0},
		ReadonlyIndexes: []uint8{1},
	})

	t.Run("表内容未提供", func(t *testing.T) {
		r := Resolve(msg, nil)
		assert.True(t, r.TablesMissing)
		assert.Equal(t, []types.Pubkey{tableA}, r.MissingTables)
		// 降级为仅静态部分
		assert.Equal(t, msg.AccountKeys, r.Keys)
	})

	t.Run("表内容比声明下标短", func(t *testing.T) {
		tables := map[types.Pubkey]*tablestore.LookupTable{
			tableA: {Writable: []types.Pubkey{key(0x10)}}, // readonly 为空，下标 1 取不到
		}
		r := Resolve(msg, tables)
		assert.True(t, r.TablesMissing)
		assert.Equal(t, msg.AccountKeys, r.Keys)
	})
}

func TestResolveWithSource(t *testing.T) {
	tableA := key(0xA0)
	msg := v0Message(wire.AddressTableLookup{
		TableKey:        tableA,
		WritableIndexes: []uint8{0},
		ReadonlyIndexes: []uint8{},
	})

	src := tablestore.NewMemorySource()
	src.Put(tableA, &tablestore.LookupTable{Writable: []types.Pubkey{key(0x10)}})

	r, err := ResolveWithSource(context.Background(), msg, src)
	require.NoError(t, err)
	assert.False(t, r.TablesMissing)
	assert.Equal(t, []types.Pubkey{key(1), key(2), key(0x10)}, r.Keys)

	t.Run("nil source 退化为仅静态", func(t *testing.T) {
		r, err := ResolveWithSource(context.Background(), msg, nil)
		require.NoError(t, err)
		assert.True(t, r.TablesMissing)
	})
}

func TestResolvedAccess(t *testing.T) {
	r := &Resolved{Keys: []types.Pubkey{key(1)}}

	got, ok := r.At(0)
	assert.True(t, ok)
	assert.Equal(t, key(1), got)

	_, ok = r.At(1)
	assert.False(t, ok)
	_, ok = r.At(-1)
	assert.False(t, ok)

	assert.Equal(t, key(1).String(), r.Display(0))
	// 未解析下标给出占位符而非 panic
	assert.Equal(t, "unknown#5", r.Display(5))

	assert.True(t, r.Contains(key(1)))
	assert.False(t, r.Contains(key(9)))
}
