package wire

import (
	"encoding/binary"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tx-inspector-sol/internal/codec"
	"tx-inspector-sol/internal/types"
)

// testKey 生成互不相同的确定性账户地址
func testKey(seed byte) types.Pubkey {
	var p types.Pubkey
	for i := range p {
		p[i] = seed
	}
	return p
}

func testHash(seed byte) types.Hash {
	var h types.Hash
	for i := range h {
		h[i] = seed
	}
	return h
}

func legacyTransferTx() *Transaction {
	data := make([]byte, 12)
	binary.LittleEndian.PutUint32(data[0:4], 2) // system transfer tag
	binary.LittleEndian.PutUint64(data[4:12], 1500)
	return &Transaction{
		Signatures: []types.Signature{{0x11}},
		Message: Message{
			Version: MessageVersionLegacy,
			Header: MessageHeader{
				NumRequiredSignatures:       1,
				NumReadonlySignedAccounts:   0,
				NumReadonlyUnsignedAccounts: 1,
			},
			AccountKeys:     []types.Pubkey{testKey(1), testKey(2), testKey(3)},
			RecentBlockhash: testHash(9),
			Instructions: []CompiledInstruction{
				{ProgramIDIndex: 2, Accounts: []uint8{0, 1}, Data: data},
			},
		},
	}
}

func v0Tx() *Transaction {
	return &Transaction{
		Signatures: []types.Signature{{0x22}},
		Message: Message{
			Version: MessageVersionV0,
			Header: MessageHeader{
				NumRequiredSignatures:       1,
				NumReadonlyUnsignedAccounts: 1,
			},
			AccountKeys:     []types.Pubkey{testKey(1), testKey(2)},
			RecentBlockhash: testHash(8),
			Instructions: []CompiledInstruction{
				// 下标 2/3 落在查表账户区（2 静态 + 2 查表）
				{ProgramIDIndex: 1, Accounts: []uint8{0, 2, 3}, Data: []byte{0xAB}},
			},
			AddressTableLookups: []AddressTableLookup{
				{
					TableKey:        testKey(0x40),
					WritableIndexes: []uint8{0},
					ReadonlyIndexes: []uint8{5},
				},
			},
		},
	}
}

func TestTransactionRoundTrip(t *testing.T) {
	t.Run("legacy 逐字节可逆", func(t *testing.T) {
		tx := legacyTransferTx()
		raw := tx.Serialize()

		parsed, err := DeserializeTransaction(raw)
		require.NoError(t, err)
		assert.Equal(t, MessageVersionLegacy, parsed.Message.Version)
		assert.Equal(t, tx.Message, parsed.Message)
		assert.Equal(t, tx.Signatures, parsed.Signatures)
		assert.Equal(t, raw, parsed.Serialize())
	})

	t.Run("v0 带地址表逐字节可逆", func(t *testing.T) {
		tx := v0Tx()
		raw := tx.Serialize()

		// 版本字节紧跟签名段（1 字节计数 + 64 字节签名）
		assert.Equal(t, byte(0x80), raw[1+64])

		parsed, err := DeserializeTransaction(raw)
		require.NoError(t, err)
		assert.Equal(t, MessageVersionV0, parsed.Message.Version)
		assert.Equal(t, tx.Message, parsed.Message)
		assert.Equal(t, raw, parsed.Serialize())
	})

	t.Run("v0 无查表项", func(t *testing.T) {
		tx := v0Tx()
		tx.Message.AddressTableLookups = []AddressTableLookup{}
		tx.Message.Instructions[0].Accounts = []uint8{0, 1}

		raw := tx.Serialize()
		parsed, err := DeserializeTransaction(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, parsed.Serialize())
	})
}

func TestDeserializeRejects(t *testing.T) {
	t.Run("不支持的版本号", func(t *testing.T) {
		raw := v0Tx().Serialize()
		raw[1+64] = 0x81 // version 1
		_, err := DeserializeTransaction(raw)
		assert.ErrorIs(t, err, ErrUnsupportedVersion)
	})

	t.Run("静态账户重复", func(t *testing.T) {
		tx := legacyTransferTx()
		tx.Message.AccountKeys[1] = tx.Message.AccountKeys[0]
		_, err := DeserializeTransaction(tx.Serialize())
		assert.ErrorIs(t, err, ErrDuplicateAccountKey)
	})

	t.Run("程序下标越界", func(t *testing.T) {
		tx := legacyTransferTx()
		tx.Message.Instructions[0].ProgramIDIndex = 3
		_, err := DeserializeTransaction(tx.Serialize())
		assert.ErrorIs(t, err, ErrIndexOutOfBounds)
	})

	t.Run("账户下标越界", func(t *testing.T) {
		tx := legacyTransferTx()
		tx.Message.Instructions[0].Accounts = []uint8{0, 200}
		_, err := DeserializeTransaction(tx.Serialize())
		assert.ErrorIs(t, err, ErrIndexOutOfBounds)
	})

	t.Run("v0 查表扩展了下标上界", func(t *testing.T) {
		// 2 静态 + 2 查表 = 4，下标 3 合法而 4 越界
		tx := v0Tx()
		raw := tx.Serialize()
		_, err := DeserializeTransaction(raw)
		require.NoError(t, err)

		tx.Message.Instructions[0].Accounts = []uint8{0, 4}
		_, err = DeserializeTransaction(tx.Serialize())
		assert.ErrorIs(t, err, ErrIndexOutOfBounds)
	})

	t.Run("尾随字节", func(t *testing.T) {
		raw := legacyTransferTx().Serialize()
		raw = append(raw, 0x00)
		_, err := DeserializeTransaction(raw)
		assert.ErrorIs(t, err, ErrTrailingBytes)
	})

	t.Run("伪造签名计数", func(t *testing.T) {
		// 声明 255 条签名但只有几字节数据，应报短缓冲而非超额分配
		_, err := DeserializeTransaction([]byte{0xFF, 0x01, 0x02})
		assert.ErrorIs(t, err, codec.ErrShortBuffer)
	})
}

func TestDeserializeTruncatedNeverPanics(t *testing.T) {
	// 任意前缀截断都必须以 error 返回
	for _, tx := range []*Transaction{legacyTransferTx(), v0Tx()} {
		raw := tx.Serialize()
		for n := 0; n < len(raw); n++ {
			_, err := DeserializeTransaction(raw[:n])
			require.Error(t, err, "prefix length %d", n)
		}
	}
}

func TestDeserializeRandomBytesNeverPanics(t *testing.T) {
	// 固定种子的随机噪声：要么解出合法交易，要么报错，绝不 panic
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 5000; i++ {
		buf := make([]byte, rng.Intn(512))
		rng.Read(buf)
		_, _ = DeserializeTransaction(buf)
	}
}

func TestSignerSlot(t *testing.T) {
	tx := legacyTransferTx()

	slot, err := tx.SignerSlot(testKey(1))
	require.NoError(t, err)
	assert.Equal(t, 0, slot)

	// 非签名段的账户不可签名
	_, err = tx.SignerSlot(testKey(2))
	assert.ErrorIs(t, err, ErrSignerNotFound)

	_, err = tx.SignerSlot(testKey(0x7F))
	assert.ErrorIs(t, err, ErrSignerNotFound)
}

func TestPlaceSignature(t *testing.T) {
	tx := legacyTransferTx()
	tx.Signatures = nil // 未签名输入常缺签名段

	sig := types.Signature{0xAA, 0xBB}
	require.NoError(t, tx.PlaceSignature(testKey(1), sig))
	require.Len(t, tx.Signatures, 1)
	assert.Equal(t, sig, tx.Signatures[0])

	err := tx.PlaceSignature(testKey(3), sig)
	assert.ErrorIs(t, err, ErrSignerNotFound)
}

func TestTransactionJSONRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name string
		tx   *Transaction
	}{
		{"legacy", legacyTransferTx()},
		{"v0", v0Tx()},
	} {
		t.Run(tc.name, func(t *testing.T) {
			data, err := tc.tx.MarshalJSON()
			require.NoError(t, err)

			var parsed Transaction
			require.NoError(t, parsed.UnmarshalJSON(data))
			// JSON 往返后线上字节不变
			assert.Equal(t, tc.tx.Serialize(), parsed.Serialize())
		})
	}
}

func TestTransactionJSONVersionInference(t *testing.T) {
	t.Run("缺省 version 但带 lookups 按 v0 处理", func(t *testing.T) {
		tx := v0Tx()
		data, err := tx.MarshalJSON()
		require.NoError(t, err)

		// 去掉 version 字段再解析
		patched := []byte(strings.Replace(string(data), `"version":"v0",`, ``, 1))

		var parsed Transaction
		require.NoError(t, parsed.UnmarshalJSON(patched))
		assert.Equal(t, MessageVersionV0, parsed.Message.Version)
	})

	t.Run("version 0 等价于 v0", func(t *testing.T) {
		tx := v0Tx()
		data, err := tx.MarshalJSON()
		require.NoError(t, err)
		patched := []byte(strings.Replace(string(data), `"version":"v0"`, `"version":"0"`, 1))

		var parsed Transaction
		require.NoError(t, parsed.UnmarshalJSON(patched))
		assert.Equal(t, MessageVersionV0, parsed.Message.Version)
	})

	t.Run("未知 version 字符串", func(t *testing.T) {
		tx := legacyTransferTx()
		data, err := tx.MarshalJSON()
		require.NoError(t, err)
		patched := []byte(strings.Replace(string(data), `"version":"legacy"`, `"version":"v9"`, 1))

		var parsed Transaction
		assert.ErrorIs(t, parsed.UnmarshalJSON(patched), ErrUnsupportedVersion)
	})
}

func TestTransactionJSONEmptyData(t *testing.T) {
	// 空指令数据经 base58 往返仍为空
	tx := legacyTransferTx()
	tx.Message.Instructions[0].Data = []byte{}

	data, err := tx.MarshalJSON()
	require.NoError(t, err)

	var parsed Transaction
	require.NoError(t, parsed.UnmarshalJSON(data))
	assert.Empty(t, parsed.Message.Instructions[0].Data)
}
