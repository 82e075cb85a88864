package input

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tx-inspector-sol/internal/types"
	"tx-inspector-sol/internal/wire"
)

func sampleTx() *wire.Transaction {
	return &wire.Transaction{
		Signatures: []types.Signature{{0x01}},
		Message: wire.Message{
			Version: wire.MessageVersionLegacy,
			Header:  wire.MessageHeader{NumRequiredSignatures: 1, NumReadonlyUnsignedAccounts: 1},
			AccountKeys: []types.Pubkey{
				{0x11}, {0x22},
			},
			Instructions: []wire.CompiledInstruction{
				{ProgramIDIndex: 1, Accounts: []uint8{0}, Data: []byte{0x01, 0x02}},
			},
		},
	}
}

func TestDetectJSON(t *testing.T) {
	raw, err := json.Marshal(sampleTx())
	require.NoError(t, err)

	tx, kind, err := Detect(raw)
	require.NoError(t, err)
	assert.Equal(t, KindJSON, kind)
	assert.Equal(t, sampleTx().Serialize(), tx.Serialize())

	t.Run("前导空白不影响识别", func(t *testing.T) {
		_, kind, err := Detect(append([]byte("  \n\t"), raw...))
		require.NoError(t, err)
		assert.Equal(t, KindJSON, kind)
	})

	t.Run("畸形 JSON 定型后报错不再回退", func(t *testing.T) {
		_, kind, err := Detect([]byte(`{"signatures": [`))
		assert.Error(t, err)
		assert.Equal(t, KindJSON, kind)
	})
}

func TestDetectBase64(t *testing.T) {
	raw := []byte(base64.StdEncoding.EncodeToString(sampleTx().Serialize()))

	tx, kind, err := Detect(raw)
	require.NoError(t, err)
	assert.Equal(t, KindBase64, kind)
	assert.Equal(t, sampleTx().Serialize(), tx.Serialize())
}

func TestDetectBase58(t *testing.T) {
	jsonBytes, err := json.Marshal(sampleTx())
	require.NoError(t, err)
	raw := []byte(base58.Encode(jsonBytes))

	tx, kind, err := Detect(raw)
	require.NoError(t, err)
	assert.Equal(t, KindBase58, kind)
	assert.Equal(t, sampleTx().Serialize(), tx.Serialize())
}

func TestDetectRejects(t *testing.T) {
	t.Run("空输入", func(t *testing.T) {
		_, _, err := Detect(nil)
		assert.ErrorIs(t, err, ErrUndetected)
		_, _, err = Detect([]byte("   "))
		assert.ErrorIs(t, err, ErrUndetected)
	})

	t.Run("三种形态均不匹配", func(t *testing.T) {
		// '0' 'I' 'l' 均不在 base58 字符集中
		_, _, err := Detect([]byte("0Il0Il0"))
		assert.ErrorIs(t, err, ErrUndetected)
	})

	t.Run("超过大小上限", func(t *testing.T) {
		_, _, err := Detect(make([]byte, MaxInputSize+1))
		assert.ErrorIs(t, err, ErrTooLarge)
	})

	t.Run("base64 形状但内容非交易", func(t *testing.T) {
		// 合法 base64 但解不出交易，且解码回退 base58 也失败
		_, _, err := Detect([]byte("aGVsbG8gd29ybGQh"))
		assert.Error(t, err)
	})
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("正常读取", func(t *testing.T) {
		path := filepath.Join(dir, "tx.txt")
		require.NoError(t, os.WriteFile(path, []byte("abc"), 0o644))
		data, err := ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), data)
	})

	t.Run("超限文件先被 Stat 拦下", func(t *testing.T) {
		path := filepath.Join(dir, "big.txt")
		require.NoError(t, os.WriteFile(path, make([]byte, MaxInputSize+1), 0o644))
		_, err := ReadFile(path)
		assert.ErrorIs(t, err, ErrTooLarge)
	})

	t.Run("文件不存在", func(t *testing.T) {
		_, err := ReadFile(filepath.Join(dir, "missing"))
		assert.Error(t, err)
	})
}
