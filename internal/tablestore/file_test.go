package tablestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tx-inspector-sol/internal/types"
)

const (
	tableAddr    = "ComputeBudget111111111111111111111111111111"
	writableAddr = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	readonlyAddr = "SysvarRent111111111111111111111111111111111"
)

func TestParseTablesYAML(t *testing.T) {
	doc := []byte(tableAddr + ":\n" +
		"  writable:\n    - " + writableAddr + "\n" +
		"  readonly:\n    - " + readonlyAddr + "\n")

	src, err := ParseTables(doc)
	require.NoError(t, err)

	got, ok, err := src.Get(context.Background(), types.PubkeyFromBase58(tableAddr))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []types.Pubkey{types.PubkeyFromBase58(writableAddr)}, got.Writable)
	assert.Equal(t, []types.Pubkey{types.PubkeyFromBase58(readonlyAddr)}, got.Readonly)
}

func TestParseTablesJSON(t *testing.T) {
	// yaml.v3 兼容 JSON 文档
	doc := []byte(`{"` + tableAddr + `": {"writable": ["` + writableAddr + `"], "readonly": []}}`)

	src, err := ParseTables(doc)
	require.NoError(t, err)

	got, ok, err := src.Get(context.Background(), types.PubkeyFromBase58(tableAddr))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, got.Writable, 1)
	assert.Empty(t, got.Readonly)
}

func TestParseTablesErrors(t *testing.T) {
	t.Run("非法表地址", func(t *testing.T) {
		_, err := ParseTables([]byte("not-base58!:\n  writable: []\n"))
		assert.Error(t, err)
	})

	t.Run("非法成员地址", func(t *testing.T) {
		_, err := ParseTables([]byte(tableAddr + ":\n  writable:\n    - tooshort\n"))
		assert.Error(t, err)
	})
}

func TestLoadTableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	doc := tableAddr + ":\n  writable:\n    - " + writableAddr + "\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	src, err := LoadTableFile(path)
	require.NoError(t, err)
	_, ok, err := src.Get(context.Background(), types.PubkeyFromBase58(tableAddr))
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = LoadTableFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
