package tablestore

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"tx-inspector-sol/internal/types"
)

// 文件输入格式：base58 表地址 → 已分段的地址列表。
// YAML 与 JSON 均可（yaml.v3 兼容 JSON 文档）。
type fileTable struct {
	Writable []string `yaml:"writable" json:"writable"`
	Readonly []string `yaml:"readonly" json:"readonly"`
}

// ParseTables 解析地址表文档内容并装入 MemorySource
func ParseTables(data []byte) (*MemorySource, error) {
	raw := make(map[string]fileTable)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse lookup table document: %w", err)
	}

	src := NewMemorySource()
	for addr, ft := range raw {
		table, err := types.TryPubkeyFromBase58(addr)
		if err != nil {
			return nil, fmt.Errorf("lookup table address %q: %w", addr, err)
		}
		writable, err := types.PubkeysFromBase58(ft.Writable)
		if err != nil {
			return nil, fmt.Errorf("table %s writable: %w", addr, err)
		}
		readonly, err := types.PubkeysFromBase58(ft.Readonly)
		if err != nil {
			return nil, fmt.Errorf("table %s readonly: %w", addr, err)
		}
		src.Put(table, &LookupTable{Writable: writable, Readonly: readonly})
	}
	return src, nil
}

// LoadTableFile 读取并解析地址表文件
func LoadTableFile(path string) (*MemorySource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lookup table file: %w", err)
	}
	return ParseTables(data)
}
