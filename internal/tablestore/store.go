package tablestore

import (
	"context"
	"sync"

	"tx-inspector-sol/internal/types"
)

// LookupTable 是一张地址表被本交易借用的内容切片，
// 已由调用方按 writable / readonly 分段（见 resolver 的拼接顺序）。
type LookupTable struct {
	Writable []types.Pubkey
	Readonly []types.Pubkey
}

// Source 提供地址表内容。找不到表时返回 (nil, false, nil)，
// 由上层以 LookupTablesNotProvided 警告降级，而非中断分析。
type Source interface {
	Get(ctx context.Context, table types.Pubkey) (*LookupTable, bool, error)
}

// MemorySource 进程内地址表缓存（测试与单次运行的默认实现）
type MemorySource struct {
	mu     sync.RWMutex
	tables map[types.Pubkey]*LookupTable
}

func NewMemorySource() *MemorySource {
	return &MemorySource{tables: make(map[types.Pubkey]*LookupTable)}
}

func (m *MemorySource) Put(table types.Pubkey, content *LookupTable) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table] = content
}

func (m *MemorySource) Get(_ context.Context, table types.Pubkey) (*LookupTable, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.tables[table]
	return content, ok, nil
}
