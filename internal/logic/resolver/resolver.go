package resolver

import (
	"context"
	"fmt"

	"tx-inspector-sol/internal/tablestore"
	"tx-inspector-sol/internal/types"
	"tx-inspector-sol/internal/wire"
)

// Resolved 是合并地址表后的逻辑账户列表。
// Keys 的排列固定为：静态 keys ++ 查表 writable ++ 查表 readonly，
// 与链上运行时的账户装载顺序一致，指令下标直接索引该列表。
type Resolved struct {
	Keys []types.Pubkey
	// TablesMissing 为 true 表示消息声明了地址表但未提供内容，
	// 超出静态长度的下标处于未解析状态，只能经 Display 按占位符取用。
	TablesMissing bool
	// MissingTables 列出未能提供内容的表地址（用于警告文案）
	MissingTables []types.Pubkey
}

// Resolve 将 V0 消息的静态账户与外部提供的地址表内容合并为完整账户列表。
// tables 为 nil 或查不到时不报错：仅标记 TablesMissing，静态部分照常可用。
// Legacy 消息原样返回静态列表。
func Resolve(msg *wire.Message, tables map[types.Pubkey]*tablestore.LookupTable) *Resolved {
	out := &Resolved{}
	if msg.Version == wire.MessageVersionLegacy || len(msg.AddressTableLookups) == 0 {
		out.Keys = msg.AccountKeys
		return out
	}

	keys := make([]types.Pubkey, 0, msg.ResolvedAccountCount())
	keys = append(keys, msg.AccountKeys...)

	var writable, readonly []types.Pubkey
	for _, lk := range msg.AddressTableLookups {
		content := tables[lk.TableKey]
		if content == nil {
			out.TablesMissing = true
			out.MissingTables = append(out.MissingTables, lk.TableKey)
			continue
		}
		w, okW := selectIndexes(content.Writable, lk.WritableIndexes)
		r, okR := selectIndexes(content.Readonly, lk.ReadonlyIndexes)
		if !okW || !okR {
			// 表内容比消息声明的下标短：按缺表降级处理
			out.TablesMissing = true
			out.MissingTables = append(out.MissingTables, lk.TableKey)
			continue
		}
		writable = append(writable, w...)
		readonly = append(readonly, r...)
	}

	if out.TablesMissing {
		// 任何一张表缺失都会破坏 writable/readonly 块的拼接顺序，
		// 只保留静态部分，后续下标走占位符。
		out.Keys = msg.AccountKeys
		return out
	}

	keys = append(keys, writable...)
	keys = append(keys, readonly...)
	out.Keys = keys
	return out
}

// ResolveWithSource 先从 Source 拉取消息声明的全部表，再做合并
func ResolveWithSource(ctx context.Context, msg *wire.Message, src tablestore.Source) (*Resolved, error) {
	if src == nil || len(msg.AddressTableLookups) == 0 {
		return Resolve(msg, nil), nil
	}
	tables := make(map[types.Pubkey]*tablestore.LookupTable, len(msg.AddressTableLookups))
	for _, lk := range msg.AddressTableLookups {
		content, ok, err := src.Get(ctx, lk.TableKey)
		if err != nil {
			return nil, err
		}
		if ok {
			tables[lk.TableKey] = content
		}
	}
	return Resolve(msg, tables), nil
}

func selectIndexes(table []types.Pubkey, indexes []uint8) ([]types.Pubkey, bool) {
	out := make([]types.Pubkey, 0, len(indexes))
	for _, idx := range indexes {
		if int(idx) >= len(table) {
			return nil, false
		}
		out = append(out, table[idx])
	}
	return out, true
}

// At 返回下标处的账户；未解析下标返回零值与 false，绝不越界
func (r *Resolved) At(idx int) (types.Pubkey, bool) {
	if idx < 0 || idx >= len(r.Keys) {
		return types.Pubkey{}, false
	}
	return r.Keys[idx], true
}

// Display 尽力而为的展示形态：未解析下标返回占位符而非使整次分析失败
func (r *Resolved) Display(idx int) string {
	if key, ok := r.At(idx); ok {
		return key.String()
	}
	return fmt.Sprintf("unknown#%d", idx)
}

// Contains 判断某账户是否出现在已解析列表的任意位置
func (r *Resolved) Contains(key types.Pubkey) bool {
	for _, k := range r.Keys {
		if k == key {
			return true
		}
	}
	return false
}
