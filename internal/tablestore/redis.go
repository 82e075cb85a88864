package tablestore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tx-inspector-sol/internal/types"
)

// Redis key 前缀与 TTL。地址表在链上可追加、可停用，缓存不宜过久。
const (
	tableKeyPrefix = "alt:table"
	tableTTL       = 24 * time.Hour
)

// RedisSource 是 Redis 支撑的地址表缓存，供宿主应用在多次检视之间复用
// 已经从链上解析过的表内容。值为 LookupTable 的 JSON 编码。
type RedisSource struct {
	rdb *redis.Client
}

func NewRedisSource(rdb *redis.Client) *RedisSource {
	return &RedisSource{rdb: rdb}
}

func redisTableKey(table types.Pubkey) string {
	return fmt.Sprintf("%s:%s", tableKeyPrefix, table)
}

func (r *RedisSource) Get(ctx context.Context, table types.Pubkey) (*LookupTable, bool, error) {
	val, err := r.rdb.Get(ctx, redisTableKey(table)).Bytes()
	switch {
	case err == redis.Nil:
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("redis get table %s: %w", table, err)
	}

	var content struct {
		Writable []string `json:"writable"`
		Readonly []string `json:"readonly"`
	}
	if err := json.Unmarshal(val, &content); err != nil {
		return nil, false, fmt.Errorf("decode cached table %s: %w", table, err)
	}
	writable, err := types.PubkeysFromBase58(content.Writable)
	if err != nil {
		return nil, false, fmt.Errorf("cached table %s writable: %w", table, err)
	}
	readonly, err := types.PubkeysFromBase58(content.Readonly)
	if err != nil {
		return nil, false, fmt.Errorf("cached table %s readonly: %w", table, err)
	}
	return &LookupTable{Writable: writable, Readonly: readonly}, true, nil
}

// Put 写入表内容并续期 TTL
func (r *RedisSource) Put(ctx context.Context, table types.Pubkey, content *LookupTable) error {
	writable := make([]string, 0, len(content.Writable))
	for _, k := range content.Writable {
		writable = append(writable, k.String())
	}
	readonly := make([]string, 0, len(content.Readonly))
	for _, k := range content.Readonly {
		readonly = append(readonly, k.String())
	}
	val, err := json.Marshal(map[string][]string{
		"writable": writable,
		"readonly": readonly,
	})
	if err != nil {
		return fmt.Errorf("encode table %s: %w", table, err)
	}
	if err := r.rdb.Set(ctx, redisTableKey(table), val, tableTTL).Err(); err != nil {
		return fmt.Errorf("redis set table %s: %w", table, err)
	}
	return nil
}
