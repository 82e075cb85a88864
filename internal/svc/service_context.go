package svc

import (
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/redis/go-redis/v9"

	"tx-inspector-sol/internal/config"
	"tx-inspector-sol/internal/logic/extension"
	"tx-inspector-sol/internal/logic/extension/lightzk"
	"tx-inspector-sol/internal/mq"
	"tx-inspector-sol/internal/tablestore"
	"tx-inspector-sol/pkg/logger"
)

// ServiceContext 聚合检视流程依赖的外部资源
type ServiceContext struct {
	Config   config.InspectorConfig
	Registry *extension.Registry
	Tables   tablestore.Source // 可为 nil：仅静态账户可解析
	Producer *kafka.Producer   // 可为 nil：审计旁路未启用
}

// NewServiceContext 装配服务上下文。
// 扩展注册表进程内只初始化一次；Kafka/Redis 均为可选旁路。
func NewServiceContext(c config.InspectorConfig) (*ServiceContext, error) {
	registry := extension.Init(lightzk.New())

	var tables tablestore.Source
	switch {
	case c.TableFile != "":
		src, err := tablestore.LoadTableFile(c.TableFile)
		if err != nil {
			return nil, err
		}
		tables = src
	case c.RedisAddr != "":
		rdb := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		tables = tablestore.NewRedisSource(rdb)
	}

	var producer *kafka.Producer
	if c.KafkaAuditConf.Brokers != "" {
		p, err := mq.NewAuditProducer(c.KafkaAuditConf.ToAuditOption())
		if err != nil {
			logger.Errorf("audit producer init failed: %v", err)
			return nil, err
		}
		producer = p
	}

	return &ServiceContext{
		Config:   c,
		Registry: registry,
		Tables:   tables,
		Producer: producer,
	}, nil
}
