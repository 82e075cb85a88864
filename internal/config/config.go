package config

import (
	"tx-inspector-sol/internal/mq"
	"tx-inspector-sol/pkg/logger"
)

type LogConfig struct {
	Format   string `yaml:"format"`   // 日志格式，支持 "console" 或 "json"
	LogDir   string `yaml:"log_dir"`  // 日志目录（可为相对路径或绝对路径）
	Level    string `yaml:"level"`    // 日志级别：debug / info / warn / error
	Compress bool   `yaml:"compress"` // 是否压缩旧日志文件
}

func (c *LogConfig) ToLogOption() logger.LogOption {
	return logger.LogOption{
		Format:   c.Format,
		LogDir:   c.LogDir,
		Level:    c.Level,
		Compress: c.Compress,
	}
}

// KafkaAuditConfig 审计事件生产者配置；Brokers 为空时禁用审计旁路
type KafkaAuditConfig struct {
	Brokers       string `yaml:"brokers"`         // Kafka broker 地址，多个用英文逗号分隔
	Topic         string `yaml:"topic"`           // 签名摘要审计 topic
	Partitions    int    `yaml:"partitions"`      // topic 分区数
	BatchSize     int    `yaml:"batch_size"`      // 批处理大小（单位字节）
	LingerMs      int    `yaml:"linger_ms"`       // 批处理最大延迟（毫秒）
	SendTimeoutMs int    `yaml:"send_timeout_ms"` // 单条消息等待 ack 的超时（毫秒）
}

func (c *KafkaAuditConfig) ToAuditOption() mq.AuditProducerOption {
	return mq.AuditProducerOption{
		Brokers:    c.Brokers,
		Topic:      c.Topic,
		Partitions: c.Partitions,
		BatchSize:  c.BatchSize,
		LingerMs:   c.LingerMs,
	}
}

// InspectorConfig 是主配置结构体
type InspectorConfig struct {
	LogConf        LogConfig        `yaml:"logger"`      // 日志配置
	KafkaAuditConf KafkaAuditConfig `yaml:"kafka_audit"` // 审计旁路配置

	// 地址表来源（两者可同时为空：仅静态账户可解析）
	RedisAddr string `yaml:"redis_addr"` // Redis 地址表缓存地址，例如 127.0.0.1:6379
	TableFile string `yaml:"table_file"` // 本地地址表文档（YAML/JSON）

	// 默认签名者（base58；命令行可覆盖）
	Signer string `yaml:"signer"`
}
