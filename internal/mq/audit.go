package mq

import (
	"context"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/zeromicro/go-zero/core/logx"
)

// PublishAudit 发送一条审计记录（SigningSummary 的 JSON 编码）并等待 ack。
// 审计是旁路：调用方通常只记日志而不因发送失败中断检视流程。
func PublishAudit(ctx context.Context, producer *kafka.Producer, topic string, value []byte, timeout time.Duration) error {
	deliveryChan := make(chan kafka.Event, 1)
	err := producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &topic,
			Partition: kafka.PartitionAny,
		},
		Value: value,
	}, deliveryChan)
	if err != nil {
		return fmt.Errorf("produce error: %w", err)
	}

	select {
	case e, ok := <-deliveryChan:
		if !ok {
			return fmt.Errorf("delivery channel closed unexpectedly")
		}
		msg, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("invalid message type: %T", e)
		}
		if msg.TopicPartition.Error != nil {
			return msg.TopicPartition.Error
		}
		return nil
	case <-time.After(timeout):
		go drainDelivery(deliveryChan, topic)
		return fmt.Errorf("delivery timeout (>%v)", timeout)
	case <-ctx.Done():
		go drainDelivery(deliveryChan, topic)
		return fmt.Errorf("ctx cancelled: %w", ctx.Err())
	}
}

// drainDelivery 超时放弃后仍要排空通道，避免 librdkafka 回调阻塞
func drainDelivery(ch chan kafka.Event, topic string) {
	if e, ok := <-ch; ok {
		logx.Infof("late delivery event for topic %s: %v", topic, e)
	}
}
