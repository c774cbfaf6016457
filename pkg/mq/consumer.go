package mq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/constants"
	"github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

type Consumer struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

type ViewEventHandler interface {
	HandleViewEvent(ctx context.Context, event *ViewEvent) error
}

type WatchEventHandler interface {
	HandleWatchEvent(ctx context.Context, event *WatchEvent) error
}

func NewConsumer(rabbitmqURL string) (*Consumer, error) {
	conn, err := amqp091.Dial(rabbitmqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	// 限制未确认消息数量
	err = ch.Qos(
		constants.ConsumerPrefetch, // prefetch count
		0,                          // prefetch size
		false,                      // global
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	return &Consumer{conn: conn, channel: ch}, nil
}

func (c *Consumer) ConsumeViewEvents(ctx context.Context, handler ViewEventHandler) error {
	msgs, err := c.channel.Consume(
		ViewEventQueue,
		"",    // consumer
		false, // auto-ack 手动确认
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				logrus.Info("view event consumer context cancelled")
				return
			case d, ok := <-msgs:
				if !ok {
					logrus.Info("view event consumer channel closed")
					return
				}
				var event ViewEvent
				if err := json.Unmarshal(d.Body, &event); err != nil {
					logrus.Errorf("failed to unmarshal view event: %v", err)
					d.Nack(false, false) // 格式损坏 不重入队
					continue
				}
				if err := handler.HandleViewEvent(ctx, &event); err != nil {
					logrus.Errorf("failed to handle view event: %v", err)
					d.Nack(false, true) // 处理失败 重入队
					continue
				}
				d.Ack(false)
			}
		}
	}()

	return nil
}

func (c *Consumer) ConsumeWatchEvents(ctx context.Context, handler WatchEventHandler) error {
	msgs, err := c.channel.Consume(
		WatchEventQueue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				logrus.Info("watch event consumer context cancelled")
				return
			case d, ok := <-msgs:
				if !ok {
					logrus.Info("watch event consumer channel closed")
					return
				}
				var event WatchEvent
				if err := json.Unmarshal(d.Body, &event); err != nil {
					logrus.Errorf("failed to unmarshal watch event: %v", err)
					d.Nack(false, false)
					continue
				}
				if err := handler.HandleWatchEvent(ctx, &event); err != nil {
					logrus.Errorf("failed to handle watch event: %v", err)
					d.Nack(false, true)
					continue
				}
				d.Ack(false)
			}
		}
	}()

	return nil
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
