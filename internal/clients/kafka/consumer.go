package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Shopify/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/moneyezy-bot/internal/entity/event"
	"max.ks1230/moneyezy-bot/internal/logger"
)

type consumerConfig interface {
	producerConfig
	ConsumerGroup() string
}

type eventHandler interface {
	HandleTransactionEvent(ctx context.Context, ev event.TransactionEvent) error
}

type Consumer struct {
	consumerGroup sarama.ConsumerGroup
	topic         string
	handler       eventHandler
	retryDelay    time.Duration
}

const defaultRetryDelay = time.Second

func NewConsumer(cfg consumerConfig, handler eventHandler) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_5_0_0
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	consumerGroup, err := sarama.NewConsumerGroup(cfg.Brokers(), cfg.ConsumerGroup(), config)
	if err != nil {
		return nil, errors.Wrap(err, "new consumer group")
	}
	return &Consumer{
		consumerGroup: consumerGroup,
		topic:         cfg.EventsTopic(),
		handler:       handler,
		retryDelay:    defaultRetryDelay,
	}, nil
}

func (c *Consumer) StartConsuming(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			err := c.consumerGroup.Consume(ctx, []string{c.topic}, c)
			if err != nil {
				return errors.Wrap(err, fmt.Sprintf("consume from %s", c.topic))
			}
		}
	}
}

func (c *Consumer) Close() error {
	return c.consumerGroup.Close()
}

func (c *Consumer) Setup(sarama.ConsumerGroupSession) error {
	logger.Info("consumer - setup")
	return nil
}

func (c *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	logger.Info("consumer - cleanup")
	return nil
}

// ConsumeClaim leaves a message unmarked when handling it failed transiently,
// so the next session starts from it again.
func (c *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		if err := c.processMessage(session.Context(), message); err != nil {
			logger.Error("transaction event will be redelivered",
				zap.Int32("partition", message.Partition),
				zap.Int64("offset", message.Offset),
				zap.Error(err),
			)
			select {
			case <-session.Context().Done():
			case <-time.After(c.retryDelay):
			}
			return err
		}
		session.MarkMessage(message, "")
	}
	return nil
}

// processMessage logs and skips poison messages. Only handler failures that
// may succeed on redelivery are returned.
func (c *Consumer) processMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	var ev event.TransactionEvent
	if err := json.Unmarshal(message.Value, &ev); err != nil {
		logger.Error("cannot unmarshal kafka message", zap.ByteString("key", message.Key), zap.Error(err))
		return nil
	}

	logger.Info(
		"received transaction event",
		zap.ByteString("key", message.Key),
		zap.String("kind", string(ev.Kind)),
		zap.Int64("userID", ev.UserID),
		zap.Int64("id", ev.TransactionID),
	)
	err := c.handler.HandleTransactionEvent(ctx, ev)
	if errors.Is(err, event.ErrInvalid) {
		logger.Error("skipping invalid transaction event", zap.ByteString("key", message.Key), zap.Error(err))
		return nil
	}
	return errors.Wrap(err, "handle transaction event")
}
