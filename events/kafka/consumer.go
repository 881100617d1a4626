package kafka

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Record is one event read from a topic
type Record struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	Partition int             `json:"partition"`
	Offset    int64           `json:"offset"`
	Time      time.Time       `json:"time"`
}

// Subscription receives records for one key, or all keys
type Subscription struct {
	ID      string
	Key     string
	Channel chan Record
}

// messageReader is implemented by *kafka.Reader
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const allKeys = "*"

// Consumer tails a topic and fans records out to subscribers by message key.
// The audit topic is keyed by username, so a subscription follows one player.
type Consumer struct {
	reader messageReader
	logger zerolog.Logger
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.RWMutex
	subscribers map[string][]*Subscription
}

// ConsumerConfig holds Kafka consumer configuration
type ConsumerConfig struct {
	Brokers       []string
	Topic         string
	ConsumerGroup string
	Logger        zerolog.Logger
	// FromStart replays the topic instead of starting at the newest offset
	FromStart bool
}

// NewConsumer creates a new Kafka consumer
func NewConsumer(config ConsumerConfig) *Consumer {
	startOffset := kafka.LastOffset
	if config.FromStart {
		startOffset = kafka.FirstOffset
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        config.Brokers,
		Topic:          config.Topic,
		GroupID:        config.ConsumerGroup,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
		StartOffset:    startOffset,
	})
	return newConsumer(reader, config.Logger)
}

func newConsumer(reader messageReader, logger zerolog.Logger) *Consumer {
	ctx, cancel := context.WithCancel(context.Background())
	return &Consumer{
		reader:      reader,
		logger:      logger.With().Str("component", "kafka_consumer").Logger(),
		ctx:         ctx,
		cancel:      cancel,
		subscribers: make(map[string][]*Subscription),
	}
}

// Start begins consuming messages
func (c *Consumer) Start() {
	c.wg.Add(1)
	go c.consume()
	c.logger.Info().Msg("Kafka consumer started")
}

// Stop stops the consumer and closes every subscription channel
func (c *Consumer) Stop() error {
	c.cancel()
	c.wg.Wait()

	c.mu.Lock()
	for key, subs := range c.subscribers {
		for _, sub := range subs {
			close(sub.Channel)
		}
		delete(c.subscribers, key)
	}
	c.mu.Unlock()

	if err := c.reader.Close(); err != nil {
		c.logger.Error().Err(err).Msg("Error closing Kafka reader")
		return err
	}
	c.logger.Info().Msg("Kafka consumer stopped")
	return nil
}

func (c *Consumer) consume() {
	defer c.wg.Done()

	for {
		msg, err := c.reader.FetchMessage(c.ctx)
		if err != nil {
			if c.ctx.Err() != nil || stderrors.Is(err, context.Canceled) {
				return
			}
			c.logger.Error().Err(err).Msg("Error fetching message from Kafka")
			select {
			case <-c.ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		if err := c.handleMessage(msg); err != nil {
			c.logger.Warn().
				Err(err).
				Str("topic", msg.Topic).
				Int("partition", msg.Partition).
				Int64("offset", msg.Offset).
				Msg("Skipping message")
		}

		if err := c.reader.CommitMessages(c.ctx, msg); err != nil && c.ctx.Err() == nil {
			c.logger.Error().Err(err).Msg("Error committing message")
		}
	}
}

func (c *Consumer) handleMessage(msg kafka.Message) error {
	if !json.Valid(msg.Value) {
		return fmt.Errorf("message value is not JSON")
	}

	record := Record{
		Key:       string(msg.Key),
		Value:     json.RawMessage(msg.Value),
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Time:      msg.Time,
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	c.deliver(c.subscribers[strings.ToLower(record.Key)], record)
	c.deliver(c.subscribers[allKeys], record)
	return nil
}

// deliver never blocks the consume loop; slow subscribers lose records
func (c *Consumer) deliver(subs []*Subscription, record Record) {
	for _, sub := range subs {
		select {
		case sub.Channel <- record:
		default:
			c.logger.Warn().
				Str("sub_id", sub.ID).
				Str("key", record.Key).
				Msg("Subscriber channel full, dropping record")
		}
	}
}

// Subscribe follows records whose key matches, ignoring case
func (c *Consumer) Subscribe(key string) *Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()

	if key != allKeys {
		key = strings.ToLower(key)
	}
	sub := &Subscription{
		ID:      uuid.New().String(),
		Key:     key,
		Channel: make(chan Record, 64),
	}
	c.subscribers[key] = append(c.subscribers[key], sub)
	return sub
}

// SubscribeAll follows every record
func (c *Consumer) SubscribeAll() *Subscription {
	return c.Subscribe(allKeys)
}

// Unsubscribe removes a subscription and closes its channel
func (c *Consumer) Unsubscribe(sub *Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()

	subs := c.subscribers[sub.Key]
	kept := subs[:0]
	for _, s := range subs {
		if s.ID == sub.ID {
			close(s.Channel)
			continue
		}
		kept = append(kept, s)
	}
	if len(kept) == 0 {
		delete(c.subscribers, sub.Key)
		return
	}
	c.subscribers[sub.Key] = kept
}
