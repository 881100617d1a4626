package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

const (
	defaultWorkerNum = 4
	defaultQueueSize = 256
)

// ErrQueueFull is returned when the send buffer is full. Audit events are
// best effort, so the command path never waits on Kafka.
var ErrQueueFull = errors.New("kafka producer queue full")

// messageWriter is implemented by *kafka.Writer
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer wraps Kafka producer functionality
type Producer struct {
	writer    messageWriter
	logger    zerolog.Logger
	jobs      chan kafka.Message
	workerNum int
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// ProducerConfig holds configuration for Kafka producer
type ProducerConfig struct {
	Brokers   []string
	Logger    zerolog.Logger
	WorkerNum int
	QueueSize int
}

// NewProducerWithConfig creates a new Kafka producer. Returns nil when no brokers are configured.
func NewProducerWithConfig(config ProducerConfig) (*Producer, error) {
	if len(config.Brokers) == 0 {
		return nil, nil
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
		Async:        false,
	}

	return newProducer(writer, config), nil
}

func newProducer(writer messageWriter, config ProducerConfig) *Producer {
	workerNum := config.WorkerNum
	if workerNum <= 0 {
		workerNum = defaultWorkerNum
	}
	queueSize := config.QueueSize
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	p := &Producer{
		writer:    writer,
		logger:    config.Logger.With().Str("component", "kafka-producer").Logger(),
		jobs:      make(chan kafka.Message, queueSize),
		workerNum: workerNum,
	}

	// Start workers
	for i := 0; i < workerNum; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return p
}

func (p *Producer) worker() {
	defer p.wg.Done()
	for msg := range p.jobs {
		func() {
			defer p.recover()
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := p.writer.WriteMessages(ctx, msg); err != nil {
				p.logger.Error().
					Err(err).
					Str("topic", msg.Topic).
					Str("key", string(msg.Key)).
					Msg("Failed to send message to Kafka")
			} else {
				p.logger.Debug().
					Str("topic", msg.Topic).
					Str("key", string(msg.Key)).
					Msg("Message sent to Kafka")
			}
		}()
	}
}

// SendMessage queues a message for the worker pool
func (p *Producer) SendMessage(topic string, key string, value interface{}) error {
	eventBytes, err := json.Marshal(value)
	if err != nil {
		p.logger.Error().Err(err).Msg("Failed to marshal event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: eventBytes,
		Time:  time.Now(),
	}

	select {
	case p.jobs <- msg:
		return nil
	default:
		p.logger.Warn().Str("topic", topic).Msg("Kafka queue full, dropping message")
		return ErrQueueFull
	}
}

// Close drains queued messages and closes the writer
func (p *Producer) Close() error {
	var err error
	p.closeOnce.Do(func() {
		close(p.jobs)
		p.wg.Wait()
		if err = p.writer.Close(); err != nil {
			p.logger.Error().Err(err).Msg("Error closing Kafka producer")
		}
	})
	return err
}

func (p *Producer) recover() {
	if r := recover(); r != nil {
		stack := debug.Stack()
		p.logger.Error().
			Str("operation", "send_message_kafka").
			Str("panic", fmt.Sprintf("%v", r)).
			Str("stack_trace", string(stack)).
			Msg("Panic recovered")
	}
}
