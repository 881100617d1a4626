package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/Digital-Creators-Team/stakes-engine/config"
	"github.com/Digital-Creators-Team/stakes-engine/pkg/providers"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const sourceService = "stakes-engine"

// messageSender is the part of the Kafka producer the log provider uses
type messageSender interface {
	SendMessage(topic string, key string, value interface{}) error
}

// CommandDetails is the payload of a command audit event
type CommandDetails struct {
	Username string   `mapstructure:"username" json:"username"`
	Source   string   `mapstructure:"source" json:"source"`
	Command  string   `mapstructure:"command" json:"command"`
	Args     []string `mapstructure:"args" json:"args"`
	Cue      string   `mapstructure:"cue" json:"cue,omitempty"`
	Code     int      `mapstructure:"code" json:"code,omitempty"`
	Message  string   `mapstructure:"message" json:"message"`
	Balance  int64    `mapstructure:"balance" json:"balance"`
	Bank     int64    `mapstructure:"bank" json:"bank"`
	Millis   int64    `mapstructure:"millis" json:"millis"`
}

// AuditEvent represents an audit event for Kafka
type AuditEvent struct {
	Timestamp     time.Time      `json:"timestamp"`
	UserID        string         `json:"user_id"`
	SourceService string         `json:"source_service"`
	Action        string         `json:"action"`
	Details       CommandDetails `json:"details"`
	Result        string         `json:"result"`
	TraceID       string         `json:"trace_id,omitempty"`
}

// LogProvider publishes command audit events to Kafka
type LogProvider struct {
	kafkaProducer messageSender
	auditTopic    string
	logger        zerolog.Logger
}

// NewLogProvider creates a new log provider. A nil producer turns LogCommand into a no-op.
func NewLogProvider(cfg *config.Config, kafkaProducer messageSender, logger zerolog.Logger) *LogProvider {
	return &LogProvider{
		kafkaProducer: kafkaProducer,
		auditTopic:    cfg.Kafka.AuditTopic(),
		logger:        logger.With().Str("component", "log_provider").Logger(),
	}
}

// LogCommand sends one command audit event, keyed by username so a player's
// events stay ordered within a partition
func (p *LogProvider) LogCommand(ctx context.Context, log *providers.CommandLog) error {
	if p.kafkaProducer == nil {
		p.logger.Debug().Msg("Kafka producer not configured, skipping command log")
		return nil
	}

	traceID := log.TraceID
	if traceID == "" {
		traceID = uuid.New().String()
	}

	result := "success"
	if log.Outcome == "error" {
		result = "rejected"
	}

	event := AuditEvent{
		Timestamp:     log.Timestamp,
		UserID:        log.Username,
		SourceService: sourceService,
		Action:        log.Command,
		Details: CommandDetails{
			Username: log.Username,
			Source:   log.Source,
			Command:  log.Command,
			Args:     log.Args,
			Cue:      log.Cue,
			Code:     log.Code,
			Message:  log.Message,
			Balance:  log.Balance,
			Bank:     log.Bank,
			Millis:   log.Duration.Milliseconds(),
		},
		Result:  result,
		TraceID: traceID,
	}

	if err := p.kafkaProducer.SendMessage(p.auditTopic, log.Username, event); err != nil {
		p.logger.Error().Err(err).Msg("Failed to send command log to Kafka")
		return fmt.Errorf("failed to log command: %w", err)
	}
	return nil
}
