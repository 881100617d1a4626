package provider

import (
	"context"
	"testing"
	"time"

	"github.com/Digital-Creators-Team/stakes-engine/config"
	"github.com/Digital-Creators-Team/stakes-engine/pkg/providers"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	topic string
	key   string
	value interface{}
}

type fakeSender struct {
	sent []sentMessage
}

func (f *fakeSender) SendMessage(topic string, key string, value interface{}) error {
	f.sent = append(f.sent, sentMessage{topic: topic, key: key, value: value})
	return nil
}

func TestLogProviderLogCommand(t *testing.T) {
	sender := &fakeSender{}
	p := NewLogProvider(config.Default(), sender, zerolog.Nop())

	err := p.LogCommand(context.Background(), &providers.CommandLog{
		TraceID:   "trace-1",
		Username:  "alice",
		Source:    "repl",
		Command:   "-dep",
		Args:      []string{"500"},
		Outcome:   "plain",
		Message:   "Deposited 500 Gcoins.",
		Balance:   500,
		Bank:      500,
		Duration:  3 * time.Millisecond,
		Timestamp: time.Unix(0, 0).UTC(),
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "stakes.commands", msg.topic)
	assert.Equal(t, "alice", msg.key)

	event, ok := msg.value.(AuditEvent)
	require.True(t, ok)
	assert.Equal(t, "-dep", event.Action)
	assert.Equal(t, "success", event.Result)
	assert.Equal(t, "trace-1", event.TraceID)
	assert.Equal(t, int64(3), event.Details.Millis)
}

func TestLogProviderRejectedCommand(t *testing.T) {
	sender := &fakeSender{}
	p := NewLogProvider(config.Default(), sender, zerolog.Nop())

	require.NoError(t, p.LogCommand(context.Background(), &providers.CommandLog{
		Username: "alice",
		Command:  "-bet",
		Outcome:  "error",
		Code:     1002,
	}))

	event := sender.sent[0].value.(AuditEvent)
	assert.Equal(t, "rejected", event.Result)
	assert.NotEmpty(t, event.TraceID)
}

func TestLogProviderWithoutProducer(t *testing.T) {
	p := NewLogProvider(config.Default(), nil, zerolog.Nop())
	assert.NoError(t, p.LogCommand(context.Background(), &providers.CommandLog{Username: "alice"}))
}
