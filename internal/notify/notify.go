// Package notify dispatches failure alerts to configured notification
// channels. Each channel is an independent Sink; a failing sink never
// affects the others or the request that triggered the dispatch.
package notify

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"pipewatch/internal/store"
)

// Channel identifiers recognized in alert configs. Anything else is a
// forward-compatible no-op.
const (
	ChannelSlack = "slack"
	ChannelEmail = "email"
)

// sinkTimeout bounds every external sink call.
const sinkTimeout = 5 * time.Second

// logsExcerptLimit caps the log excerpt included in notifications.
const logsExcerptLimit = 1000

// Payload carries the execution context delivered to every sink.
type Payload struct {
	PipelineName string
	Status       string
	BuildTime    int64 // seconds
	Logs         string
}

// Sink delivers a notification to one external channel.
type Sink interface {
	Name() string
	Send(ctx context.Context, payload Payload) error
}

// Dispatcher fans a payload out to the sinks named by alert configs.
type Dispatcher struct {
	chat   Sink
	mail   Sink
	logger *slog.Logger
}

// NewDispatcher creates a dispatcher with the given channel sinks.
func NewDispatcher(chat, mail Sink, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{chat: chat, mail: mail, logger: logger}
}

// Dispatch invokes the sink for every known channel of every config.
// Sink errors are logged and swallowed; the caller never sees them.
// Each sink call is bounded by its own timeout so a stuck channel cannot
// stall the rest.
func (d *Dispatcher) Dispatch(ctx context.Context, configs []store.AlertConfig, payload Payload) {
	for _, config := range configs {
		for _, channel := range config.Channels {
			var sink Sink
			switch channel {
			case ChannelSlack:
				sink = d.chat
			case ChannelEmail:
				sink = d.mail
			default:
				continue
			}
			d.send(ctx, sink, payload)
		}
	}
}

func (d *Dispatcher) send(ctx context.Context, sink Sink, payload Payload) {
	sendCtx, cancel := context.WithTimeout(ctx, sinkTimeout)
	defer cancel()

	if err := sink.Send(sendCtx, payload); err != nil {
		d.logger.Error("notification dispatch failed",
			"sink", sink.Name(),
			"pipeline", payload.PipelineName,
			"error", err,
		)
	}
}

// logsExcerpt truncates logs for inclusion in a notification body.
// The cut backs up to a rune boundary so a multi-byte character
// straddling the limit never yields invalid UTF-8.
func logsExcerpt(logs string) string {
	if len(logs) <= logsExcerptLimit {
		return logs
	}
	cut := logsExcerptLimit
	for cut > 0 && !utf8.RuneStart(logs[cut]) {
		cut--
	}
	return logs[:cut] + "..."
}

// NoopSink satisfies Sink for channels without configured credentials.
// It logs one diagnostic line per send instead of erroring.
type NoopSink struct {
	name   string
	logger *slog.Logger
}

// NewNoopSink creates a disabled sink standing in for the named channel.
func NewNoopSink(name string, logger *slog.Logger) *NoopSink {
	return &NoopSink{name: name, logger: logger}
}

func (s *NoopSink) Name() string { return s.name }

func (s *NoopSink) Send(_ context.Context, payload Payload) error {
	s.logger.Info("notification skipped, channel not configured",
		"sink", s.name,
		"pipeline", payload.PipelineName,
		"status", payload.Status,
	)
	return nil
}
