package notify

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"gopkg.in/gomail.v2"
)

// MailConfig holds the SMTP transport settings for the email sink.
type MailConfig struct {
	Host       string
	Port       int
	User       string
	Pass       string
	Recipients []string
}

// MailSink delivers alert messages over SMTP.
type MailSink struct {
	dialer     *gomail.Dialer
	from       string
	recipients []string
}

// NewMailSink returns a sink for the given SMTP transport, or a NoopSink
// when credentials or recipients are missing.
func NewMailSink(cfg MailConfig, logger *slog.Logger) Sink {
	if cfg.Host == "" || cfg.User == "" || cfg.Pass == "" || len(cfg.Recipients) == 0 {
		logger.Info("SMTP credentials not configured, email notifications disabled")
		return NewNoopSink(ChannelEmail, logger)
	}
	return &MailSink{
		dialer:     gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass),
		from:       cfg.User,
		recipients: cfg.Recipients,
	}
}

func (s *MailSink) Name() string { return ChannelEmail }

// Send delivers the alert mail. gomail has no context support, so the
// dial-and-send runs in a goroutine and the call returns on ctx expiry;
// the abandoned attempt finishes (or fails) in the background.
func (s *MailSink) Send(ctx context.Context, payload Payload) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.recipients...)
	m.SetHeader("Subject", fmt.Sprintf("Pipeline Alert: %s - %s", payload.PipelineName, payload.Status))
	m.SetBody("text/html", mailBody(payload))

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send alert mail: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("alert mail timed out: %w", ctx.Err())
	}
}

func mailBody(payload Payload) string {
	return fmt.Sprintf(`
		<h2>Pipeline Execution Alert</h2>
		<p><strong>Pipeline:</strong> %s</p>
		<p><strong>Status:</strong> %s</p>
		<p><strong>Build Time:</strong> %ds</p>
		<h3>Logs:</h3>
		<pre>%s</pre>
	`,
		html.EscapeString(payload.PipelineName),
		html.EscapeString(payload.Status),
		payload.BuildTime,
		html.EscapeString(logsExcerpt(payload.Logs)),
	)
}
