// Package notify publishes finished run reports to NATS so downstream site
// deploy jobs can react without polling the output tree.
package notify

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/docindex/internal/config"
	"git.home.luguber.info/inful/docindex/internal/pipeline"
)

// Publisher sends run reports to a configured subject.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher connects to NATS. Returns an error when notification is not
// configured; callers treat that as "notifications disabled".
func NewPublisher(cfg config.NotifyConfig) (*Publisher, error) {
	if cfg.URL == "" || cfg.Subject == "" {
		return nil, fmt.Errorf("notify requires url and subject")
	}

	conn, err := nats.Connect(cfg.URL,
		nats.Timeout(10*time.Second),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(3),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &Publisher{conn: conn, subject: cfg.Subject}, nil
}

// PublishReport sends the serialized run report. Flushes so the message is on
// the wire before a one-shot CLI process exits.
func (p *Publisher) PublishReport(report *pipeline.RunReport) error {
	data, err := report.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish report: %w", err)
	}
	if err := p.conn.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	slog.Info("Run report published", "subject", p.subject, "run", report.ID)
	return nil
}

// Close drains the connection.
func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
