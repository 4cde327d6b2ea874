package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/aigoflow/assistant-service/internal/config"
)

const traceHeader = "X-Trace-ID"

// NATSService serves the assistant operations as NATS request/reply on
// {prefix}.qa, {prefix}.summarize and {prefix}.hw-eval. Replies use the
// same JSON bodies as the HTTP API.
type NATSService struct {
	conn        *nats.Conn
	cfg         *config.Config
	qa          *QAService
	summarize   *SummarizeService
	handwriting *HandwritingService
}

func NewNATSService(cfg *config.Config, qa *QAService, summarize *SummarizeService, handwriting *HandwritingService) (*NATSService, error) {
	conn, err := nats.Connect(cfg.NatsURL, nats.Name("assistant-service"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSService{
		conn:        conn,
		cfg:         cfg,
		qa:          qa,
		summarize:   summarize,
		handwriting: handwriting,
	}, nil
}

// Subject returns the full subject for an operation name.
func Subject(prefix, op string) string {
	return prefix + "." + op
}

func (s *NATSService) Start(ctx context.Context) error {
	handlers := map[string]func(ctx context.Context, data []byte, meta RequestMeta) []byte{
		"qa":        s.replyQA,
		"summarize": s.replySummarize,
		"hw-eval":   s.replyHandwriting,
	}

	var subs []*nats.Subscription
	for op, handle := range handlers {
		subject := Subject(s.cfg.NatsPrefix, op)
		sub, err := s.conn.QueueSubscribe(subject, s.cfg.QueueGroup, func(msg *nats.Msg) {
			// Each message runs on its own goroutine so a slow model call
			// does not hold up the subscription.
			go s.serve(ctx, msg, handle)
		})
		if err != nil {
			for _, prev := range subs {
				_ = prev.Unsubscribe()
			}
			return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
		}
		subs = append(subs, sub)
		slog.Info("NATS subscription ready", "subject", subject, "queue", s.cfg.QueueGroup)
	}

	<-ctx.Done()
	slog.Info("NATS service shutting down")

	if err := s.conn.Drain(); err != nil {
		slog.Warn("NATS drain failed", "error", err)
		s.conn.Close()
	}
	return nil
}

func (s *NATSService) serve(ctx context.Context, msg *nats.Msg, handle func(context.Context, []byte, RequestMeta) []byte) {
	meta := NewRequestMeta(SourceNATS, traceID(msg))
	start := time.Now()
	reply := handle(ctx, msg.Data, meta)

	if msg.Reply == "" {
		slog.Warn("NATS request without reply subject", "subject", msg.Subject, "req_id", meta.ReqID)
		return
	}
	if err := msg.Respond(reply); err != nil {
		slog.Error("Failed to publish NATS reply", "subject", msg.Subject, "req_id", meta.ReqID, "error", err)
		return
	}
	slog.Debug("NATS request served",
		"subject", msg.Subject,
		"req_id", meta.ReqID,
		"duration_ms", time.Since(start).Milliseconds())
}

func traceID(msg *nats.Msg) string {
	if msg.Header == nil {
		return ""
	}
	return strings.TrimSpace(msg.Header.Get(traceHeader))
}

func (s *NATSService) replyQA(ctx context.Context, data []byte, meta RequestMeta) []byte {
	return toJSON(s.qa.AnswerJSON(ctx, data, meta))
}

func (s *NATSService) replySummarize(ctx context.Context, data []byte, meta RequestMeta) []byte {
	return toJSON(s.summarize.SummarizeJSON(ctx, data, meta))
}

// replyHandwriting takes the raw image bytes as the message body.
func (s *NATSService) replyHandwriting(ctx context.Context, data []byte, meta RequestMeta) []byte {
	return toJSON(s.handwriting.Extract(ctx, data, meta))
}

// GetConnection exposes the connection for the health service.
func (s *NATSService) GetConnection() *nats.Conn {
	return s.conn
}

func toJSON(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return b
}
