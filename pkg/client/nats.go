package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/oklog/ulid/v2"
)

var ErrPayloadTooLarge = errors.New("payload exceeds NATS max payload")

// headerAllowance covers the trace header sent with every request.
const headerAllowance = 256

// checkPayload reports whether a body of size bytes fits a server limit
// of maxPayload. A non-positive limit means the limit is unknown.
func checkPayload(size int, maxPayload int64) error {
	if maxPayload <= 0 {
		return nil
	}
	if int64(size)+headerAllowance > maxPayload {
		return fmt.Errorf("%w: %d bytes, server allows %d; use the HTTP transport for large uploads",
			ErrPayloadTooLarge, size, maxPayload)
	}
	return nil
}

// NATSClient sends the same operations as request/reply on
// {prefix}.qa, {prefix}.summarize and {prefix}.hw-eval.
type NATSClient struct {
	conn     *nats.Conn
	prefix   string
	timeouts Timeouts
}

func NewNATSClient(natsURL, prefix string, timeouts Timeouts) (*NATSClient, error) {
	conn, err := nats.Connect(natsURL, nats.Name("assistant-client"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	if prefix == "" {
		prefix = "assistant"
	}
	return &NATSClient{conn: conn, prefix: prefix, timeouts: timeouts.withDefaults()}, nil
}

func (c *NATSClient) Health(ctx context.Context) (string, error) {
	status, err := c.Status(ctx)
	if err != nil {
		return "", err
	}
	return status.Status, nil
}

// Status returns the full health report including request counters.
func (c *NATSClient) Status(ctx context.Context) (*HealthStatus, error) {
	var out HealthStatus
	if err := c.request(ctx, c.timeouts.Health, "health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *NATSClient) QA(ctx context.Context, passage, question string) (string, error) {
	payload, err := json.Marshal(QARequest{Context: passage, Question: question})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}
	var out QAResponse
	if err := c.request(ctx, c.timeouts.QA, "qa", payload, &out); err != nil {
		return "", err
	}
	return out.Answer, nil
}

func (c *NATSClient) Summarize(ctx context.Context, text string) (string, error) {
	payload, err := json.Marshal(SummarizeRequest{Text: text})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}
	var out SummarizeResponse
	if err := c.request(ctx, c.timeouts.Summarize, "summarize", payload, &out); err != nil {
		return "", err
	}
	return out.Summary, nil
}

// HandwritingEval sends the raw image bytes; the filename is not needed.
func (c *NATSClient) HandwritingEval(ctx context.Context, filename string, data []byte) (string, error) {
	var out OCRResponse
	if err := c.request(ctx, c.timeouts.OCR, "hw-eval", data, &out); err != nil {
		return "", err
	}
	return out.ExtractedText, nil
}

// Heartbeats calls fn for every heartbeat published on {prefix}.heartbeat
// until ctx is done. Malformed payloads are skipped.
func (c *NATSClient) Heartbeats(ctx context.Context, fn func(subject string, status HealthStatus)) error {
	subject := c.prefix + ".heartbeat"
	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		var status HealthStatus
		if err := json.Unmarshal(msg.Data, &status); err != nil {
			slog.Warn("Failed to parse heartbeat", "subject", msg.Subject, "error", err)
			return
		}
		fn(msg.Subject, status)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to heartbeats: %w", err)
	}
	defer sub.Unsubscribe()

	<-ctx.Done()
	return nil
}

func (c *NATSClient) Close() error {
	return c.conn.Drain()
}

func (c *NATSClient) request(ctx context.Context, timeout time.Duration, op string, data []byte, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := checkPayload(len(data), c.conn.MaxPayload()); err != nil {
		return err
	}

	msg := nats.NewMsg(c.prefix + "." + op)
	msg.Data = data
	traceID := ulid.Make().String()
	msg.Header.Set("X-Trace-ID", traceID)

	slog.Debug("Sending NATS request", "subject", msg.Subject, "trace_id", traceID, "size", len(data))

	reply, err := c.conn.RequestMsgWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("request %s failed: %w", msg.Subject, err)
	}
	if err := json.Unmarshal(reply.Data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
