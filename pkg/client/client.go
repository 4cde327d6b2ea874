// Package client calls the assistant service over HTTP or NATS.
//
// Operation failures inside the service come back as ordinary strings
// starting with "Error:". The error return is reserved for transport
// problems: timeouts, refused connections and replies that are not the
// expected JSON.
//
// Over NATS every request is one message, so an upload is bounded by the
// server's max_payload (1 MiB by default) rather than the HTTP upload
// limit. NATSClient rejects larger bodies with ErrPayloadTooLarge before
// publishing; use the HTTP client for large scans.
package client

import "context"

type AssistantClient interface {
	Health(ctx context.Context) (string, error)
	QA(ctx context.Context, passage, question string) (string, error)
	Summarize(ctx context.Context, text string) (string, error)
	HandwritingEval(ctx context.Context, filename string, data []byte) (string, error)
	Close() error
}
