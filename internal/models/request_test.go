package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatencySeconds(t *testing.T) {
	assert.Equal(t, 0.0, LatencySeconds(0))
	assert.Equal(t, 1.2346, LatencySeconds(1234567*time.Microsecond))
	assert.Equal(t, 0.0001, LatencySeconds(120*time.Microsecond))
}

func TestLogEventOmitsOtherEndpointFields(t *testing.T) {
	ev := LogEvent{
		ReqID:         "01H",
		Source:        "http",
		Endpoint:      "/qa",
		Question:      StrPtr("Who?"),
		ContextLength: IntPtr(0),
		Answer:        StrPtr(""),
		Latency:       0.5,
		Success:       true,
	}
	b, err := json.Marshal(ev)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(b, &fields))
	assert.Contains(t, fields, "context_length")
	assert.Equal(t, 0.0, fields["context_length"])
	assert.Equal(t, "", fields["answer"])
	assert.NotContains(t, fields, "input_length")
	assert.NotContains(t, fields, "summary")
	assert.NotContains(t, fields, "file_size")
	assert.NotContains(t, fields, "trace_id")
	assert.Equal(t, true, fields["success"])
}
