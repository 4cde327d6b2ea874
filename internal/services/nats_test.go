package services

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aigoflow/assistant-service/internal/models"
	"github.com/aigoflow/assistant-service/internal/pipeline"
)

func readLogLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	require.NoError(t, sc.Err())
	return lines
}

func newTestNATSService(repo *memoryRepository) *NATSService {
	stats := NewStats()
	return &NATSService{
		qa:          NewQAService(&fakeQA{answer: pipeline.Answer{Text: " Paris "}}, repo, stats),
		summarize:   NewSummarizeService(&fakeSummarizer{summary: "short"}, repo, stats),
		handwriting: NewHandwritingService(&fakeEngine{text: "ink"}, repo, stats),
	}
}

func TestNATSReplies(t *testing.T) {
	repo := &memoryRepository{}
	s := newTestNATSService(repo)
	meta := NewRequestMeta(SourceNATS, "")

	var qa models.QAResponse
	require.NoError(t, json.Unmarshal(s.replyQA(context.Background(), []byte(`{"context":"c","question":"q"}`), meta), &qa))
	assert.Equal(t, "Paris", qa.Answer)

	var sum models.SummarizeResponse
	require.NoError(t, json.Unmarshal(s.replySummarize(context.Background(), []byte(`{"text":"t"}`), meta), &sum))
	assert.Equal(t, "short", sum.Summary)

	var ocr models.OCRResponse
	require.NoError(t, json.Unmarshal(s.replyHandwriting(context.Background(), []byte("garbage"), meta), &ocr))
	assert.Contains(t, ocr.ExtractedText, "Error:")

	events := repo.all()
	require.Len(t, events, 3)
	for _, ev := range events {
		assert.Equal(t, SourceNATS, ev.Source)
	}
}

func TestTraceIDFromHeader(t *testing.T) {
	msg := nats.NewMsg("assistant.qa")
	assert.Equal(t, "", traceID(msg))

	msg.Header.Set(traceHeader, " abc ")
	assert.Equal(t, "abc", traceID(msg))

	assert.Equal(t, "", traceID(&nats.Msg{Subject: "assistant.qa"}))
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "assistant.hw-eval", Subject("assistant", "hw-eval"))
}
