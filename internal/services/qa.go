package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/aigoflow/assistant-service/internal/models"
	"github.com/aigoflow/assistant-service/internal/pipeline"
	"github.com/aigoflow/assistant-service/internal/repository"
)

var ErrMissingQAFields = errors.New("context and question are required")

type QAService struct {
	qa  pipeline.QuestionAnswerer
	log recorder
}

func NewQAService(qa pipeline.QuestionAnswerer, repo repository.Repository, stats *Stats) *QAService {
	return &QAService{qa: qa, log: recorder{repo: repo, stats: stats}}
}

// AnswerJSON decodes a QARequest body and answers it. A body that does not
// decode is reported like any other failure.
func (s *QAService) AnswerJSON(ctx context.Context, body []byte, meta RequestMeta) *models.QAResponse {
	var req models.QARequest
	if err := json.Unmarshal(body, &req); err != nil {
		return s.answer(ctx, req, fmt.Errorf("invalid request body: %w", err), meta)
	}
	return s.answer(ctx, req, nil, meta)
}

func (s *QAService) Answer(ctx context.Context, req models.QARequest, meta RequestMeta) *models.QAResponse {
	return s.answer(ctx, req, nil, meta)
}

func (s *QAService) answer(ctx context.Context, req models.QARequest, err error, meta RequestMeta) *models.QAResponse {
	start := s.log.begin()

	var question, passage string
	if req.Question != nil {
		question = *req.Question
	}
	if req.Context != nil {
		passage = *req.Context
	}

	var answer string
	if err == nil {
		answer, err = s.invoke(ctx, req)
	}
	if err != nil {
		slog.Warn("Question answering failed", "req_id", meta.ReqID, "error", err)
		answer = errorText(err)
	}

	s.log.record(ctx, meta, start, &models.LogEvent{
		Endpoint:      "/qa",
		Question:      models.StrPtr(question),
		ContextLength: models.IntPtr(utf8.RuneCountInString(passage)),
		Answer:        models.StrPtr(answer),
		Success:       err == nil,
	})
	return &models.QAResponse{Answer: answer}
}

func (s *QAService) invoke(ctx context.Context, req models.QARequest) (text string, err error) {
	defer recoverError(&err)

	if req.Question == nil || req.Context == nil {
		return "", ErrMissingQAFields
	}
	ans, err := s.qa.Answer(ctx, *req.Question, *req.Context)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(ans.Text), nil
}
