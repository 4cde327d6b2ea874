package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aigoflow/assistant-service/internal/config"
)

var ErrTokenizerMissing = errors.New("tokenizer files not found")

// tokenizerSets lists file combinations that make up a usable tokenizer.
var tokenizerSets = [][]string{
	{"tokenizer.json"},
	{"vocab.json", "tokenizer_config.json"},
	{"vocab.txt", "tokenizer_config.json"},
}

// FineTunedPresent reports whether dir holds a fine-tuned model. A
// directory counts as a model once it has config.json; such a directory
// without tokenizer files is an error rather than a fallback.
func FineTunedPresent(dir string) (bool, error) {
	if dir == "" {
		return false, nil
	}
	if _, err := os.Stat(filepath.Join(dir, "config.json")); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat fine-tuned model: %w", err)
	}

	for _, set := range tokenizerSets {
		if allExist(dir, set) {
			return true, nil
		}
	}
	return false, fmt.Errorf("fine-tuned model at %s: %w", dir, ErrTokenizerMissing)
}

func allExist(dir string, names []string) bool {
	for _, name := range names {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return false
		}
	}
	return true
}

// Load selects the models for this process. The choice is made once; a
// fine-tuned QA model found at cfg.FineTunedQAPath wins over the default
// pretrained one. The summarizer always uses cfg.SummaryModel.
func Load(cfg *config.Config) (*Handles, error) {
	defaultRuntime := NewRuntime(cfg.RuntimeURL, cfg.RuntimeToken, cfg.RuntimeTimeout)

	fineTuned, err := FineTunedPresent(cfg.FineTunedQAPath)
	if err != nil {
		return nil, err
	}

	var qaInfo ModelInfo
	var qa QuestionAnswerer
	if fineTuned {
		local := NewRuntime(cfg.FineTunedQARuntimeURL, "", cfg.RuntimeTimeout)
		name := filepath.Base(filepath.Clean(cfg.FineTunedQAPath))
		qa = NewRuntimeQA(local, name)
		qaInfo = ModelInfo{Name: name, Source: SourceFineTuned, Endpoint: local.ModelURL(name)}
		slog.Info("Using fine-tuned QA model", "path", cfg.FineTunedQAPath, "endpoint", qaInfo.Endpoint)
	} else {
		qa = NewRuntimeQA(defaultRuntime, cfg.QAModel)
		qaInfo = ModelInfo{Name: cfg.QAModel, Source: SourcePretrained, Endpoint: defaultRuntime.ModelURL(cfg.QAModel)}
		slog.Info("Fine-tuned QA model not found, using pretrained model", "path", cfg.FineTunedQAPath, "model", cfg.QAModel)
	}

	return &Handles{
		QA:         qa,
		Summarizer: NewRuntimeSummarizer(defaultRuntime, cfg.SummaryModel),
		QAModel:    qaInfo,
		SummaryModel: ModelInfo{
			Name:     cfg.SummaryModel,
			Source:   SourcePretrained,
			Endpoint: defaultRuntime.ModelURL(cfg.SummaryModel),
		},
	}, nil
}
