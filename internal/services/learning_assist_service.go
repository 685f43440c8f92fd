package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/learnhub-service/internal/ai"
	"github.com/SAP-F-2025/learnhub-service/internal/validator"
)

const (
	typewriterRunes    = 3
	typewriterInterval = 30 * time.Millisecond
)

type learningAssistService struct {
	ai        ai.Completer
	logger    *slog.Logger
	validator *validator.Validator
}

func NewLearningAssistService(completer ai.Completer, logger *slog.Logger, validator *validator.Validator) LearningAssistService {
	return &learningAssistService{ai: completer, logger: logger, validator: validator}
}

func (s *learningAssistService) Summarize(ctx context.Context, text string) (string, error) {
	if err := s.check(text); err != nil {
		return "", err
	}
	raw, err := s.complete(ctx, ai.SummarizePrompt(text))
	if err != nil {
		return "", err
	}
	return ai.CleanText(raw), nil
}

func (s *learningAssistService) KeyPoints(ctx context.Context, text string) ([]string, error) {
	if err := s.check(text); err != nil {
		return nil, err
	}
	raw, err := s.complete(ctx, ai.KeyPointsPrompt(text))
	if err != nil {
		return nil, err
	}
	return ai.SplitPoints(raw), nil
}

// Stream summarizes first, then reveals the summary a few runes at a time.
// An AI failure is returned before any frame is sent.
func (s *learningAssistService) Stream(ctx context.Context, text string) (<-chan string, error) {
	summary, err := s.Summarize(ctx, text)
	if err != nil {
		return nil, err
	}
	return ai.Typewriter(ctx, summary, typewriterRunes, typewriterInterval), nil
}

func (s *learningAssistService) check(text string) error {
	if errors := s.validator.Struct(&validator.AssistRequest{Text: text}); len(errors) > 0 {
		return errors
	}
	return nil
}

func (s *learningAssistService) complete(ctx context.Context, prompt string) (string, error) {
	if s.ai == nil {
		return "", &ai.Error{Title: "AI unavailable", Message: "No AI service is configured."}
	}
	raw, err := s.ai.Complete(ctx, prompt)
	if err != nil {
		s.logger.Warn("AI completion failed", "error", err)
		return "", err
	}
	return raw, nil
}
