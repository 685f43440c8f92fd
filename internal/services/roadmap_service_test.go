package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/learnhub-service/internal/ai"
	"github.com/SAP-F-2025/learnhub-service/internal/validator"
)

func TestGenerateRoadmap(t *testing.T) {
	tests := []struct {
		name          string
		completer     ai.Completer
		wantGenerated bool
		wantSteps     []string
	}{
		{
			name:          "ai steps",
			completer:     &fakeCompleter{reply: "Plan:\n1. Syntax: types and control flow\n2. Concurrency - goroutines\n"},
			wantGenerated: true,
			wantSteps:     []string{"Syntax", "Concurrency"},
		},
		{
			name:      "ai failure falls back",
			completer: &fakeCompleter{err: &ai.Error{Title: "AI timeout", Message: "took too long"}},
			wantSteps: []string{"Learn the fundamentals", "Follow a guided course", "Build a small project", "Practice with challenges", "Share and get feedback"},
		},
		{
			name:      "reply without steps falls back",
			completer: &fakeCompleter{reply: "Sorry, I cannot help with that."},
			wantSteps: []string{"Learn the fundamentals", "Follow a guided course", "Build a small project", "Practice with challenges", "Share and get feedback"},
		},
		{
			name:      "no ai configured",
			wantSteps: []string{"Learn the fundamentals", "Follow a guided course", "Build a small project", "Practice with challenges", "Share and get feedback"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _ := newTestRepo(t)
			svc := NewRoadmapService(repo, tt.completer, slog.Default(), validator.New())

			roadmap, err := svc.Generate(context.Background(), learner, &GenerateRoadmapRequest{Goal: "  Go  ", Level: "beginner"})
			require.NoError(t, err)

			assert.Equal(t, "Go", roadmap.Title)
			assert.Equal(t, learner.ID, roadmap.UserID)
			assert.Equal(t, tt.wantGenerated, roadmap.Generated)
			titles := make([]string, len(roadmap.Steps))
			for i, step := range roadmap.Steps {
				titles[i] = step.Title
				assert.Equal(t, i+1, step.Order)
				assert.NotEmpty(t, step.ID)
				assert.False(t, step.Completed)
			}
			assert.Equal(t, tt.wantSteps, titles)
		})
	}
}

func TestGenerateSameGoalReplacesSteps(t *testing.T) {
	repo, _ := newTestRepo(t)
	completer := &fakeCompleter{reply: "1. One\n2. Two\n3. Three"}
	svc := NewRoadmapService(repo, completer, slog.Default(), validator.New())
	ctx := context.Background()

	first, err := svc.Generate(ctx, learner, &GenerateRoadmapRequest{Goal: "Rust"})
	require.NoError(t, err)
	require.Len(t, first.Steps, 3)

	completer.reply = "1. Only"
	second, err := svc.Generate(ctx, learner, &GenerateRoadmapRequest{Goal: "Rust"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, second.Steps, 1)

	other, err := svc.Generate(ctx, learner2, &GenerateRoadmapRequest{Goal: "Rust"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)

	mine, err := svc.ListByUser(ctx, learner.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestToggleRoadmapStep(t *testing.T) {
	repo, _ := newTestRepo(t)
	svc := NewRoadmapService(repo, nil, slog.Default(), validator.New())
	ctx := context.Background()

	roadmap, err := svc.Generate(ctx, learner, &GenerateRoadmapRequest{Goal: "SQL"})
	require.NoError(t, err)
	stepID := roadmap.Steps[1].ID

	step, err := svc.ToggleStep(ctx, learner, roadmap.ID, stepID)
	require.NoError(t, err)
	assert.True(t, step.Completed)

	got, err := svc.GetByID(ctx, learner, roadmap.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, got.Progress(), 1e-9)

	step, err = svc.ToggleStep(ctx, learner, roadmap.ID, stepID)
	require.NoError(t, err)
	assert.False(t, step.Completed)

	_, err = svc.ToggleStep(ctx, learner, roadmap.ID, "missing")
	assert.ErrorIs(t, err, ErrStepNotFound)
	_, err = svc.ToggleStep(ctx, learner2, roadmap.ID, stepID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.GetByID(ctx, learner, "missing")
	assert.ErrorIs(t, err, ErrRoadmapNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, learner2, roadmap.ID), ErrForbidden)
	require.NoError(t, svc.Delete(ctx, learner, roadmap.ID))
	_, err = svc.GetByID(ctx, learner, roadmap.ID)
	assert.ErrorIs(t, err, ErrRoadmapNotFound)
}

func TestLearningAssist(t *testing.T) {
	ctx := context.Background()

	t.Run("summary is cleaned", func(t *testing.T) {
		completer := &fakeCompleter{reply: "## Summary\n**Goroutines** are cheap threads."}
		svc := NewLearningAssistService(completer, slog.Default(), validator.New())

		summary, err := svc.Summarize(ctx, "long lecture notes")
		require.NoError(t, err)
		assert.Equal(t, "Summary\nGoroutines are cheap threads.", summary)
		require.Len(t, completer.prompts, 1)
		assert.Contains(t, completer.prompts[0], "long lecture notes")
	})

	t.Run("key points", func(t *testing.T) {
		completer := &fakeCompleter{reply: "1. Channels\n- Select\n\n3) Context"}
		svc := NewLearningAssistService(completer, slog.Default(), validator.New())

		points, err := svc.KeyPoints(ctx, "notes")
		require.NoError(t, err)
		assert.Equal(t, []string{"Channels", "Select", "Context"}, points)
	})

	t.Run("stream ends with the whole summary", func(t *testing.T) {
		completer := &fakeCompleter{reply: "Short answer."}
		svc := NewLearningAssistService(completer, slog.Default(), validator.New())

		frames, err := svc.Stream(ctx, "notes")
		require.NoError(t, err)
		var last string
		count := 0
		for frame := range frames {
			assert.GreaterOrEqual(t, len(frame), len(last))
			last = frame
			count++
		}
		assert.Equal(t, "Short answer.", last)
		assert.Greater(t, count, 1)
	})

	t.Run("ai failure is returned", func(t *testing.T) {
		failure := &ai.Error{Title: "AI request failed", Message: "bad gateway", Status: 502}
		svc := NewLearningAssistService(&fakeCompleter{err: failure}, slog.Default(), validator.New())

		_, err := svc.Stream(ctx, "notes")
		assert.ErrorIs(t, err, failure)
	})

	t.Run("no ai configured", func(t *testing.T) {
		svc := NewLearningAssistService(nil, slog.Default(), validator.New())
		_, err := svc.Summarize(ctx, "notes")
		var aiErr *ai.Error
		require.True(t, errors.As(err, &aiErr))
		assert.Equal(t, "AI unavailable", aiErr.Title)
	})

	t.Run("empty text is invalid", func(t *testing.T) {
		svc := NewLearningAssistService(&fakeCompleter{}, slog.Default(), validator.New())
		_, err := svc.KeyPoints(ctx, "")
		var verrs ValidationErrors
		assert.ErrorAs(t, err, &verrs)
	})
}
