package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/learnhub-service/internal/validator"
)

func TestCommentsKeepVideoCounter(t *testing.T) {
	repo, _ := newTestRepo(t)
	category := seedCategory(t, repo, "Go")
	videos := newVideoService(repo, false)
	comments := NewCommentService(repo, slog.Default(), validator.New(), true)
	video := seedVideo(t, videos, teacher, category.ID, "Slices")
	ctx := context.Background()

	first, err := comments.Add(ctx, learner, video.ID, &CreateCommentRequest{Text: "first"})
	require.NoError(t, err)
	assert.Equal(t, learner.Email, first.AuthorEmail)
	assert.False(t, first.CreatedAt.IsZero())

	_, err = comments.Add(ctx, learner2, video.ID, &CreateCommentRequest{Text: "second"})
	require.NoError(t, err)
	_, err = comments.AddReply(ctx, teacher, video.ID, first.ID, &CreateCommentRequest{Text: "welcome"})
	require.NoError(t, err)

	got, err := videos.GetByID(ctx, video.ID, learner)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.CommentsCount)

	threads, err := comments.List(ctx, video.ID)
	require.NoError(t, err)
	require.Len(t, threads, 2)
	assert.Equal(t, "first", threads[0].Text)
	require.Len(t, threads[0].Replies, 1)
	assert.Equal(t, "welcome", threads[0].Replies[0].Text)
	assert.Empty(t, threads[1].Replies)

	assert.ErrorIs(t, comments.Delete(ctx, learner2, video.ID, first.ID), ErrForbidden)
	require.NoError(t, comments.Delete(ctx, learner, video.ID, first.ID))
	assert.ErrorIs(t, comments.Delete(ctx, learner, video.ID, first.ID), ErrCommentNotFound)

	got, err = videos.GetByID(ctx, video.ID, learner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.CommentsCount)

	replies, err := comments.ListReplies(ctx, video.ID, first.ID)
	require.NoError(t, err)
	assert.Empty(t, replies)
}

func TestCommentValidation(t *testing.T) {
	repo, _ := newTestRepo(t)
	comments := NewCommentService(repo, slog.Default(), validator.New(), false)
	ctx := context.Background()

	tests := []struct {
		name    string
		call    func() error
		wantErr error
	}{
		{
			name: "unknown video",
			call: func() error {
				_, err := comments.Add(ctx, learner, "missing", &CreateCommentRequest{Text: "hi"})
				return err
			},
			wantErr: ErrVideoNotFound,
		},
		{
			name: "reply to unknown comment",
			call: func() error {
				_, err := comments.AddReply(ctx, learner, "missing", "missing", &CreateCommentRequest{Text: "hi"})
				return err
			},
			wantErr: ErrCommentNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), tt.wantErr)
		})
	}

	_, err := comments.Add(ctx, learner, "missing", &CreateCommentRequest{})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has("text"))
}

func TestCommentRemovedWhenCounterFails(t *testing.T) {
	repo, _ := newTestRepo(t)
	category := seedCategory(t, repo, "Go")
	video := seedVideo(t, newVideoService(repo, false), teacher, category.ID, "Channels")
	ctx := context.Background()

	boom := errors.New("counter write failed")
	comments := NewCommentService(counterFailRepo{Repository: repo, err: boom}, slog.Default(), validator.New(), false)

	_, err := comments.Add(ctx, learner, video.ID, &CreateCommentRequest{Text: "lost?"})
	assert.ErrorIs(t, err, boom)

	stored, err := repo.Comment().List(ctx, video.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}
