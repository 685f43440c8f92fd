package mapper

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/learnhub-service/internal/models"
	"github.com/SAP-F-2025/learnhub-service/internal/store"
)

func TestTimestamp(t *testing.T) {
	want := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   any
		want    time.Time
		wantErr bool
	}{
		{name: "time value", input: want, want: want},
		{name: "time pointer", input: &want, want: want},
		{name: "server timestamp", input: map[string]any{"seconds": want.Unix(), "nanoseconds": 0}, want: want},
		{name: "admin sdk timestamp", input: map[string]any{"_seconds": float64(want.Unix()), "_nanoseconds": float64(0)}, want: want},
		{name: "rfc3339", input: "2025-06-01T10:30:00Z", want: want},
		{name: "date only", input: "2025-06-01", want: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		{name: "datetime-local", input: "2025-06-01T10:30", want: want},
		{name: "unix millis", input: want.UnixMilli(), want: want},
		{name: "unix millis float", input: float64(want.UnixMilli()), want: want},
		{name: "json number", input: json.Number("1748773800000"), want: want},
		{name: "garbage string", input: "not-a-date", wantErr: true},
		{name: "object without seconds", input: map[string]any{"when": "soon"}, wantErr: true},
		{name: "bool", input: true, wantErr: true},
		{name: "nil", input: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Timestamp(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedTimestamp)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestToUserDefaults(t *testing.T) {
	created := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	doc := store.Document{ID: "u1", CreateTime: created, UpdateTime: created, Data: store.Data{"email": "a@b.c"}}

	user, err := ToUser(doc)
	require.NoError(t, err)

	assert.Equal(t, models.RoleLearner, user.Role)
	assert.Equal(t, "a@b.c", user.Email)
	assert.Equal(t, "", user.Name)
	assert.Equal(t, created, user.JoinedAt)

	doc.Data["role"] = "Teacher"
	user, err = ToUser(doc)
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, user.Role)

	doc.Data["role"] = "superuser"
	user, err = ToUser(doc)
	require.NoError(t, err)
	assert.Equal(t, models.RoleLearner, user.Role)
}

func TestToVideoRecomputesAverage(t *testing.T) {
	doc := store.Document{ID: "v1", Data: store.Data{
		"title":          "Channels",
		"average_rating": 1.0,
		"views":          float64(12),
		"like_count":     -3,
		"liked_by":       []any{"u1", 7, "u2"},
		"ratings": []any{
			map[string]any{"user_id": "u1", "rating": 4},
			map[string]any{"user_id": "u2", "rating": float64(2)},
			map[string]any{"user_id": "u1", "rating": 5},
			map[string]any{"rating": 1},
		},
	}}

	video, err := ToVideo(doc)
	require.NoError(t, err)

	assert.Equal(t, int64(12), video.Views)
	assert.Equal(t, int64(0), video.LikeCount)
	assert.Equal(t, []string{"u1", "u2"}, video.LikedBy)
	assert.Equal(t, []string{}, video.BookmarkedBy)
	assert.Len(t, video.Ratings, 2)
	assert.InDelta(t, 3.5, video.AverageRating, 1e-9)
}

func TestUpsertRatingReplaces(t *testing.T) {
	ratings := []models.Rating{{UserID: "u1", Rating: 2}, {UserID: "u2", Rating: 4}}

	got := UpsertRating(ratings, "u1", 5)
	assert.Equal(t, []models.Rating{{UserID: "u1", Rating: 5}, {UserID: "u2", Rating: 4}}, got)
	assert.InDelta(t, 4.5, AverageRating(got), 1e-9)

	got = UpsertRating(got, "u3", 3)
	assert.Len(t, got, 3)
	assert.InDelta(t, 4.0, AverageRating(got), 1e-9)

	assert.Equal(t, 0.0, AverageRating(nil))
}

func TestToEventRequiresDates(t *testing.T) {
	good := store.Document{ID: "e1", Data: store.Data{
		"event_date":              "2025-06-01",
		"registration_close_date": "2025-05-30",
		"mode":                    "offline",
		"location":                "Hall A",
	}}
	event, err := ToEvent(good)
	require.NoError(t, err)
	assert.Equal(t, models.EventOffline, event.Mode)
	assert.True(t, event.RegistrationOpen(time.Date(2025, 5, 29, 0, 0, 0, 0, time.UTC)))

	bad := store.Document{ID: "e2", Data: store.Data{"event_date": "not-a-date", "registration_close_date": "2025-05-30"}}
	_, err = ToEvent(bad)
	assert.ErrorIs(t, err, ErrMalformedTimestamp)
}

func TestSubCollectionParents(t *testing.T) {
	reply, err := ToReply(store.Document{
		ID:         "r1",
		Collection: store.Path("videos", "v1", "comments", "c1", "replies"),
		Data:       store.Data{"text": "thanks"},
	})
	require.NoError(t, err)
	assert.Equal(t, "v1", reply.VideoID)
	assert.Equal(t, "c1", reply.CommentID)

	pref, err := ToPreference(store.Document{
		ID:         "p1",
		Collection: store.Path("users", "u9", "preferences"),
		Data:       store.Data{"category_id": "go"},
	})
	require.NoError(t, err)
	assert.Equal(t, "u9", pref.UserID)
}

func TestMonthlyCountsSkipsMalformed(t *testing.T) {
	docs := []store.Document{
		{ID: "a", Data: store.Data{"uploaded_at": "2025-01-15"}},
		{ID: "b", Data: store.Data{"uploaded_at": "not-a-date"}},
		{ID: "c", Data: store.Data{"uploaded_at": map[string]any{"seconds": time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC).Unix()}}},
		{ID: "d", Data: store.Data{"uploaded_at": time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC)}},
		{ID: "e", CreateTime: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), Data: store.Data{}},
	}

	counts, skipped := MonthlyCounts(docs, FieldUploadedAt)

	assert.Equal(t, 1, skipped)
	assert.Equal(t, []models.MonthlyCount{
		{Month: "2024-12", Count: 1},
		{Month: "2025-01", Count: 2},
		{Month: "2025-02", Count: 1},
	}, counts)
}

func TestMapListSkipsFailures(t *testing.T) {
	docs := []store.Document{
		{ID: "u1", Data: store.Data{"joined_at": "2025-01-01"}},
		{ID: "u2", Data: store.Data{"joined_at": "not-a-date"}},
		{ID: "u3", Data: store.Data{"role": "admin"}},
	}

	users, skipped := MapList(docs, ToUser)
	assert.Equal(t, 1, skipped)
	require.Len(t, users, 2)
	assert.Equal(t, "u1", users[0].ID)
	assert.Equal(t, "u3", users[1].ID)

	counts := CountByRole(users)
	assert.Equal(t, 1, counts[models.RoleAdmin])
	assert.Equal(t, 1, counts[models.RoleLearner])
	assert.Equal(t, 0, counts[models.RoleTeacher])
}

func TestFromVideoStartsEngagementAtZero(t *testing.T) {
	data := FromVideo(models.Video{Title: "Generics", UploaderID: "t1"})
	resolved := store.ResolveData(data, time.Now())

	video, err := ToVideo(store.Document{ID: "v1", Data: resolved})
	require.NoError(t, err)
	assert.Equal(t, int64(0), video.Views)
	assert.Empty(t, video.Ratings)
	assert.False(t, video.UploadedAt.IsZero())
}
