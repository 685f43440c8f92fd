package services

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/SAP-F-2025/learnhub-service/internal/cache"
	"github.com/SAP-F-2025/learnhub-service/internal/mapper"
	"github.com/SAP-F-2025/learnhub-service/internal/models"
	"github.com/SAP-F-2025/learnhub-service/internal/repositories"
)

const (
	topVideosLimit   = 5
	recommendLimit   = 12
	upcomingLimit    = 5
	averagePrecision = 2
)

type dashboardService struct {
	repo   repositories.Repository
	cache  *cache.CacheHelper
	logger *slog.Logger
	now    func() time.Time
}

// NewDashboardService creates the dashboard service. Results are cached in
// stats for a short TTL; a nil helper disables caching.
func NewDashboardService(repo repositories.Repository, stats *cache.CacheHelper, logger *slog.Logger) DashboardService {
	return &dashboardService{repo: repo, cache: stats, logger: logger, now: time.Now}
}

// ===== ADMIN =====

func (s *dashboardService) Admin(ctx context.Context) (*models.AdminStats, error) {
	var stats models.AdminStats
	err := s.cache.CacheOrExecute(ctx, cache.AdminStatsKey, &stats, cache.StatsCacheConfig.TTL, func() (any, error) {
		return s.adminStats(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *dashboardService) adminStats(ctx context.Context) (*models.AdminStats, error) {
	dash := s.repo.Dashboard()

	byRole, err := dash.UsersByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users by role: %w", err)
	}
	total := 0
	for _, n := range byRole {
		total += n
	}

	stats := &models.AdminStats{TotalUsers: total, UsersByRole: byRole}

	counts := []struct {
		collection string
		dest       *int
	}{
		{repositories.CollectionVideos, &stats.Videos},
		{repositories.CollectionChallenges, &stats.Challenges},
		{repositories.CollectionEvents, &stats.Events},
	}
	for _, c := range counts {
		n, err := dash.Count(ctx, c.collection)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.collection, err)
		}
		*c.dest = n
	}

	uploads, skippedUploads, err := dash.Monthly(ctx, repositories.CollectionVideos, mapper.FieldUploadedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to group uploads: %w", err)
	}
	joins, skippedJoins, err := dash.Monthly(ctx, repositories.CollectionUsers, mapper.FieldJoinedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to group joins: %w", err)
	}
	stats.MonthlyUploads = uploads
	stats.MonthlyJoins = joins
	stats.Skipped = skippedUploads + skippedJoins

	if stats.Skipped > 0 {
		s.logger.Warn("Dashboard left out records with malformed dates", "skipped", stats.Skipped)
	}
	return stats, nil
}

// ===== TEACHER =====

func (s *dashboardService) Teacher(ctx context.Context, teacherID string) (*models.TeacherStats, error) {
	var stats models.TeacherStats
	err := s.cache.CacheOrExecute(ctx, cache.TeacherStatsKey(teacherID), &stats, cache.StatsCacheConfig.TTL, func() (any, error) {
		return s.teacherStats(ctx, teacherID)
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *dashboardService) teacherStats(ctx context.Context, teacherID string) (*models.TeacherStats, error) {
	videos, err := s.repo.Video().List(ctx, repositories.VideoFilters{UploaderID: teacherID})
	if err != nil {
		return nil, fmt.Errorf("failed to list teacher videos: %w", err)
	}
	challenges, err := s.repo.Challenge().List(ctx, repositories.ChallengeFilters{UploaderID: teacherID})
	if err != nil {
		return nil, fmt.Errorf("failed to list teacher challenges: %w", err)
	}
	events, err := s.repo.Event().List(ctx, repositories.EventFilters{OwnerID: teacherID})
	if err != nil {
		return nil, fmt.Errorf("failed to list teacher events: %w", err)
	}

	stats := &models.TeacherStats{
		Videos:     len(videos),
		Challenges: len(challenges),
		Events:     len(events),
	}

	var ratingSum float64
	rated := 0
	uploads := make([]time.Time, 0, len(videos))
	for _, v := range videos {
		stats.Views += v.Views
		stats.Likes += v.LikeCount
		stats.Comments += v.CommentsCount
		if len(v.Ratings) > 0 {
			ratingSum += v.AverageRating
			rated++
		}
		uploads = append(uploads, v.UploadedAt)
	}
	if rated > 0 {
		stats.AverageRating = roundFloat(ratingSum/float64(rated), averagePrecision)
	}
	stats.MonthlyUploads = monthly(uploads)

	top := slices.Clone(videos)
	slices.SortStableFunc(top, func(a, b models.Video) int { return cmp.Compare(b.Views, a.Views) })
	stats.TopVideos = top[:min(topVideosLimit, len(top))]

	return stats, nil
}

// ===== LEARNER =====

// Learner builds the learner home: videos from preferred categories (most
// viewed overall when there are none), upcoming events, roadmaps and bookmarks
func (s *dashboardService) Learner(ctx context.Context, userID string) (*models.LearnerHome, error) {
	var home models.LearnerHome
	err := s.cache.CacheOrExecute(ctx, cache.LearnerStatsKey(userID), &home, cache.StatsCacheConfig.TTL, func() (any, error) {
		return s.learnerHome(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return &home, nil
}

func (s *dashboardService) learnerHome(ctx context.Context, userID string) (*models.LearnerHome, error) {
	prefs, err := s.repo.Preference().List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}

	videos, err := s.repo.Video().List(ctx, repositories.VideoFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}

	home := &models.LearnerHome{
		Recommended: recommend(videos, prefs),
		Bookmarked:  []models.Video{},
	}
	for _, v := range videos {
		if v.BookmarkedByUser(userID) {
			home.Bookmarked = append(home.Bookmarked, v)
		}
	}

	events, err := s.repo.Event().List(ctx, repositories.EventFilters{
		ListOptions: repositories.ListOptions{OrderBy: mapper.FieldEventDate},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	now := s.now()
	home.UpcomingEvents = []models.Event{}
	for _, e := range events {
		if e.EventDate.After(now) && len(home.UpcomingEvents) < upcomingLimit {
			home.UpcomingEvents = append(home.UpcomingEvents, e)
		}
	}

	home.Roadmaps, err = s.repo.Roadmap().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roadmaps: %w", err)
	}
	return home, nil
}

func recommend(videos []models.Video, prefs []models.Preference) []models.Video {
	preferred := make(map[string]bool, len(prefs))
	for _, p := range prefs {
		preferred[p.CategoryID] = true
	}

	picked := make([]models.Video, 0, len(videos))
	for _, v := range videos {
		if len(preferred) == 0 || preferred[v.CategoryID] {
			picked = append(picked, v)
		}
	}
	slices.SortStableFunc(picked, func(a, b models.Video) int { return cmp.Compare(b.Views, a.Views) })
	return picked[:min(recommendLimit, len(picked))]
}

// ===== HELPER FUNCTIONS =====

func monthly(times []time.Time) []models.MonthlyCount {
	byMonth := make(map[string]int)
	for _, t := range times {
		if t.IsZero() {
			continue
		}
		byMonth[t.UTC().Format("2006-01")]++
	}
	counts := make([]models.MonthlyCount, 0, len(byMonth))
	for month, n := range byMonth {
		counts = append(counts, models.MonthlyCount{Month: month, Count: n})
	}
	slices.SortFunc(counts, func(a, b models.MonthlyCount) int { return cmp.Compare(a.Month, b.Month) })
	return counts
}

func roundFloat(val float64, precision int) float64 {
	ratio := 1.0
	for i := 0; i < precision; i++ {
		ratio *= 10
	}
	return float64(int(val*ratio+0.5)) / ratio
}
