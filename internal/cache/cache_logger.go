package cache

import (
	"context"
	"log/slog"
	"slices"
	"strings"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// DocKey is the cache key of one document
func DocKey(collection, id string) string {
	return collection + "#" + id
}

// Dashboard aggregate keys in the stats namespace
const AdminStatsKey = "admin"

func TeacherStatsKey(teacherID string) string { return "teacher:" + teacherID }

func LearnerStatsKey(userID string) string { return "learner:" + userID }

// statsScopes lists the aggregates fed by each root collection
var statsScopes = map[string][]string{
	"users":      {AdminStatsKey},
	"videos":     {AdminStatsKey, TeacherStatsKey("*"), LearnerStatsKey("*")},
	"challenges": {AdminStatsKey, TeacherStatsKey("*")},
	"events":     {AdminStatsKey, TeacherStatsKey("*"), LearnerStatsKey("*")},
	"roadmaps":   {LearnerStatsKey("*")},
}

// statsKeys returns the aggregates a write to collection/id can change.
// Comments, replies and reports only reach the dashboards through counters
// on their video, which is written separately.
func statsKeys(collection, id string) []string {
	segments := strings.Split(collection, "/")
	root := segments[0]

	if len(segments) == 1 {
		keys := slices.Clone(statsScopes[root])
		if root == "users" {
			keys = append(keys, LearnerStatsKey(id))
		}
		return keys
	}

	switch root {
	case "users":
		// users/{id}/preferences
		return []string{LearnerStatsKey(segments[1])}
	case "roadmaps":
		return []string{LearnerStatsKey("*")}
	}
	return nil
}

// InvalidateDocument drops the cached document and the dashboard aggregates
// derived from its collection
func InvalidateDocument(ctx context.Context, cm *CacheManager, collection, id string) {
	SafeDelete(ctx, cm.Docs, DocKey(collection, id))

	var exact []string
	for _, key := range statsKeys(collection, id) {
		if strings.HasSuffix(key, "*") {
			SafeInvalidatePattern(ctx, cm.Stats, key)
			continue
		}
		exact = append(exact, key)
	}
	SafeDelete(ctx, cm.Stats, exact...)
}
