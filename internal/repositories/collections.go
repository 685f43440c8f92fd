package repositories

import "github.com/SAP-F-2025/learnhub-service/internal/store"

// Root collections
const (
	CollectionUsers      = "users"
	CollectionVideos     = "videos"
	CollectionChallenges = "challenges"
	CollectionEvents     = "events"
	CollectionCategories = "categories"
	CollectionRoadmaps   = "roadmaps"
)

// Sub-collections
const (
	SubComments    = "comments"
	SubReplies     = "replies"
	SubReports     = "reports"
	SubPreferences = "preferences"
	SubSteps       = "steps"
)

func CommentsPath(videoID string) string {
	return store.Path(CollectionVideos, videoID, SubComments)
}

func RepliesPath(videoID, commentID string) string {
	return store.Path(CollectionVideos, videoID, SubComments, commentID, SubReplies)
}

func ReportsPath(videoID string) string {
	return store.Path(CollectionVideos, videoID, SubReports)
}

func PreferencesPath(userID string) string {
	return store.Path(CollectionUsers, userID, SubPreferences)
}

func StepsPath(roadmapID string) string {
	return store.Path(CollectionRoadmaps, roadmapID, SubSteps)
}
