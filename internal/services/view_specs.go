package services

import (
	"cmp"
	"strings"
	"time"

	"github.com/SAP-F-2025/learnhub-service/internal/models"
	"github.com/SAP-F-2025/learnhub-service/internal/viewstate"
)

// Entities served by list pages
const (
	EntityUsers      = "users"
	EntityVideos     = "videos"
	EntityChallenges = "challenges"
	EntityEvents     = "events"
)

func compareTime(a, b time.Time) int {
	return a.Compare(b)
}

func compareFold(a, b string) int {
	return cmp.Compare(strings.ToLower(a), strings.ToLower(b))
}

var userSpec = viewstate.Spec[models.User]{
	SearchFields: func(u models.User) []string { return []string{u.Name, u.Email} },
	FilterValue: func(u models.User, key string) string {
		if key == "role" {
			return string(u.Role)
		}
		return ""
	},
	SortKeys: map[string]func(a, b models.User) int{
		"name":      func(a, b models.User) int { return compareFold(a.Name, b.Name) },
		"email":     func(a, b models.User) int { return compareFold(a.Email, b.Email) },
		"role":      func(a, b models.User) int { return cmp.Compare(a.Role, b.Role) },
		"joined_at": func(a, b models.User) int { return compareTime(a.JoinedAt, b.JoinedAt) },
	},
}

var videoSpec = viewstate.Spec[models.Video]{
	SearchFields: func(v models.Video) []string { return []string{v.Title, v.Description} },
	FilterValue: func(v models.Video, key string) string {
		switch key {
		case "category_id":
			return v.CategoryID
		case "subcategory_id":
			return v.SubcategoryID
		case "uploader_id":
			return v.UploaderID
		}
		return ""
	},
	SortKeys: map[string]func(a, b models.Video) int{
		"title":       func(a, b models.Video) int { return compareFold(a.Title, b.Title) },
		"views":       func(a, b models.Video) int { return cmp.Compare(a.Views, b.Views) },
		"likes":       func(a, b models.Video) int { return cmp.Compare(a.LikeCount, b.LikeCount) },
		"comments":    func(a, b models.Video) int { return cmp.Compare(a.CommentsCount, b.CommentsCount) },
		"rating":      func(a, b models.Video) int { return cmp.Compare(a.AverageRating, b.AverageRating) },
		"uploaded_at": func(a, b models.Video) int { return compareTime(a.UploadedAt, b.UploadedAt) },
	},
}

var challengeSpec = viewstate.Spec[models.Challenge]{
	SearchFields: func(c models.Challenge) []string { return []string{c.Title, c.Topic, c.Description} },
	FilterValue: func(c models.Challenge, key string) string {
		switch key {
		case "category_id":
			return c.CategoryID
		case "subcategory_id":
			return c.SubcategoryID
		case "uploader_id":
			return c.UploaderID
		case "topic":
			return c.Topic
		}
		return ""
	},
	SortKeys: map[string]func(a, b models.Challenge) int{
		"title":      func(a, b models.Challenge) int { return compareFold(a.Title, b.Title) },
		"topic":      func(a, b models.Challenge) int { return compareFold(a.Topic, b.Topic) },
		"created_at": func(a, b models.Challenge) int { return compareTime(a.CreatedAt, b.CreatedAt) },
	},
}

var eventSpec = viewstate.Spec[models.Event]{
	SearchFields: func(e models.Event) []string { return []string{e.Title, e.Organizer, e.Location} },
	FilterValue: func(e models.Event, key string) string {
		switch key {
		case "mode":
			return string(e.Mode)
		case "owner_id":
			return e.OwnerID
		}
		return ""
	},
	SortKeys: map[string]func(a, b models.Event) int{
		"title":                   func(a, b models.Event) int { return compareFold(a.Title, b.Title) },
		"event_date":              func(a, b models.Event) int { return compareTime(a.EventDate, b.EventDate) },
		"registration_close_date": func(a, b models.Event) int { return compareTime(a.RegistrationCloseDate, b.RegistrationCloseDate) },
	},
}
