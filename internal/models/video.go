package models

import "time"

type Video struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	CategoryID    string `json:"category_id"`
	SubcategoryID string `json:"subcategory_id"`
	UploaderID    string `json:"uploader_id"`
	VideoURL      string `json:"video_url"`
	ThumbnailURL  string `json:"thumbnail_url"`

	// Engagement
	Views         int64    `json:"views"`
	LikeCount     int64    `json:"like_count"`
	LikedBy       []string `json:"liked_by"`
	BookmarkedBy  []string `json:"bookmarked_by"`
	CommentsCount int64    `json:"comments_count"`
	ReportsCount  int64    `json:"reports_count"`

	// AverageRating is always the mean of Ratings
	AverageRating float64  `json:"average_rating"`
	Ratings       []Rating `json:"ratings"`

	UploadedAt time.Time `json:"uploaded_at"`
}

// Rating is one user's score for a video. A user has at most one.
type Rating struct {
	UserID string  `json:"user_id"`
	Rating float64 `json:"rating"`
}

// LikedByUser reports whether userID is in the liked-by set
func (v *Video) LikedByUser(userID string) bool {
	for _, id := range v.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// BookmarkedByUser reports whether userID bookmarked the video
func (v *Video) BookmarkedByUser(userID string) bool {
	for _, id := range v.BookmarkedBy {
		if id == userID {
			return true
		}
	}
	return false
}
