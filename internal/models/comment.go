package models

import "time"

// Comment belongs to exactly one video and is never edited
type Comment struct {
	ID          string    `json:"id"`
	VideoID     string    `json:"video_id"`
	Text        string    `json:"text"`
	AuthorID    string    `json:"author_id"`
	AuthorEmail string    `json:"author_email"`
	CreatedAt   time.Time `json:"created_at"`
}

// Reply belongs to exactly one comment
type Reply struct {
	ID          string    `json:"id"`
	VideoID     string    `json:"video_id"`
	CommentID   string    `json:"comment_id"`
	Text        string    `json:"text"`
	AuthorID    string    `json:"author_id"`
	AuthorEmail string    `json:"author_email"`
	CreatedAt   time.Time `json:"created_at"`
}

type Report struct {
	ID         string    `json:"id"`
	VideoID    string    `json:"video_id"`
	ReporterID string    `json:"reporter_id"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
}
