package models

import "time"

// Roadmap is unique per (UserID, Title)
type Roadmap struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Steps       []RoadmapStep `json:"steps"`
	Generated   bool          `json:"generated"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type RoadmapStep struct {
	ID          string `json:"id"`
	Order       int    `json:"order"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Progress is the completed share of steps, 0 for an empty roadmap
func (r *Roadmap) Progress() float64 {
	if len(r.Steps) == 0 {
		return 0
	}
	done := 0
	for _, s := range r.Steps {
		if s.Completed {
			done++
		}
	}
	return float64(done) / float64(len(r.Steps))
}
