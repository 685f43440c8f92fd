package models

// MonthlyCount is the number of records dated in Month (YYYY-MM)
type MonthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type AdminStats struct {
	TotalUsers     int              `json:"total_users"`
	UsersByRole    map[UserRole]int `json:"users_by_role"`
	Videos         int              `json:"videos"`
	Challenges     int              `json:"challenges"`
	Events         int              `json:"events"`
	MonthlyUploads []MonthlyCount   `json:"monthly_uploads"`
	MonthlyJoins   []MonthlyCount   `json:"monthly_joins"`
	// Skipped counts records left out of the monthly series for bad dates
	Skipped int `json:"skipped"`
}

type TeacherStats struct {
	Videos         int            `json:"videos"`
	Views          int64          `json:"views"`
	Likes          int64          `json:"likes"`
	Comments       int64          `json:"comments"`
	AverageRating  float64        `json:"average_rating"`
	Challenges     int            `json:"challenges"`
	Events         int            `json:"events"`
	MonthlyUploads []MonthlyCount `json:"monthly_uploads"`
	TopVideos      []Video        `json:"top_videos"`
}

type LearnerHome struct {
	Recommended    []Video   `json:"recommended"`
	UpcomingEvents []Event   `json:"upcoming_events"`
	Roadmaps       []Roadmap `json:"roadmaps"`
	Bookmarked     []Video   `json:"bookmarked"`
}
