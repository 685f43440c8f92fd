package models

import "time"

type Challenge struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	CategoryID    string    `json:"category_id"`
	SubcategoryID string    `json:"subcategory_id"`
	Topic         string    `json:"topic"`
	ProblemURL    string    `json:"problem_url"`
	SolutionURL   string    `json:"solution_url"`
	UploaderID    string    `json:"uploader_id"`
	CreatedAt     time.Time `json:"created_at"`
}

type Category struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Subcategories []string  `json:"subcategories"`
	CreatedAt     time.Time `json:"created_at"`
}
