package validator

// VideoCreateRequest represents the request structure for publishing a video
type VideoCreateRequest struct {
	Title         string `json:"title" validate:"required,content_title"`
	Description   string `json:"description" validate:"omitempty,max=5000"`
	CategoryID    string `json:"category_id" validate:"required"`
	SubcategoryID string `json:"subcategory_id"`
	VideoURL      string `json:"video_url" validate:"required,url"`
	ThumbnailURL  string `json:"thumbnail_url" validate:"omitempty,url"`
}

// VideoUpdateRequest changes only the fields that are set
type VideoUpdateRequest struct {
	Title         *string `json:"title" validate:"omitempty,content_title"`
	Description   *string `json:"description" validate:"omitempty,max=5000"`
	CategoryID    *string `json:"category_id" validate:"omitempty,min=1"`
	SubcategoryID *string `json:"subcategory_id"`
	ThumbnailURL  *string `json:"thumbnail_url" validate:"omitempty,url"`
}

type RateRequest struct {
	Rating float64 `json:"rating" validate:"required,min=1,max=5"`
}

type ReportRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

// CommentCreateRequest is used for both comments and replies
type CommentCreateRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}

type ChallengeCreateRequest struct {
	Title         string `json:"title" validate:"required,content_title"`
	Description   string `json:"description" validate:"omitempty,max=5000"`
	CategoryID    string `json:"category_id" validate:"required"`
	SubcategoryID string `json:"subcategory_id"`
	Topic         string `json:"topic" validate:"omitempty,max=200"`
	ProblemURL    string `json:"problem_url" validate:"required,url"`
	SolutionURL   string `json:"solution_url" validate:"omitempty,url"`
}

type ChallengeUpdateRequest struct {
	Title         *string `json:"title" validate:"omitempty,content_title"`
	Description   *string `json:"description" validate:"omitempty,max=5000"`
	CategoryID    *string `json:"category_id" validate:"omitempty,min=1"`
	SubcategoryID *string `json:"subcategory_id"`
	Topic         *string `json:"topic" validate:"omitempty,max=200"`
	ProblemURL    *string `json:"problem_url" validate:"omitempty,url"`
	SolutionURL   *string `json:"solution_url" validate:"omitempty,url"`
}

// EventRequest is used for create and full replace. Dates accept
// RFC3339, datetime-local and date-only strings.
type EventRequest struct {
	Title                 string `json:"title" validate:"required,content_title"`
	Description           string `json:"description" validate:"omitempty,max=5000"`
	ThumbnailURL          string `json:"thumbnail_url" validate:"omitempty,url"`
	EventDate             string `json:"event_date" validate:"required"`
	RegistrationCloseDate string `json:"registration_close_date" validate:"required"`
	Mode                  string `json:"mode" validate:"required,event_mode"`
	Location              string `json:"location" validate:"omitempty,max=300"`
	Organizer             string `json:"organizer" validate:"omitempty,max=200"`
}

type CategoryCreateRequest struct {
	Name          string   `json:"name" validate:"required,min=1,max=100"`
	Subcategories []string `json:"subcategories" validate:"omitempty,max=50,dive,required,max=100"`
}

// ProfileUpdateRequest carries Role only so an attempt to change it can be
// rejected explicitly.
type ProfileUpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	PhotoURL *string `json:"photo_url" validate:"omitempty,url"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
	Address  *string `json:"address" validate:"omitempty,max=300"`
	Role     *string `json:"role,omitempty"`
}

type PreferenceRequest struct {
	CategoryID string `json:"category_id" validate:"required"`
}

type RoadmapGenerateRequest struct {
	Goal  string `json:"goal" validate:"required,min=2,max=200"`
	Level string `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
}

type AssistRequest struct {
	Text string `json:"text" validate:"required,min=1,max=20000"`
}

type SignInRequest struct {
	Code  string `json:"code" validate:"required"`
	State string `json:"state"`
}
