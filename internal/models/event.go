package models

import "time"

type EventMode string

const (
	EventOnline  EventMode = "Online"
	EventOffline EventMode = "Offline"
)

// Event registration closes strictly before the event date. Location is
// set exactly when the event is Offline.
type Event struct {
	ID                    string    `json:"id"`
	Title                 string    `json:"title"`
	Description           string    `json:"description"`
	ThumbnailURL          string    `json:"thumbnail_url"`
	EventDate             time.Time `json:"event_date"`
	RegistrationCloseDate time.Time `json:"registration_close_date"`
	Mode                  EventMode `json:"mode"`
	Location              string    `json:"location"`
	Organizer             string    `json:"organizer"`
	OwnerID               string    `json:"owner_id"`
	CreatedAt             time.Time `json:"created_at"`
}

// RegistrationOpen reports whether at is before the registration deadline
func (e *Event) RegistrationOpen(at time.Time) bool {
	return at.Before(e.RegistrationCloseDate)
}
