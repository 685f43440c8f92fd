package validator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/learnhub-service/internal/models"
)

func TestValidateEventRequest(t *testing.T) {
	bv := NewBusinessValidator()

	base := func() EventRequest {
		return EventRequest{
			Title:                 "GopherCon watch party",
			EventDate:             "2025-06-01",
			RegistrationCloseDate: "2025-05-30",
			Mode:                  "Offline",
			Location:              "Hall A",
		}
	}

	tests := []struct {
		name      string
		modify    func(r *EventRequest)
		wantField string
		wantRule  string
	}{
		{name: "valid offline", modify: func(r *EventRequest) {}},
		{name: "valid online", modify: func(r *EventRequest) { r.Mode = "Online"; r.Location = "" }},
		{name: "datetime-local dates", modify: func(r *EventRequest) {
			r.EventDate = "2025-06-01T18:00"
			r.RegistrationCloseDate = "2025-06-01T12:00"
		}},
		{
			name:      "closing after event",
			modify:    func(r *EventRequest) { r.RegistrationCloseDate = "2025-06-02" },
			wantField: "registration_close_date",
			wantRule:  "event_dates",
		},
		{
			name:      "closing on event date",
			modify:    func(r *EventRequest) { r.RegistrationCloseDate = "2025-06-01" },
			wantField: "registration_close_date",
			wantRule:  "event_dates",
		},
		{
			name:      "offline without location",
			modify:    func(r *EventRequest) { r.Location = "  " },
			wantField: "location",
			wantRule:  "event_location",
		},
		{
			name:      "online with location",
			modify:    func(r *EventRequest) { r.Mode = "Online" },
			wantField: "location",
			wantRule:  "event_location",
		},
		{
			name:      "unknown mode",
			modify:    func(r *EventRequest) { r.Mode = "Hybrid" },
			wantField: "mode",
			wantRule:  "event_mode",
		},
		{
			name:      "bad date",
			modify:    func(r *EventRequest) { r.EventDate = "next friday" },
			wantField: "event_date",
			wantRule:  "date",
		},
		{
			name:      "missing title",
			modify:    func(r *EventRequest) { r.Title = "" },
			wantField: "title",
			wantRule:  "required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base()
			tt.modify(&req)

			eventDate, closeDate, errs := bv.ValidateEventRequest(&req)
			if tt.wantField == "" {
				require.Empty(t, errs)
				assert.True(t, closeDate.Before(eventDate))
				return
			}
			require.NotEmpty(t, errs)
			assert.True(t, errs.Has(tt.wantField), "errors: %v", errs)
			assert.Equal(t, tt.wantRule, errs[0].Rule)
		})
	}
}

func TestValidateEventDates(t *testing.T) {
	event := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.Empty(t, ValidateEventDates(event, event.AddDate(0, 0, -2), models.EventOnline, ""))
	assert.Len(t, ValidateEventDates(event, event.AddDate(0, 0, 1), models.EventOnline, ""), 1)
	assert.Len(t, ValidateEventDates(event, event.AddDate(0, 0, 1), models.EventOffline, ""), 2)
}

func TestValidateProfileUpdateRejectsRole(t *testing.T) {
	bv := NewBusinessValidator()
	name := "Ada"
	role := "admin"

	assert.Empty(t, bv.ValidateProfileUpdate(&ProfileUpdateRequest{Name: &name}))

	errs := bv.ValidateProfileUpdate(&ProfileUpdateRequest{Name: &name, Role: &role})
	require.Len(t, errs, 1)
	assert.Equal(t, "role", errs[0].Field)
	assert.Equal(t, "role_immutable", errs[0].Rule)
}

func TestValidateUsesJSONNames(t *testing.T) {
	v := New()

	errs := v.Struct(&VideoCreateRequest{Title: "Channels", VideoURL: "not a url"})
	assert.True(t, errs.Has("category_id"))
	assert.True(t, errs.Has("video_url"))
	assert.Contains(t, errs.Error(), "2 field errors")

	errs = v.Struct(&RateRequest{Rating: 6})
	require.Len(t, errs, 1)
	assert.Equal(t, "must be at most 5", errs[0].Message)

	assert.Empty(t, v.Struct(&RoadmapGenerateRequest{Goal: "Learn Go", Level: "beginner"}))
	assert.True(t, v.Struct(&RoadmapGenerateRequest{Goal: "Learn Go", Level: "expert"}).Has("level"))
}
