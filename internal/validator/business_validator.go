package validator

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SAP-F-2025/learnhub-service/internal/mapper"
	"github.com/SAP-F-2025/learnhub-service/internal/models"
)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()
	validate.RegisterTagNameFunc(jsonFieldName)

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates tag rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	return ToValidationErrors(bv.validate.Struct(s))
}

// ValidateEventRequest validates tags, then the date and location rules.
// It returns the parsed dates when the request is valid.
func (bv *BusinessValidator) ValidateEventRequest(req *EventRequest) (eventDate, closeDate time.Time, errs ValidationErrors) {
	errs = bv.Validate(req)
	if len(errs) > 0 {
		return time.Time{}, time.Time{}, errs
	}

	eventDate, err := mapper.Timestamp(req.EventDate)
	if err != nil {
		errs = append(errs, ValidationError{Field: "event_date", Message: "is not a valid date", Value: req.EventDate, Rule: "date"})
	}
	closeDate, err = mapper.Timestamp(req.RegistrationCloseDate)
	if err != nil {
		errs = append(errs, ValidationError{Field: "registration_close_date", Message: "is not a valid date", Value: req.RegistrationCloseDate, Rule: "date"})
	}
	if len(errs) > 0 {
		return time.Time{}, time.Time{}, errs
	}

	errs = ValidateEventDates(eventDate, closeDate, models.EventMode(req.Mode), req.Location)
	return eventDate, closeDate, errs
}

// ValidateEventDates rejects a registration close date on or after the event
// date, and requires a location exactly when the event is Offline.
func ValidateEventDates(eventDate, closeDate time.Time, mode models.EventMode, location string) ValidationErrors {
	var errors ValidationErrors

	if !closeDate.Before(eventDate) {
		errors = append(errors, ValidationError{
			Field:   "registration_close_date",
			Message: "must be before the event date",
			Value:   closeDate,
			Rule:    "event_dates",
		})
	}

	hasLocation := strings.TrimSpace(location) != ""
	switch {
	case mode == models.EventOffline && !hasLocation:
		errors = append(errors, ValidationError{
			Field:   "location",
			Message: "is required for offline events",
			Rule:    "event_location",
		})
	case mode == models.EventOnline && hasLocation:
		errors = append(errors, ValidationError{
			Field:   "location",
			Message: "must be empty for online events",
			Value:   location,
			Rule:    "event_location",
		})
	}

	return errors
}

// ValidateProfileUpdate rejects any attempt to change the role
func (bv *BusinessValidator) ValidateProfileUpdate(req *ProfileUpdateRequest) ValidationErrors {
	errors := bv.Validate(req)
	if req.Role != nil {
		errors = append(errors, ValidationError{
			Field:   "role",
			Message: "cannot be changed",
			Value:   *req.Role,
			Rule:    "role_immutable",
		})
	}
	return errors
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Title validation (1-200 characters after trimming)
	bv.validate.RegisterValidation("content_title", func(fl validator.FieldLevel) bool {
		title := strings.TrimSpace(fl.Field().String())
		return len(title) >= 1 && len(title) <= 200
	})

	bv.validate.RegisterValidation("event_mode", func(fl validator.FieldLevel) bool {
		mode := models.EventMode(fl.Field().String())
		return mode == models.EventOnline || mode == models.EventOffline
	})

	bv.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).IsValid()
	})

	// event_dates on EventRequest as a struct-level rule
	bv.validate.RegisterStructValidation(func(sl validator.StructLevel) {
		req := sl.Current().Interface().(EventRequest)
		eventDate, err1 := mapper.Timestamp(req.EventDate)
		closeDate, err2 := mapper.Timestamp(req.RegistrationCloseDate)
		if err1 != nil || err2 != nil {
			return
		}
		if !closeDate.Before(eventDate) {
			sl.ReportError(req.RegistrationCloseDate, "registration_close_date", "RegistrationCloseDate", "event_dates", "")
		}
	}, EventRequest{})
}
