package services

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/learnhub-service/internal/dispatcher"
	"github.com/SAP-F-2025/learnhub-service/internal/store"
	"github.com/SAP-F-2025/learnhub-service/internal/validator"
)

// ===== SENTINEL ERRORS =====

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrVideoNotFound     = errors.New("video not found")
	ErrCommentNotFound   = errors.New("comment not found")
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrEventNotFound     = errors.New("event not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrRoadmapNotFound   = errors.New("roadmap not found")
	ErrStepNotFound      = errors.New("roadmap step not found")
	ErrPageNotFound      = errors.New("view page not found")

	ErrUnauthorized     = errors.New("authentication required")
	ErrForbidden        = errors.New("access forbidden")
	ErrValidationFailed = errors.New("validation failed")
	ErrUnknownEntity    = errors.New("unknown entity")

	// ErrBusy is returned while the same user's previous toggle on the same
	// record is still being written
	ErrBusy = dispatcher.ErrBusy
)

type ValidationError = validator.ValidationError
type ValidationErrors = validator.ValidationErrors

func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: message, Value: value, Rule: "business_logic"}
}

// PermissionError reports an action the user's role or ownership does not allow
type PermissionError struct {
	UserID     string
	ResourceID string
	Resource   string
	Action     string
	Reason     string
}

func NewPermissionError(userID, resourceID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

func (e *PermissionError) Error() string {
	if e.ResourceID == "" {
		return fmt.Sprintf("user %s cannot %s %s: %s", e.UserID, e.Action, e.Resource, e.Reason)
	}
	return fmt.Sprintf("user %s cannot %s %s %s: %s", e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

func (e *PermissionError) Is(target error) bool {
	return target == ErrForbidden
}

// BusinessRuleError reports a request that is well formed but not allowed
type BusinessRuleError struct {
	Rule    string
	Message string
}

func NewBusinessRuleError(rule, message string) *BusinessRuleError {
	return &BusinessRuleError{Rule: rule, Message: message}
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule %s violated: %s", e.Rule, e.Message)
}

// notFound replaces a store not-found error with the domain sentinel
func notFound(err error, sentinel error) error {
	if store.IsNotFound(err) {
		return fmt.Errorf("%w: %v", sentinel, err)
	}
	return err
}

func IsNotFound(err error) bool {
	for _, target := range []error{
		ErrUserNotFound, ErrVideoNotFound, ErrCommentNotFound, ErrChallengeNotFound,
		ErrEventNotFound, ErrCategoryNotFound, ErrRoadmapNotFound, ErrStepNotFound,
		ErrPageNotFound, store.ErrNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
