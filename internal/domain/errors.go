package domain

import "errors"

var (
	// ErrCategoryNotFound is returned when a category slug is unknown to the catalog
	ErrCategoryNotFound = errors.New("category not found")

	// ErrIndustryNotFound is returned when an industry slug is unknown to the catalog
	ErrIndustryNotFound = errors.New("industry not found")

	// ErrToolNotFound is returned when a tool slug does not exist in the store
	ErrToolNotFound = errors.New("tool not found")

	// ErrPageNotFound is returned when no industry page exists for a slug
	ErrPageNotFound = errors.New("industry page not found")

	// ErrComparisonNotFound is returned when a comparison slug cannot be resolved
	ErrComparisonNotFound = errors.New("comparison not found")

	// ErrInsufficientTools is returned when a category has fewer than two tools to rank
	ErrInsufficientTools = errors.New("category has fewer than two tools")

	// ErrIncompleteProfile is returned when an industry profile lacks fields the templates need
	ErrIncompleteProfile = errors.New("industry profile is incomplete")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidLead is returned when a lead submission fails validation
	ErrInvalidLead = errors.New("invalid lead")

	// ErrLeadNotFound is returned when a lead id does not exist
	ErrLeadNotFound = errors.New("lead not found")

	// ErrInvalidStatus is returned for a lead status value or transition that is not allowed
	ErrInvalidStatus = errors.New("invalid lead status transition")

	// ErrUnauthorized is returned when operator credentials are missing or wrong
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTextGeneration is returned when the text-generation collaborator fails
	ErrTextGeneration = errors.New("text generation failed")

	// ErrInvalidGeneratedContent is returned when generated page content fails validation
	ErrInvalidGeneratedContent = errors.New("generated content failed validation")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrStorage is returned when the backing store fails a read or write
	ErrStorage = errors.New("storage failure")
)

// LeadValidationError describes the first field that made a lead submission invalid.
// Message is safe to show to the submitter.
type LeadValidationError struct {
	Field   string
	Message string
}

func (e *LeadValidationError) Error() string {
	return e.Message
}

// Unwrap lets callers match the error with errors.Is(err, ErrInvalidLead).
func (e *LeadValidationError) Unwrap() error {
	return ErrInvalidLead
}
