package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/softwarescout/backend/internal/domain"
	infralogger "github.com/softwarescout/backend/internal/infrastructure/logger"
)

const (
	defaultLeadListLimit = 500
	maxLeadListLimit     = 500
)

var leadEmailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// leadFieldOrder is the order fields are reported in; only the first failure is returned.
var leadFieldOrder = []string{"software_category", "name", "email", "company_size", "budget"}

// leadMessages maps "field.tag" to the message shown to the submitter.
var leadMessages = map[string]string{
	"software_category.required": "Software category is required",
	"name.required":              "Name is required",
	"email.required":             "Email is required",
	"email.leademail":            "Invalid email address",
	"email.workemail":            "Please use your work email address",
	"company_size.oneof":         "Invalid company size",
	"budget.oneof":               "Invalid budget",
}

// LeadMetrics receives lead intake outcomes
type LeadMetrics interface {
	LeadSubmitted(category string)
	LeadRejected(field string)
}

type nopLeadMetrics struct{}

func (nopLeadMetrics) LeadSubmitted(string) {}
func (nopLeadMetrics) LeadRejected(string)  {}

// LeadServiceConfig holds configuration for lead intake
type LeadServiceConfig struct {
	BlockedEmailDomains []string
	MaxMatches          int
	AdminPassword       string
}

// LeadService validates, matches and stores buyer leads
type LeadService struct {
	catalog  domain.CatalogRepository
	leads    domain.LeadRepository
	logger   infralogger.Logger
	metrics  LeadMetrics
	validate *validator.Validate

	blocked       map[string]bool
	maxMatches    int
	adminPassword string

	now   func() time.Time
	newID func() string
}

// NewLeadService creates a lead service. metrics may be nil.
func NewLeadService(
	catalog domain.CatalogRepository,
	leads domain.LeadRepository,
	log infralogger.Logger,
	metrics LeadMetrics,
	config LeadServiceConfig,
) *LeadService {
	if metrics == nil {
		metrics = nopLeadMetrics{}
	}
	maxMatches := config.MaxMatches
	if maxMatches <= 0 {
		maxMatches = DefaultMaxMatches
	}

	blocked := make(map[string]bool, len(config.BlockedEmailDomains))
	for _, d := range config.BlockedEmailDomains {
		blocked[strings.ToLower(strings.TrimSpace(d))] = true
	}

	s := &LeadService{
		catalog:       catalog,
		leads:         leads,
		logger:        log,
		metrics:       metrics,
		blocked:       blocked,
		maxMatches:    maxMatches,
		adminPassword: config.AdminPassword,
		now:           time.Now,
		newID:         uuid.NewString,
	}
	s.validate = s.newValidator()
	return s
}

func (s *LeadService) newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("leademail", func(fl validator.FieldLevel) bool {
		return leadEmailRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("workemail", func(fl validator.FieldLevel) bool {
		return !s.blocked[emailDomain(fl.Field().String())]
	})
	return v
}

func emailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}

// Submit validates a lead, ranks the category's tools for it and stores it.
// Validation failures return *domain.LeadValidationError and write nothing.
func (s *LeadService) Submit(ctx context.Context, req domain.LeadRequest) (*domain.LeadResult, error) {
	req = trimLeadRequest(req)

	if err := s.validateLead(req); err != nil {
		var verr *domain.LeadValidationError
		if errors.As(err, &verr) {
			s.metrics.LeadRejected(verr.Field)
		}
		return nil, err
	}

	tools, err := s.catalog.GetToolsByCategory(ctx, req.SoftwareCategory)
	if err != nil {
		// The lead is still worth keeping without matches.
		s.logger.Warn("failed to load tools for lead matching",
			infralogger.String("category", req.SoftwareCategory),
			infralogger.Error(err))
		tools = nil
	}

	budget := domain.Budget(req.Budget)
	matched := MatchTools(tools, budget, req.Requirements, s.maxMatches)

	requirements := req.Requirements
	if requirements == nil {
		requirements = []string{}
	}

	lead := &domain.Lead{
		ID:               s.newID(),
		SoftwareCategory: req.SoftwareCategory,
		Industry:         req.Industry,
		CompanyName:      req.CompanyName,
		CompanySize:      req.CompanySize,
		Budget:           budget,
		Requirements:     requirements,
		MatchedTools:     matched,
		Name:             req.Name,
		Email:            strings.ToLower(req.Email),
		Phone:            req.Phone,
		SourcePage:       req.SourcePage,
		Status:           domain.LeadStatusNew,
		CreatedAt:        s.now().UTC(),
	}

	if err := s.leads.InsertLead(ctx, lead); err != nil {
		s.logger.Error("failed to insert lead",
			infralogger.String("category", lead.SoftwareCategory),
			infralogger.Error(err))
		return nil, fmt.Errorf("%w: insert lead: %v", domain.ErrStorage, err)
	}

	s.metrics.LeadSubmitted(lead.SoftwareCategory)
	s.logger.Info("lead stored",
		infralogger.String("lead_id", lead.ID),
		infralogger.String("category", lead.SoftwareCategory),
		infralogger.Int("matched", len(matched)))

	names := make([]string, len(matched))
	for i, m := range matched {
		names[i] = m.Name
	}
	return &domain.LeadResult{LeadID: lead.ID, MatchedTools: names}, nil
}

func trimLeadRequest(req domain.LeadRequest) domain.LeadRequest {
	req.SoftwareCategory = strings.TrimSpace(req.SoftwareCategory)
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.CompanySize = strings.TrimSpace(req.CompanySize)
	req.Budget = strings.TrimSpace(req.Budget)
	req.Industry = strings.TrimSpace(req.Industry)
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	req.Phone = strings.TrimSpace(req.Phone)
	req.SourcePage = strings.TrimSpace(req.SourcePage)
	return req
}

// validateLead returns the first failure in field order as a LeadValidationError.
func (s *LeadService) validateLead(req domain.LeadRequest) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidLead, err)
	}

	failed := make(map[string]validator.FieldError, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, seen := failed[fe.Field()]; !seen {
			failed[fe.Field()] = fe
		}
	}

	for _, field := range leadFieldOrder {
		fe, ok := failed[field]
		if !ok {
			continue
		}
		msg, ok := leadMessages[field+"."+fe.Tag()]
		if !ok {
			msg = "Invalid " + strings.ReplaceAll(field, "_", " ")
		}
		return &domain.LeadValidationError{Field: field, Message: msg}
	}

	fe := fieldErrs[0]
	return &domain.LeadValidationError{Field: fe.Field(), Message: "Invalid " + fe.Field()}
}

// List returns leads for the operator view. Limit defaults to and is capped at 500.
func (s *LeadService) List(ctx context.Context, filter domain.LeadFilter) ([]domain.Lead, error) {
	if filter.Limit <= 0 || filter.Limit > maxLeadListLimit {
		filter.Limit = defaultLeadListLimit
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, filter.Status)
	}

	leads, err := s.leads.ListLeads(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: list leads: %v", domain.ErrStorage, err)
	}
	if leads == nil {
		leads = []domain.Lead{}
	}
	return leads, nil
}

// UpdateStatus moves a lead along new -> contacted -> sold|invalid.
func (s *LeadService) UpdateStatus(ctx context.Context, id string, status domain.LeadStatus) (*domain.Lead, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	lead, err := s.leads.GetLead(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: get lead: %v", domain.ErrStorage, err)
	}
	if lead == nil {
		return nil, domain.ErrLeadNotFound
	}

	if !lead.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidStatus, lead.Status, status)
	}

	if err := s.leads.UpdateLeadStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("%w: update lead status: %v", domain.ErrStorage, err)
	}

	s.logger.Info("lead status updated",
		infralogger.String("lead_id", id),
		infralogger.String("from", string(lead.Status)),
		infralogger.String("to", string(status)))

	lead.Status = status
	return lead, nil
}

// CheckAdminPassword reports whether password grants operator access.
// An unset admin password locks the operator endpoints.
func (s *LeadService) CheckAdminPassword(password string) error {
	if s.adminPassword == "" || password == "" {
		return domain.ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) != 1 {
		return domain.ErrUnauthorized
	}
	return nil
}
