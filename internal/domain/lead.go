package domain

import "time"

// Budget is a price-ceiling bracket selected by a prospective buyer
type Budget string

const (
	BudgetFree    Budget = "free"
	BudgetUnder50 Budget = "under-50"
	Budget50To200 Budget = "50-200"
	Budget200Plus Budget = "200-plus"
)

// noCeiling is the ceiling applied to 200-plus and to leads without a bracket.
const noCeiling = 999999

// Ceiling returns the maximum monthly starting price accepted by the bracket.
// An empty bracket behaves like 200-plus.
func (b Budget) Ceiling() float64 {
	switch b {
	case BudgetFree:
		return 0
	case BudgetUnder50:
		return 50
	case Budget50To200:
		return 200
	default:
		return noCeiling
	}
}

// Valid reports whether b is one of the known brackets.
func (b Budget) Valid() bool {
	switch b {
	case BudgetFree, BudgetUnder50, Budget50To200, Budget200Plus:
		return true
	}
	return false
}

// CompanySizes lists the accepted company size values
var CompanySizes = []string{"1-10", "11-50", "51-200", "200+"}

// LeadStatus is the lifecycle state of a lead. Only operators change it.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusSold      LeadStatus = "sold"
	LeadStatusInvalid   LeadStatus = "invalid"
)

var leadTransitions = map[LeadStatus][]LeadStatus{
	LeadStatusNew:       {LeadStatusContacted, LeadStatusInvalid},
	LeadStatusContacted: {LeadStatusSold, LeadStatusInvalid},
}

// Valid reports whether s is a known status.
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusSold, LeadStatusInvalid:
		return true
	}
	return false
}

// CanTransitionTo reports whether an operator may move a lead from s to next.
func (s LeadStatus) CanTransitionTo(next LeadStatus) bool {
	for _, allowed := range leadTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// MatchedTool is a ranked tool reference attached to a lead
type MatchedTool struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Lead is a persisted buyer inquiry
type Lead struct {
	ID               string        `json:"id"`
	SoftwareCategory string        `json:"software_category"`
	Industry         string        `json:"industry,omitempty"`
	CompanyName      string        `json:"company_name,omitempty"`
	CompanySize      string        `json:"company_size,omitempty"`
	Budget           Budget        `json:"budget,omitempty"`
	Requirements     []string      `json:"requirements"`
	MatchedTools     []MatchedTool `json:"matched_tools"`
	Name             string        `json:"name"`
	Email            string        `json:"email"`
	Phone            string        `json:"phone,omitempty"`
	SourcePage       string        `json:"source_page,omitempty"`
	Status           LeadStatus    `json:"status"`
	CreatedAt        time.Time     `json:"created_at"`
}

// LeadRequest is an inbound lead submission as received from the site form
type LeadRequest struct {
	SoftwareCategory string   `json:"software_category" validate:"required"`
	Name             string   `json:"name" validate:"required"`
	Email            string   `json:"email" validate:"required,leademail,workemail"`
	CompanySize      string   `json:"company_size" validate:"omitempty,oneof=1-10 11-50 51-200 200+"`
	Budget           string   `json:"budget" validate:"omitempty,oneof=free under-50 50-200 200-plus"`
	Industry         string   `json:"industry"`
	CompanyName      string   `json:"company_name"`
	Requirements     []string `json:"requirements"`
	Phone            string   `json:"phone"`
	SourcePage       string   `json:"source_page"`
}

// LeadResult is returned to the submitter after a lead is stored
type LeadResult struct {
	LeadID       string   `json:"-"`
	MatchedTools []string `json:"matched_tools"`
}

// LeadFilter narrows an operator lead listing
type LeadFilter struct {
	Category  string
	Status    LeadStatus
	Ascending bool
	Limit     int
}
