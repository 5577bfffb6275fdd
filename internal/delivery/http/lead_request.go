package http

import (
	"bytes"
	"encoding/json"

	"github.com/softwarescout/backend/internal/domain"
)

// looseString accepts any JSON value. Strings decode as-is; null is empty;
// anything else keeps its raw text in other.
type looseString struct {
	value string
	other string
}

func (s *looseString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(data, &s.value); err != nil {
		s.other = string(data)
	}
	return nil
}

// text is the string value; a mistyped field counts as absent.
func (s looseString) text() string {
	return s.value
}

// enum is the string value, or the raw text of a mistyped field so that enum
// validation rejects it instead of treating it as absent.
func (s looseString) enum() string {
	if s.other != "" {
		return s.other
	}
	return s.value
}

// looseStrings keeps the string elements of a JSON array. Any other value
// decodes as empty.
type looseStrings []string

func (s *looseStrings) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*s = nil
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		var v string
		if json.Unmarshal(r, &v) == nil {
			out = append(out, v)
		}
	}
	*s = out
	return nil
}

// leadBody is the wire form of a lead submission. Field types are lenient so
// a wrongly-typed field reaches lead validation and gets its field message
// instead of a generic decode error.
type leadBody struct {
	SoftwareCategory looseString  `json:"software_category"`
	Industry         looseString  `json:"industry"`
	CompanyName      looseString  `json:"company_name"`
	CompanySize      looseString  `json:"company_size"`
	Budget           looseString  `json:"budget"`
	Requirements     looseStrings `json:"requirements"`
	Name             looseString  `json:"name"`
	Email            looseString  `json:"email"`
	Phone            looseString  `json:"phone"`
	SourcePage       looseString  `json:"source_page"`
}

func (b leadBody) toRequest() domain.LeadRequest {
	return domain.LeadRequest{
		SoftwareCategory: b.SoftwareCategory.text(),
		Name:             b.Name.text(),
		Email:            b.Email.text(),
		CompanySize:      b.CompanySize.enum(),
		Budget:           b.Budget.enum(),
		Industry:         b.Industry.text(),
		CompanyName:      b.CompanyName.text(),
		Requirements:     []string(b.Requirements),
		Phone:            b.Phone.text(),
		SourcePage:       b.SourcePage.text(),
	}
}
