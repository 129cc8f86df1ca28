package directory

import "strings"

// MissingEmail is the email assigned to records whose linked account could
// not be resolved.
const MissingEmail = "n/a"

const (
	DefaultPrimaryType    = "employees"
	DefaultSecondaryType  = "accounts"
	DefaultLink           = "account"
	DefaultEmailAttribute = "email"
)

// Schema names the resource types and the relationship used for the
// enrichment join.
type Schema struct {
	PrimaryType    string
	SecondaryType  string
	Link           string
	EmailAttribute string
}

func DefaultSchema() Schema {
	return Schema{
		PrimaryType:    DefaultPrimaryType,
		SecondaryType:  DefaultSecondaryType,
		Link:           DefaultLink,
		EmailAttribute: DefaultEmailAttribute,
	}
}

// WithDefaults fills blank fields from DefaultSchema.
func (s Schema) WithDefaults() Schema {
	def := DefaultSchema()
	if strings.TrimSpace(s.PrimaryType) == "" {
		s.PrimaryType = def.PrimaryType
	}
	if strings.TrimSpace(s.SecondaryType) == "" {
		s.SecondaryType = def.SecondaryType
	}
	if strings.TrimSpace(s.Link) == "" {
		s.Link = def.Link
	}
	if strings.TrimSpace(s.EmailAttribute) == "" {
		s.EmailAttribute = def.EmailAttribute
	}
	return s
}

// Record is a selectable primary resource after normalization.
type Record struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	FirstName  string         `json:"firstName"`
	LastName   string         `json:"lastName"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	LinkedID   string         `json:"linkedId,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

type DiagnosticKind string

const (
	DiagnosticDuplicate  DiagnosticKind = "duplicate"
	DiagnosticUnresolved DiagnosticKind = "unresolved"
)

// Diagnostic describes a per-record anomaly that was resolved by a fallback.
type Diagnostic struct {
	Kind    DiagnosticKind
	ID      string
	Type    string
	Message string
}

func (d Diagnostic) String() string {
	return d.Message
}
