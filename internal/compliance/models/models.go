package models

import (
	"fmt"
	"strings"
	"time"

	id "africonnect/pkg/domain"
)

// Sector partitions regulations by professional domain.
type Sector string

const (
	SectorLegal       Sector = "legal"
	SectorTax         Sector = "tax"
	SectorDevelopment Sector = "development"
	SectorCreative    Sector = "creative"
	SectorGeneral     Sector = "general"
)

type RegulationStatus string

const (
	RegulationActive     RegulationStatus = "active"
	RegulationPending    RegulationStatus = "pending"
	RegulationSuperseded RegulationStatus = "superseded"
	RegulationArchived   RegulationStatus = "archived"
)

// Regulation is authored outside this system and read-only here.
type Regulation struct {
	ID            id.RegulationID  `json:"id"`
	Country       string           `json:"country"`
	Sector        Sector           `json:"sector"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Requirements  []Requirement    `json:"requirements"`
	Applicability Applicability    `json:"applicability"`
	Penalties     string           `json:"penalties,omitempty"`
	Status        RegulationStatus `json:"status"`
	Keywords      []string         `json:"keywords,omitempty"`
}

type Requirement struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Mandatory   bool   `json:"mandatory"`
}

// Applicability narrows which engagements a regulation governs. Empty
// ServiceTypes means every service type.
type Applicability struct {
	ProfessionalTypes []string `json:"professional_types,omitempty"`
	ServiceTypes      []string `json:"service_types,omitempty"`
	CrossBorderOnly   bool     `json:"cross_border_only"`
}

func (a Applicability) CoversServiceType(subCategory string) bool {
	if len(a.ServiceTypes) == 0 {
		return true
	}
	for _, t := range a.ServiceTypes {
		if t == subCategory {
			return true
		}
	}
	return false
}

func (a Applicability) CoversProfessionalType(pt string) bool {
	for _, t := range a.ProfessionalTypes {
		if t == pt {
			return true
		}
	}
	return false
}

// MandatoryRequirements returns the requirements that must be reflected in terms.
func (r Regulation) MandatoryRequirements() []Requirement {
	var out []Requirement
	for _, req := range r.Requirements {
		if req.Mandatory {
			out = append(out, req)
		}
	}
	return out
}

// Verdict is the outcome of one compliance check.
type Verdict string

const (
	VerdictCompliant    Verdict = "compliant"
	VerdictNonCompliant Verdict = "non_compliant"
	VerdictWarning      Verdict = "warning"
)

func (v Verdict) IsValid() bool {
	return v == VerdictCompliant || v == VerdictNonCompliant || v == VerdictWarning
}

// Status is the aggregate compliance standing stored on a contract.
type Status string

const (
	StatusPending      Status = "pending"
	StatusCompliant    Status = "compliant"
	StatusNonCompliant Status = "non_compliant"
)

// FindingKind tags why a record is non-compliant.
type FindingKind string

const (
	FindingMissingRequirement FindingKind = "missing_requirement"
	FindingProhibitedTerm     FindingKind = "prohibited_term"
	FindingOther              FindingKind = "other"
)

// Finding is one structured reason behind a non-compliant record. Exactly one
// of Requirement, Term or Text is set, according to Kind.
type Finding struct {
	Kind        FindingKind `json:"kind"`
	Requirement string      `json:"requirement,omitempty"`
	Term        string      `json:"term,omitempty"`
	Text        string      `json:"text,omitempty"`
}

func MissingRequirement(title string) Finding {
	return Finding{Kind: FindingMissingRequirement, Requirement: title}
}

func ProhibitedTerm(term string) Finding {
	return Finding{Kind: FindingProhibitedTerm, Term: term}
}

func Other(text string) Finding {
	return Finding{Kind: FindingOther, Text: text}
}

func (f Finding) Describe() string {
	switch f.Kind {
	case FindingMissingRequirement:
		return fmt.Sprintf("Missing mandatory requirement: %s.", f.Requirement)
	case FindingProhibitedTerm:
		return fmt.Sprintf("Contract contains prohibited term: %q.", f.Term)
	default:
		return f.Text
	}
}

// RecordSource distinguishes engine output from manual reviewer entries.
type RecordSource string

const (
	SourceEngine RecordSource = "engine"
	SourceManual RecordSource = "manual"
)

// Record is one entry in a contract's append-only compliance history. Round
// groups the records produced by one evaluation together with the manual
// entries added after it.
type Record struct {
	Jurisdiction string       `json:"jurisdiction"`
	Verdict      Verdict      `json:"status"`
	Detail       string       `json:"details"`
	Findings     []Finding    `json:"findings,omitempty"`
	Regulation   string       `json:"regulation,omitempty"`
	Source       RecordSource `json:"source"`
	Round        int          `json:"round"`
	Timestamp    time.Time    `json:"timestamp"`
}

// JoinFindings renders findings the way detail text has always read.
func JoinFindings(findings []Finding) string {
	parts := make([]string, 0, len(findings))
	for _, f := range findings {
		parts = append(parts, f.Describe())
	}
	return strings.Join(parts, " ")
}

// Evaluation is the output of evaluating a contract or a provider.
type Evaluation struct {
	Status  Status   `json:"status"`
	Records []Record `json:"records"`
}

func (e Evaluation) IsCompliant() bool { return e.Status == StatusCompliant }

// Aggregate is compliant only when no record is non-compliant.
func Aggregate(records []Record) Status {
	for _, r := range records {
		if r.Verdict == VerdictNonCompliant {
			return StatusNonCompliant
		}
	}
	return StatusCompliant
}

// ContractSubject is what the evaluator needs to know about a contract.
type ContractSubject struct {
	ID            id.ContractID
	ServiceID     id.ServiceID
	Terms         string
	Jurisdictions []string
}

// MonitoredContract is an active contract under periodic re-evaluation.
type MonitoredContract struct {
	ContractSubject
	Status Status
}

// Change reports a contract whose aggregate status moved during monitoring.
type Change struct {
	ContractID     id.ContractID `json:"contract_id"`
	PreviousStatus Status        `json:"previous_status"`
	NewStatus      Status        `json:"new_status"`
	Records        []Record      `json:"records"`
}

// SuggestionType classifies remediation advice.
type SuggestionType string

const (
	SuggestAddClause  SuggestionType = "add_clause"
	SuggestRemoveTerm SuggestionType = "remove_term"
	SuggestGeneral    SuggestionType = "general"
)

type Suggestion struct {
	Type         SuggestionType `json:"type"`
	Jurisdiction string         `json:"jurisdiction"`
	Requirement  string         `json:"requirement,omitempty"`
	Term         string         `json:"term,omitempty"`
	Suggestion   string         `json:"suggestion"`
}
