package billing

import (
	"fmt"

	"github.com/backoffice/backend/internal/domain/shared"
)

// DocumentStatus represents the lifecycle status of a document
type DocumentStatus string

const (
	StatusDraft     DocumentStatus = "DRAFT"
	StatusSent      DocumentStatus = "SENT"
	StatusAccepted  DocumentStatus = "ACCEPTED"
	StatusRejected  DocumentStatus = "REJECTED"
	StatusConverted DocumentStatus = "CONVERTED"
	StatusPaid      DocumentStatus = "PAID"
	StatusVoid      DocumentStatus = "VOID"
)

// String returns the string representation of the status
func (s DocumentStatus) String() string {
	return string(s)
}

// estimate documents move through an approval flow; every other series
// goes straight from sent to settled or voided.
var transitions = map[DocumentSeries]map[DocumentStatus][]DocumentStatus{
	SeriesEstimate: {
		StatusDraft:    {StatusSent},
		StatusSent:     {StatusAccepted, StatusRejected},
		StatusAccepted: {StatusConverted},
	},
	SeriesInvoice: {
		StatusDraft: {StatusSent},
		StatusSent:  {StatusPaid, StatusVoid},
	},
	SeriesProposal: {
		StatusDraft: {StatusSent},
		StatusSent:  {StatusPaid, StatusVoid},
	},
	SeriesCreditNote: {
		StatusDraft: {StatusSent},
		StatusSent:  {StatusPaid, StatusVoid},
	},
}

// ValidStatuses returns every status reachable for the given series,
// including the initial draft state.
func ValidStatuses(series DocumentSeries) []DocumentStatus {
	seen := map[DocumentStatus]bool{StatusDraft: true}
	result := []DocumentStatus{StatusDraft}
	for _, targets := range transitions[series] {
		for _, t := range targets {
			if !seen[t] {
				seen[t] = true
				result = append(result, t)
			}
		}
	}
	return result
}

// IsValidFor checks whether the status exists in the given series' lifecycle
func (s DocumentStatus) IsValidFor(series DocumentSeries) bool {
	for _, v := range ValidStatuses(series) {
		if v == s {
			return true
		}
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
// within the given series' lifecycle
func (s DocumentStatus) CanTransitionTo(series DocumentSeries, target DocumentStatus) bool {
	for _, t := range transitions[series][s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if the status has no outgoing transitions
// for the given series
func (s DocumentStatus) IsTerminal(series DocumentSeries) bool {
	return len(transitions[series][s]) == 0
}

// Transition validates and returns the error for an attempted status change.
// Returns nil when the transition is allowed.
func Transition(series DocumentSeries, from, to DocumentStatus) error {
	if !to.IsValidFor(series) {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Status %s is not valid for %s documents", to, series))
	}
	if !from.CanTransitionTo(series, to) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot transition %s document from %s to %s", series, from, to))
	}
	return nil
}
