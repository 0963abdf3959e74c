// Package town holds the caller-owned world-state snapshot the harness
// evaluates against. The state is passed by value, normalized before use,
// and never mutated in place.
package town

import (
	"fmt"
	"sort"

	"townreeve/internal/domain/governance"
)

// EntityRef is an id-only reference into an id-keyed collection.
type EntityRef struct {
	ID string `json:"id"`
}

// MissionRef is the town's single active mission, id-only.
type MissionRef struct {
	ID string `json:"id"`
}

// LedgerEntry records one previously processed idempotency key and the
// result it produced.
type LedgerEntry struct {
	IdempotencyKey string `json:"idempotencyKey"`
	ResultID       string `json:"resultId"`
}

// State is the LocalExecutionState for one evaluation cycle.
type State struct {
	SnapshotHash            string        `json:"snapshotHash"`
	DecisionEpoch           int64         `json:"decisionEpoch"`
	Mission                 *MissionRef   `json:"mission"`
	SideQuests              []EntityRef   `json:"sideQuests"`
	Projects                []EntityRef   `json:"projects"`
	SupportedSalvageFocuses []string      `json:"supportedSalvageFocuses"`
	SupportedTalkTypes      []string      `json:"supportedTalkTypes"`
	ProcessedResults        []LedgerEntry `json:"processedResults"`
}

// StateError reports which state field failed normalization. State input
// defects are programmer errors, not business outcomes.
type StateError struct {
	Field  string
	Detail string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("invalid execution state: %s %s", e.Field, e.Detail)
}

// Normalized returns a copy with ids sorted and duplicates rejected. The
// receiver is left untouched.
func (s State) Normalized() (State, error) {
	if !governance.IsHexDigest(s.SnapshotHash) {
		return State{}, &StateError{Field: "snapshotHash", Detail: "must be a 64-char lowercase hex digest"}
	}
	if s.DecisionEpoch < 0 {
		return State{}, &StateError{Field: "decisionEpoch", Detail: "must be non-negative"}
	}
	if s.Mission != nil && s.Mission.ID == "" {
		return State{}, &StateError{Field: "mission.id", Detail: "is required when mission is set"}
	}

	out := s
	var err error
	if out.SideQuests, err = normalizedRefs("sideQuests", s.SideQuests); err != nil {
		return State{}, err
	}
	if out.Projects, err = normalizedRefs("projects", s.Projects); err != nil {
		return State{}, err
	}
	if out.SupportedSalvageFocuses, err = normalizedSet("supportedSalvageFocuses", s.SupportedSalvageFocuses); err != nil {
		return State{}, err
	}
	if out.SupportedTalkTypes, err = normalizedSet("supportedTalkTypes", s.SupportedTalkTypes); err != nil {
		return State{}, err
	}

	ledger := make([]LedgerEntry, len(s.ProcessedResults))
	copy(ledger, s.ProcessedResults)
	seen := make(map[string]bool, len(ledger))
	for _, entry := range ledger {
		if entry.IdempotencyKey == "" {
			return State{}, &StateError{Field: "processedResults", Detail: "entry has an empty idempotencyKey"}
		}
		if !governance.IsResultID(entry.ResultID) {
			return State{}, &StateError{Field: "processedResults", Detail: fmt.Sprintf("entry %q has a malformed resultId", entry.IdempotencyKey)}
		}
		if seen[entry.IdempotencyKey] {
			return State{}, &StateError{Field: "processedResults", Detail: fmt.Sprintf("duplicate idempotencyKey %q", entry.IdempotencyKey)}
		}
		seen[entry.IdempotencyKey] = true
	}
	out.ProcessedResults = ledger
	return out, nil
}

func normalizedRefs(field string, refs []EntityRef) ([]EntityRef, error) {
	out := make([]EntityRef, len(refs))
	copy(out, refs)
	seen := make(map[string]bool, len(out))
	for _, ref := range out {
		if ref.ID == "" {
			return nil, &StateError{Field: field, Detail: "entry has an empty id"}
		}
		if seen[ref.ID] {
			return nil, &StateError{Field: field, Detail: fmt.Sprintf("duplicate id %q", ref.ID)}
		}
		seen[ref.ID] = true
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func normalizedSet(field string, values []string) ([]string, error) {
	out := make([]string, len(values))
	copy(out, values)
	seen := make(map[string]bool, len(out))
	for _, v := range out {
		if v == "" {
			return nil, &StateError{Field: field, Detail: "entry is empty"}
		}
		if seen[v] {
			return nil, &StateError{Field: field, Detail: fmt.Sprintf("duplicate entry %q", v)}
		}
		seen[v] = true
	}
	sort.Strings(out)
	return out, nil
}

// HasSideQuest reports whether the id exists in the sideQuests collection.
func (s State) HasSideQuest(id string) bool { return hasRef(s.SideQuests, id) }

// HasProject reports whether the id exists in the projects collection.
func (s State) HasProject(id string) bool { return hasRef(s.Projects, id) }

// SupportsSalvageFocus reports membership in the salvage capability set.
func (s State) SupportsSalvageFocus(focus string) bool {
	return hasString(s.SupportedSalvageFocuses, focus)
}

// SupportsTalkType reports membership in the talk capability set.
func (s State) SupportsTalkType(talkType string) bool {
	return hasString(s.SupportedTalkTypes, talkType)
}

// LookupProcessed returns the recorded resultId for an idempotency key.
// Ledger scan order is the documented tie-break rule; keys are unique after
// normalization so the first match is the only one.
func (s State) LookupProcessed(idempotencyKey string) (string, bool) {
	for _, entry := range s.ProcessedResults {
		if entry.IdempotencyKey == idempotencyKey {
			return entry.ResultID, true
		}
	}
	return "", false
}

func hasRef(refs []EntityRef, id string) bool {
	for _, ref := range refs {
		if ref.ID == id {
			return true
		}
	}
	return false
}

func hasString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
