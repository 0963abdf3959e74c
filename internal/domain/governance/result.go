package governance

import (
	"fmt"

	"townreeve/internal/domain/canonical"
)

type ExecutionStatus string

const (
	StatusExecuted  ExecutionStatus = "executed"
	StatusRejected  ExecutionStatus = "rejected"
	StatusStale     ExecutionStatus = "stale"
	StatusDuplicate ExecutionStatus = "duplicate"
	StatusFailed    ExecutionStatus = "failed"
)

const (
	ReasonExecuted           = "EXECUTED"
	ReasonDuplicateHandoff   = "DUPLICATE_HANDOFF"
	ReasonStaleState         = "STALE_STATE"
	ReasonPreconditionFailed = "PRECONDITION_FAILED"
	ReasonExecutionFailed    = "EXECUTION_FAILED"
)

func SupportedExecutionStatuses() []ExecutionStatus {
	return []ExecutionStatus{StatusExecuted, StatusRejected, StatusStale, StatusDuplicate, StatusFailed}
}

// acceptanceFor maps a status to its (accepted, executed) pair. The pair is
// fully determined by the status and never stored independently of it.
func acceptanceFor(s ExecutionStatus) (accepted, executed, ok bool) {
	switch s {
	case StatusExecuted:
		return true, true, true
	case StatusFailed:
		return true, false, true
	case StatusRejected, StatusStale, StatusDuplicate:
		return false, false, true
	default:
		return false, false, false
	}
}

// PreconditionFailure names one failing guard.
type PreconditionFailure struct {
	Kind   PreconditionKind `json:"kind"`
	Detail string           `json:"detail"`
}

type PreconditionReport struct {
	Evaluated bool                  `json:"evaluated"`
	Passed    bool                  `json:"passed"`
	Failures  []PreconditionFailure `json:"failures,omitempty"`
}

type StaleReport struct {
	Evaluated          bool   `json:"evaluated"`
	Stale              bool   `json:"stale"`
	ActualSnapshotHash string `json:"actualSnapshotHash,omitempty"`
	// No omitempty: an observed epoch of 0 is a real reading and must stay
	// distinguishable from an unevaluated check on the wire.
	ActualDecisionEpoch int64 `json:"actualDecisionEpoch"`
}

type DuplicateReport struct {
	Evaluated   bool   `json:"evaluated"`
	Duplicate   bool   `json:"duplicate"`
	DuplicateOf string `json:"duplicateOf,omitempty"`
}

// Evaluation is the full audit trail of one harness pass. Short-circuited
// checks still appear, with Evaluated false.
type Evaluation struct {
	Preconditions  PreconditionReport `json:"preconditions"`
	StaleCheck     StaleReport        `json:"staleCheck"`
	DuplicateCheck DuplicateReport    `json:"duplicateCheck"`
}

// WorldStateDelta fingerprints the world after an executed command, without
// simulating game effects.
type WorldStateDelta struct {
	PostExecutionSnapshotHash  string `json:"postExecutionSnapshotHash"`
	PostExecutionDecisionEpoch int64  `json:"postExecutionDecisionEpoch"`
}

// Authority records which governing actor the result speaks for.
type Authority struct {
	ActorID string `json:"actorId"`
	TownID  string `json:"townId"`
}

// ExecutionResult is the final, content-addressed outcome record. Never
// mutated after construction.
type ExecutionResult struct {
	ResultID       string           `json:"resultId"`
	ExecutionID    string           `json:"executionId"`
	HandoffID      string           `json:"handoffId"`
	ProposalID     string           `json:"proposalId"`
	IdempotencyKey string           `json:"idempotencyKey"`
	SnapshotHash   string           `json:"snapshotHash"`
	DecisionEpoch  int64            `json:"decisionEpoch"`
	Command        string           `json:"command"`
	Status         ExecutionStatus  `json:"status"`
	Accepted       bool             `json:"accepted"`
	Executed       bool             `json:"executed"`
	ReasonCode     string           `json:"reasonCode"`
	Evaluation     Evaluation       `json:"evaluation"`
	WorldState     *WorldStateDelta `json:"worldState,omitempty"`
	Authority      Authority        `json:"authority"`
}

// Outcome is the harness's classification of one evaluation, before it is
// frozen into a result.
type Outcome struct {
	Status     ExecutionStatus
	ReasonCode string
	Evaluation Evaluation
	WorldState *WorldStateDelta
}

// ResultError reports which result field failed construction or
// revalidation.
type ResultError struct {
	Field  string
	Detail string
}

func (e *ResultError) Error() string {
	return fmt.Sprintf("invalid execution result: %s %s", e.Field, e.Detail)
}

// resultID hashes the canonical form of every result field except the id
// fields themselves. The draft is assembled first, hashed, then frozen:
// a final result never exists with an unverified id.
func resultID(r ExecutionResult) (string, error) {
	covered := r
	covered.ResultID = ""
	covered.ExecutionID = ""
	digest, err := canonical.Hash(covered)
	if err != nil {
		return "", err
	}
	return "result_" + digest, nil
}

// NewExecutionResult assembles, cross-checks, and content-addresses the
// outcome of one handoff evaluation. A malformed outcome is a programmer
// error and fails construction.
func NewExecutionResult(h ExecutionHandoff, o Outcome) (ExecutionResult, error) {
	if err := ValidateHandoff(h); err != nil {
		return ExecutionResult{}, err
	}
	accepted, executed, ok := acceptanceFor(o.Status)
	if !ok {
		return ExecutionResult{}, &ResultError{Field: "status", Detail: fmt.Sprintf("%q is not a known status", o.Status)}
	}
	if o.ReasonCode == "" {
		return ExecutionResult{}, &ResultError{Field: "reasonCode", Detail: "is required"}
	}
	draft := ExecutionResult{
		HandoffID:      h.HandoffID,
		ProposalID:     h.ProposalID,
		IdempotencyKey: h.IdempotencyKey,
		SnapshotHash:   h.SnapshotHash,
		DecisionEpoch:  h.DecisionEpoch,
		Command:        h.Command,
		Status:         o.Status,
		Accepted:       accepted,
		Executed:       executed,
		ReasonCode:     o.ReasonCode,
		Evaluation:     o.Evaluation,
		WorldState:     o.WorldState,
		Authority:      Authority{ActorID: h.Proposal.ActorID, TownID: h.Proposal.TownID},
	}
	if err := checkOutcomeShape(draft); err != nil {
		return ExecutionResult{}, err
	}
	id, err := resultID(draft)
	if err != nil {
		return ExecutionResult{}, err
	}
	draft.ResultID = id
	draft.ExecutionID = id
	return draft, nil
}

// checkOutcomeShape enforces the cross-field invariants between status,
// evaluation blocks, and the world-state block.
func checkOutcomeShape(r ExecutionResult) error {
	ev := r.Evaluation
	if r.Status == StatusExecuted {
		if r.WorldState == nil {
			return &ResultError{Field: "worldState", Detail: "is required on executed"}
		}
		if !IsHexDigest(r.WorldState.PostExecutionSnapshotHash) {
			return &ResultError{Field: "worldState.postExecutionSnapshotHash", Detail: "must be a 64-char lowercase hex digest"}
		}
		if r.WorldState.PostExecutionDecisionEpoch != r.DecisionEpoch+1 {
			return &ResultError{Field: "worldState.postExecutionDecisionEpoch", Detail: "must advance the decision epoch by one"}
		}
	} else if r.WorldState != nil {
		return &ResultError{Field: "worldState", Detail: "is only present on executed"}
	}

	switch r.Status {
	case StatusDuplicate:
		if !ev.DuplicateCheck.Evaluated || !ev.DuplicateCheck.Duplicate {
			return &ResultError{Field: "evaluation.duplicateCheck", Detail: "must record the detected duplicate"}
		}
		if !IsResultID(ev.DuplicateCheck.DuplicateOf) {
			return &ResultError{Field: "evaluation.duplicateCheck.duplicateOf", Detail: "must reference the prior result"}
		}
		if ev.StaleCheck.Evaluated || ev.Preconditions.Evaluated {
			return &ResultError{Field: "evaluation", Detail: "duplicate short-circuits staleness and preconditions"}
		}
	case StatusStale:
		if !ev.DuplicateCheck.Evaluated || ev.DuplicateCheck.Duplicate {
			return &ResultError{Field: "evaluation.duplicateCheck", Detail: "must have passed before staleness"}
		}
		if !ev.StaleCheck.Evaluated || !ev.StaleCheck.Stale {
			return &ResultError{Field: "evaluation.staleCheck", Detail: "must record the detected drift"}
		}
		if ev.Preconditions.Evaluated {
			return &ResultError{Field: "evaluation.preconditions", Detail: "stale short-circuits preconditions"}
		}
	case StatusRejected:
		if !ev.DuplicateCheck.Evaluated || ev.DuplicateCheck.Duplicate {
			return &ResultError{Field: "evaluation.duplicateCheck", Detail: "must have passed before preconditions"}
		}
		if !ev.StaleCheck.Evaluated || ev.StaleCheck.Stale {
			return &ResultError{Field: "evaluation.staleCheck", Detail: "must have passed before preconditions"}
		}
		if !ev.Preconditions.Evaluated || ev.Preconditions.Passed || len(ev.Preconditions.Failures) == 0 {
			return &ResultError{Field: "evaluation.preconditions", Detail: "must list every failing guard"}
		}
	case StatusExecuted, StatusFailed:
		if !ev.DuplicateCheck.Evaluated || ev.DuplicateCheck.Duplicate {
			return &ResultError{Field: "evaluation.duplicateCheck", Detail: "must have passed"}
		}
		if !ev.StaleCheck.Evaluated || ev.StaleCheck.Stale {
			return &ResultError{Field: "evaluation.staleCheck", Detail: "must have passed"}
		}
		if !ev.Preconditions.Evaluated || !ev.Preconditions.Passed || len(ev.Preconditions.Failures) != 0 {
			return &ResultError{Field: "evaluation.preconditions", Detail: "must have passed"}
		}
	}
	return nil
}

// ValidateExecutionResult lets a downstream consumer trust a result
// received out-of-band without re-running the harness: every field is
// rechecked and the content address is recomputed.
func ValidateExecutionResult(r ExecutionResult) error {
	if !IsResultID(r.ResultID) {
		return &ResultError{Field: "resultId", Detail: "must match result_<64 hex>"}
	}
	if r.ExecutionID != r.ResultID {
		return &ResultError{Field: "executionId", Detail: "must equal resultId"}
	}
	if !IsHandoffID(r.HandoffID) {
		return &ResultError{Field: "handoffId", Detail: "must match handoff_<64 hex>"}
	}
	if !IsProposalID(r.ProposalID) {
		return &ResultError{Field: "proposalId", Detail: "must match proposal_<64 hex>"}
	}
	if r.IdempotencyKey != r.ProposalID {
		return &ResultError{Field: "idempotencyKey", Detail: "must equal proposalId"}
	}
	if !IsHexDigest(r.SnapshotHash) {
		return &ResultError{Field: "snapshotHash", Detail: "must be a 64-char lowercase hex digest"}
	}
	if r.DecisionEpoch < 0 {
		return &ResultError{Field: "decisionEpoch", Detail: "must be non-negative"}
	}
	if r.Command == "" {
		return &ResultError{Field: "command", Detail: "is required"}
	}
	accepted, executed, ok := acceptanceFor(r.Status)
	if !ok {
		return &ResultError{Field: "status", Detail: fmt.Sprintf("%q is not a known status", r.Status)}
	}
	if r.Accepted != accepted || r.Executed != executed {
		return &ResultError{Field: "status", Detail: "does not agree with accepted/executed"}
	}
	if r.ReasonCode == "" {
		return &ResultError{Field: "reasonCode", Detail: "is required"}
	}
	if err := checkOutcomeShape(r); err != nil {
		return err
	}
	wantID, err := resultID(r)
	if err != nil {
		return err
	}
	if r.ResultID != wantID {
		return &ResultError{Field: "resultId", Detail: "does not match its recomputed content address"}
	}
	return nil
}

// IsValidExecutionResult is the boolean gate for wire input.
func IsValidExecutionResult(r ExecutionResult) bool {
	return ValidateExecutionResult(r) == nil
}
