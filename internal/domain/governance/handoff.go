package governance

import (
	"errors"
	"fmt"

	"townreeve/internal/domain/canonical"
)

// ErrMappingDrift means a caller-supplied command disagrees with the
// registry's own derivation for the same proposal. A drifted command is a
// construction defect and is never accepted silently.
var ErrMappingDrift = errors.New("mapping drift between supplied and derived command")

// ExecutionRequirements is what the downstream engine must verify before
// mutating state. It always mirrors the proposal's own view of the world.
type ExecutionRequirements struct {
	ExpectedSnapshotHash  string         `json:"expectedSnapshotHash"`
	ExpectedDecisionEpoch int64          `json:"expectedDecisionEpoch"`
	Preconditions         []Precondition `json:"preconditions"`
}

// ExecutionHandoff binds a validated proposal and its mapped command into a
// replay-safe unit. handoffId is always recomputable from
// {proposalId, command}; idempotencyKey is the proposal id by construction.
type ExecutionHandoff struct {
	HandoffID             string                `json:"handoffId"`
	ProposalID            string                `json:"proposalId"`
	IdempotencyKey        string                `json:"idempotencyKey"`
	SnapshotHash          string                `json:"snapshotHash"`
	DecisionEpoch         int64                 `json:"decisionEpoch"`
	Command               string                `json:"command"`
	Proposal              Proposal              `json:"proposal"`
	ExecutionRequirements ExecutionRequirements `json:"executionRequirements"`
}

// HandoffID derives the content address of a handoff from the pair that
// defines it.
func HandoffID(proposalID, command string) (string, error) {
	digest, err := canonical.Hash(struct {
		ProposalID string `json:"proposalId"`
		Command    string `json:"command"`
	}{ProposalID: proposalID, Command: command})
	if err != nil {
		return "", err
	}
	return "handoff_" + digest, nil
}

// NewHandoff validates the proposal, derives its command through the
// mapping registry, and freezes the pair into a handoff.
func NewHandoff(p Proposal) (ExecutionHandoff, error) {
	if err := ValidateProposal(p); err != nil {
		return ExecutionHandoff{}, err
	}
	command, err := MapCommand(p)
	if err != nil {
		return ExecutionHandoff{}, err
	}
	return buildHandoff(p, command)
}

// NewHandoffWithCommand is NewHandoff for callers that already hold a
// command string. The supplied command is never trusted: it must equal the
// registry's own derivation exactly, or construction fails with
// ErrMappingDrift.
func NewHandoffWithCommand(p Proposal, command string) (ExecutionHandoff, error) {
	if err := ValidateProposal(p); err != nil {
		return ExecutionHandoff{}, err
	}
	derived, err := MapCommand(p)
	if err != nil {
		return ExecutionHandoff{}, err
	}
	if command != derived {
		return ExecutionHandoff{}, fmt.Errorf("%w: supplied %q, derived %q", ErrMappingDrift, command, derived)
	}
	return buildHandoff(p, derived)
}

func buildHandoff(p Proposal, command string) (ExecutionHandoff, error) {
	id, err := HandoffID(p.ProposalID, command)
	if err != nil {
		return ExecutionHandoff{}, err
	}
	// Mirrored preconditions and reasonTags serialize as [] rather than
	// null when absent, so the frozen envelope always matches its schema.
	mirrored := make([]Precondition, len(p.Preconditions))
	copy(mirrored, p.Preconditions)
	if p.ReasonTags == nil {
		p.ReasonTags = []string{}
	}
	return ExecutionHandoff{
		HandoffID:      id,
		ProposalID:     p.ProposalID,
		IdempotencyKey: p.ProposalID,
		SnapshotHash:   p.SnapshotHash,
		DecisionEpoch:  p.DecisionEpoch,
		Command:        command,
		Proposal:       p,
		ExecutionRequirements: ExecutionRequirements{
			ExpectedSnapshotHash:  p.SnapshotHash,
			ExpectedDecisionEpoch: p.DecisionEpoch,
			Preconditions:         mirrored,
		},
	}, nil
}

// HandoffError reports which handoff field failed revalidation.
type HandoffError struct {
	Field  string
	Detail string
}

func (e *HandoffError) Error() string {
	return fmt.Sprintf("invalid handoff: %s %s", e.Field, e.Detail)
}

// ValidateHandoff revalidates every field of a handoff: the embedded
// proposal, the command (recomputed from the proposal), the mirrored
// execution requirements, and the content-addressed handoffId.
func ValidateHandoff(h ExecutionHandoff) error {
	if err := ValidateProposal(h.Proposal); err != nil {
		return err
	}
	if h.ProposalID != h.Proposal.ProposalID {
		return &HandoffError{Field: "proposalId", Detail: "does not match the embedded proposal"}
	}
	if h.IdempotencyKey != h.ProposalID {
		return &HandoffError{Field: "idempotencyKey", Detail: "must equal proposalId"}
	}
	if h.SnapshotHash != h.Proposal.SnapshotHash {
		return &HandoffError{Field: "snapshotHash", Detail: "does not match the embedded proposal"}
	}
	if h.DecisionEpoch != h.Proposal.DecisionEpoch {
		return &HandoffError{Field: "decisionEpoch", Detail: "does not match the embedded proposal"}
	}
	derived, err := MapCommand(h.Proposal)
	if err != nil {
		return err
	}
	if h.Command != derived {
		return fmt.Errorf("%w: stored %q, derived %q", ErrMappingDrift, h.Command, derived)
	}
	req := h.ExecutionRequirements
	if req.ExpectedSnapshotHash != h.Proposal.SnapshotHash {
		return &HandoffError{Field: "executionRequirements.expectedSnapshotHash", Detail: "does not mirror the proposal"}
	}
	if req.ExpectedDecisionEpoch != h.Proposal.DecisionEpoch {
		return &HandoffError{Field: "executionRequirements.expectedDecisionEpoch", Detail: "does not mirror the proposal"}
	}
	if len(req.Preconditions) != len(h.Proposal.Preconditions) {
		return &HandoffError{Field: "executionRequirements.preconditions", Detail: "does not mirror the proposal"}
	}
	for i := range req.Preconditions {
		if req.Preconditions[i] != h.Proposal.Preconditions[i] {
			return &HandoffError{Field: "executionRequirements.preconditions", Detail: "does not mirror the proposal"}
		}
	}
	wantID, err := HandoffID(h.ProposalID, h.Command)
	if err != nil {
		return err
	}
	if h.HandoffID != wantID {
		return &HandoffError{Field: "handoffId", Detail: "does not match its recomputed content address"}
	}
	return nil
}

// IsValidHandoff is the boolean gate for untrusted input arriving over a
// wire; use ValidateHandoff when the failure reason matters.
func IsValidHandoff(h ExecutionHandoff) bool {
	return ValidateHandoff(h) == nil
}
