package governance

import (
	"fmt"
	"strings"
)

// ProposalError reports the first field of a proposal that failed schema
// validation.
type ProposalError struct {
	Field  string
	Detail string
}

func (e *ProposalError) Error() string {
	return fmt.Sprintf("invalid proposal: %s %s", e.Field, e.Detail)
}

// ValidateProposal checks an upstream proposal against its schema before it
// may be bound into a handoff. A proposal that fails here is a caller
// defect, never a business outcome.
func ValidateProposal(p Proposal) error {
	if !IsProposalID(p.ProposalID) {
		return &ProposalError{Field: "proposalId", Detail: "must match proposal_<64 hex>"}
	}
	if !IsSupportedProposalType(p.Type) {
		return &ProposalError{Field: "type", Detail: fmt.Sprintf("%q is not in the closed set", p.Type)}
	}
	if strings.TrimSpace(p.ActorID) == "" {
		return &ProposalError{Field: "actorId", Detail: "is required"}
	}
	if strings.TrimSpace(p.TownID) == "" {
		return &ProposalError{Field: "townId", Detail: "is required"}
	}
	if p.Priority < 0 || p.Priority > 1 {
		return &ProposalError{Field: "priority", Detail: "must be within [0,1]"}
	}
	if !IsHexDigest(p.SnapshotHash) {
		return &ProposalError{Field: "snapshotHash", Detail: "must be a 64-char lowercase hex digest"}
	}
	if p.DecisionEpoch < 0 {
		return &ProposalError{Field: "decisionEpoch", Detail: "must be non-negative"}
	}
	if err := proposalRegistry()[p.Type].ValidateArgs(p.Args); err != nil {
		return err
	}
	for i, pc := range p.Preconditions {
		if err := validatePrecondition(pc); err != nil {
			return &ProposalError{Field: fmt.Sprintf("preconditions[%d]", i), Detail: err.Error()}
		}
	}
	return nil
}

// validatePrecondition checks descriptor shape only. Unrecognized kinds are
// accepted here; the harness classifies them as failing guards at
// evaluation time, which keeps an unknown guard from ever passing silently.
func validatePrecondition(pc Precondition) error {
	if strings.TrimSpace(string(pc.Kind)) == "" {
		return fmt.Errorf("kind is required")
	}
	switch pc.Kind {
	case PreconditionSideQuestExists, PreconditionProjectExists:
		if strings.TrimSpace(pc.TargetID) == "" {
			return fmt.Errorf("%s requires targetId", pc.Kind)
		}
	case PreconditionSalvageFocusSupported, PreconditionTalkTypeSupported:
		if strings.TrimSpace(pc.Expected) == "" {
			return fmt.Errorf("%s requires expected", pc.Kind)
		}
	}
	return nil
}
