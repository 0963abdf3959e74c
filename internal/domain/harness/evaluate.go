// Package harness is the deterministic reference implementation of the
// downstream world-mutation engine's contract. Evaluation is a pure
// function of (handoff, state): no I/O, no clocks, no shared state, so
// identical inputs always yield byte-identical results.
package harness

import (
	"townreeve/internal/domain/canonical"
	"townreeve/internal/domain/governance"
	"townreeve/internal/domain/town"
)

// Service evaluates handoffs against caller-supplied state snapshots. It
// holds no state across calls and is safe for concurrent use.
type Service struct{}

// Evaluate classifies one handoff against one state snapshot, in strict
// order: duplicate, staleness, preconditions, execution. Business outcomes
// are always well-formed results; an error means the handoff or state was
// structurally invalid, which is a caller bug.
func (Service) Evaluate(h governance.ExecutionHandoff, s town.State) (governance.ExecutionResult, error) {
	if err := governance.ValidateHandoff(h); err != nil {
		return governance.ExecutionResult{}, err
	}
	state, err := s.Normalized()
	if err != nil {
		return governance.ExecutionResult{}, err
	}

	// Duplicate detection wins over every other check so replays stay
	// side-effect-free regardless of world drift since the original run.
	if priorID, found := state.LookupProcessed(h.IdempotencyKey); found {
		return governance.NewExecutionResult(h, governance.Outcome{
			Status:     governance.StatusDuplicate,
			ReasonCode: governance.ReasonDuplicateHandoff,
			Evaluation: governance.Evaluation{
				DuplicateCheck: governance.DuplicateReport{Evaluated: true, Duplicate: true, DuplicateOf: priorID},
			},
		})
	}

	req := h.ExecutionRequirements
	if state.SnapshotHash != req.ExpectedSnapshotHash || state.DecisionEpoch != req.ExpectedDecisionEpoch {
		// The world view the proposal reasoned about no longer exists;
		// precondition results against it would be meaningless.
		return governance.NewExecutionResult(h, governance.Outcome{
			Status:     governance.StatusStale,
			ReasonCode: governance.ReasonStaleState,
			Evaluation: governance.Evaluation{
				DuplicateCheck: governance.DuplicateReport{Evaluated: true},
				StaleCheck: governance.StaleReport{
					Evaluated:           true,
					Stale:               true,
					ActualSnapshotHash:  state.SnapshotHash,
					ActualDecisionEpoch: state.DecisionEpoch,
				},
			},
		})
	}

	failures := evaluatePreconditions(req.Preconditions, state)
	if len(failures) > 0 {
		return governance.NewExecutionResult(h, governance.Outcome{
			Status:     governance.StatusRejected,
			ReasonCode: governance.ReasonPreconditionFailed,
			Evaluation: governance.Evaluation{
				DuplicateCheck: governance.DuplicateReport{Evaluated: true},
				StaleCheck:     governance.StaleReport{Evaluated: true},
				Preconditions:  governance.PreconditionReport{Evaluated: true, Failures: failures},
			},
		})
	}

	nextEpoch := state.DecisionEpoch + 1
	postHash, err := postExecutionSnapshotHash(state.SnapshotHash, nextEpoch, h.Command, h.ProposalID)
	if err != nil {
		return governance.ExecutionResult{}, err
	}
	return governance.NewExecutionResult(h, governance.Outcome{
		Status:     governance.StatusExecuted,
		ReasonCode: governance.ReasonExecuted,
		Evaluation: governance.Evaluation{
			DuplicateCheck: governance.DuplicateReport{Evaluated: true},
			StaleCheck:     governance.StaleReport{Evaluated: true},
			Preconditions:  governance.PreconditionReport{Evaluated: true, Passed: true},
		},
		WorldState: &governance.WorldStateDelta{
			PostExecutionSnapshotHash:  postHash,
			PostExecutionDecisionEpoch: nextEpoch,
		},
	})
}

// postExecutionSnapshotHash derives the fingerprint of "the world after
// this command" from content alone.
func postExecutionSnapshotHash(previousHash string, nextEpoch int64, command, proposalID string) (string, error) {
	return canonical.Hash(struct {
		PreviousSnapshotHash string `json:"previousSnapshotHash"`
		NextDecisionEpoch    int64  `json:"nextDecisionEpoch"`
		Command              string `json:"command"`
		ProposalID           string `json:"proposalId"`
	}{
		PreviousSnapshotHash: previousHash,
		NextDecisionEpoch:    nextEpoch,
		Command:              command,
		ProposalID:           proposalID,
	})
}

// Fold returns the state a caller should carry into the next cycle after
// observing a result. Only accepted outcomes enter the ledger (the engine
// attempted mutation); stale, rejected, and duplicate leave the state
// untouched so a corrected retry is not misread as a duplicate. Only
// executed advances the world fingerprint.
func Fold(s town.State, r governance.ExecutionResult) town.State {
	if !r.Accepted {
		return s
	}
	next := s
	next.ProcessedResults = make([]town.LedgerEntry, len(s.ProcessedResults), len(s.ProcessedResults)+1)
	copy(next.ProcessedResults, s.ProcessedResults)
	next.ProcessedResults = append(next.ProcessedResults, town.LedgerEntry{
		IdempotencyKey: r.IdempotencyKey,
		ResultID:       r.ResultID,
	})
	if r.Executed && r.WorldState != nil {
		next.SnapshotHash = r.WorldState.PostExecutionSnapshotHash
		next.DecisionEpoch = r.WorldState.PostExecutionDecisionEpoch
	}
	return next
}
