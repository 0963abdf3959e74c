// Package evaluate runs the local execution harness over a caller-supplied
// handoff and state snapshot, archiving both envelopes in one transaction.
package evaluate

import (
	"context"
	"encoding/json"
	"time"

	"townreeve/internal/app/ports"
	"townreeve/internal/domain/governance"
	"townreeve/internal/domain/harness"
)

type UseCase struct {
	Harness   harness.Service
	TxManager ports.TxManager
	Handoffs  ports.HandoffRepository
	Results   ports.ResultRepository
	Metrics   ports.EvaluationMetrics
	Now       func() time.Time
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	state, err := req.State.Normalized()
	if err != nil {
		if u.Metrics != nil {
			u.Metrics.RecordRejectedInput()
		}
		return Response{}, err
	}
	result, err := u.Harness.Evaluate(req.Handoff, state)
	if err != nil {
		if u.Metrics != nil {
			u.Metrics.RecordRejectedInput()
		}
		return Response{}, err
	}

	if err := u.archive(ctx, req.Handoff, result); err != nil {
		if u.Metrics != nil {
			u.Metrics.RecordFailure()
		}
		return Response{}, err
	}
	if u.Metrics != nil {
		u.Metrics.RecordOutcome(result.Status)
	}
	return Response{Result: result, NextState: harness.Fold(state, result)}, nil
}

// archive stores the handoff (idempotent re-save: evaluation may see the
// same handoff many times) and the result together.
func (u UseCase) archive(ctx context.Context, h governance.ExecutionHandoff, r governance.ExecutionResult) error {
	handoffEnvelope, err := json.Marshal(h)
	if err != nil {
		return err
	}
	resultEnvelope, err := json.Marshal(r)
	if err != nil {
		return err
	}
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	now := nowFn()

	return u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := u.Handoffs.Save(txCtx, ports.HandoffRecord{
			HandoffID:    h.HandoffID,
			ProposalID:   h.ProposalID,
			TownID:       h.Proposal.TownID,
			ProposalType: string(h.Proposal.Type),
			Envelope:     handoffEnvelope,
			CreatedAt:    now,
		}); err != nil {
			return err
		}
		// Determinism makes re-evaluations byte-identical, so the
		// repositories accept re-saves of identical envelopes.
		return u.Results.Save(txCtx, ports.ResultRecord{
			ResultID:   r.ResultID,
			HandoffID:  r.HandoffID,
			ProposalID: r.ProposalID,
			TownID:     r.Authority.TownID,
			Status:     string(r.Status),
			ReasonCode: r.ReasonCode,
			Envelope:   resultEnvelope,
			CreatedAt:  now,
		})
	})
}
