package evaluate

import (
	"context"
	"errors"
	"testing"
	"time"

	"townreeve/internal/domain/governance"
	"townreeve/internal/domain/harness"
	"townreeve/internal/domain/town"
)

func newUseCase(handoffs *stubHandoffRepo, results *stubResultRepo, metrics *stubMetrics) UseCase {
	return UseCase{
		Harness:   harness.Service{},
		TxManager: stubTxManager{},
		Handoffs:  handoffs,
		Results:   results,
		Metrics:   metrics,
		Now:       func() time.Time { return time.Unix(2000, 0) },
	}
}

func TestExecute_ExecutedOutcome(t *testing.T) {
	handoffs := &stubHandoffRepo{}
	results := &stubResultRepo{}
	metrics := &stubMetrics{}
	uc := newUseCase(handoffs, results, metrics)
	state := testState()
	h := testHandoff(state)

	resp, err := uc.Execute(context.Background(), Request{Handoff: h, State: state})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if resp.Result.Status != governance.StatusExecuted {
		t.Fatalf("expected executed, got %s", resp.Result.Status)
	}
	if resp.NextState.DecisionEpoch != state.DecisionEpoch+1 {
		t.Fatalf("next state must advance the epoch, got %d", resp.NextState.DecisionEpoch)
	}
	if len(resp.NextState.ProcessedResults) != 1 {
		t.Fatalf("next state must carry the ledger entry")
	}

	if len(handoffs.saved) != 1 || len(results.saved) != 1 {
		t.Fatalf("expected both envelopes archived, got %d/%d", len(handoffs.saved), len(results.saved))
	}
	rec := results.saved[0]
	if rec.ResultID != resp.Result.ResultID || rec.Status != "executed" || rec.ReasonCode != "EXECUTED" {
		t.Fatalf("result record columns wrong: %+v", rec)
	}
	if rec.TownID != "town-demo" || rec.HandoffID != h.HandoffID {
		t.Fatalf("result record identity wrong: %+v", rec)
	}

	if len(metrics.outcomes) != 1 || metrics.outcomes[0] != governance.StatusExecuted {
		t.Fatalf("expected one executed outcome recorded, got %+v", metrics.outcomes)
	}
}

func TestExecute_BusinessOutcomesAreNotErrors(t *testing.T) {
	state := testState()
	h := testHandoff(state)
	stale := state
	stale.DecisionEpoch = 9

	metrics := &stubMetrics{}
	uc := newUseCase(&stubHandoffRepo{}, &stubResultRepo{}, metrics)
	resp, err := uc.Execute(context.Background(), Request{Handoff: h, State: stale})
	if err != nil {
		t.Fatalf("stale must classify, not error: %v", err)
	}
	if resp.Result.Status != governance.StatusStale {
		t.Fatalf("expected stale, got %s", resp.Result.Status)
	}
	if resp.NextState.DecisionEpoch != stale.DecisionEpoch {
		t.Fatalf("stale must not advance state")
	}
	if metrics.rejected != 0 {
		t.Fatalf("stale is a business outcome, not a rejected input")
	}
}

func TestExecute_MalformedStateRejected(t *testing.T) {
	state := testState()
	h := testHandoff(state)
	state.SnapshotHash = "bogus"

	metrics := &stubMetrics{}
	uc := newUseCase(&stubHandoffRepo{}, &stubResultRepo{}, metrics)
	_, err := uc.Execute(context.Background(), Request{Handoff: h, State: state})
	var serr *town.StateError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StateError, got %v", err)
	}
	if metrics.rejected != 1 {
		t.Fatalf("expected rejected-input metric, got %d", metrics.rejected)
	}
}

func TestExecute_TamperedHandoffRejected(t *testing.T) {
	state := testState()
	h := testHandoff(state)
	h.Command = "mission.clear town=town-demo"

	metrics := &stubMetrics{}
	uc := newUseCase(&stubHandoffRepo{}, &stubResultRepo{}, metrics)
	if _, err := uc.Execute(context.Background(), Request{Handoff: h, State: state}); err == nil {
		t.Fatalf("expected tampered handoff to error")
	}
	if metrics.rejected != 1 {
		t.Fatalf("expected rejected-input metric, got %d", metrics.rejected)
	}
}

func TestExecute_ArchiveFailureSurfaces(t *testing.T) {
	wantErr := errors.New("archive down")
	state := testState()
	metrics := &stubMetrics{}
	uc := newUseCase(&stubHandoffRepo{}, &stubResultRepo{err: wantErr}, metrics)

	_, err := uc.Execute(context.Background(), Request{Handoff: testHandoff(state), State: state})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected archive error, got %v", err)
	}
	if metrics.failures != 1 {
		t.Fatalf("expected failure metric, got %d", metrics.failures)
	}
	if len(metrics.outcomes) != 0 {
		t.Fatalf("failed archive must not record an outcome")
	}
}

func TestExecute_NilMetricsTolerated(t *testing.T) {
	state := testState()
	uc := UseCase{
		Harness:   harness.Service{},
		TxManager: stubTxManager{},
		Handoffs:  &stubHandoffRepo{},
		Results:   &stubResultRepo{},
	}
	if _, err := uc.Execute(context.Background(), Request{Handoff: testHandoff(state), State: state}); err != nil {
		t.Fatalf("execute without metrics: %v", err)
	}
}

func TestExecute_ReplayArchivesIdenticalResult(t *testing.T) {
	state := testState()
	h := testHandoff(state)
	results := &stubResultRepo{}
	uc := newUseCase(&stubHandoffRepo{}, results, &stubMetrics{})

	first, err := uc.Execute(context.Background(), Request{Handoff: h, State: state})
	if err != nil {
		t.Fatalf("first execute: %v", err)
	}
	second, err := uc.Execute(context.Background(), Request{Handoff: h, State: state})
	if err != nil {
		t.Fatalf("second execute: %v", err)
	}
	if first.Result.ResultID != second.Result.ResultID {
		t.Fatalf("identical inputs must yield the same result id")
	}
	if string(results.saved[0].Envelope) != string(results.saved[1].Envelope) {
		t.Fatalf("re-evaluation must archive a byte-identical envelope")
	}
}
