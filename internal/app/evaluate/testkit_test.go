package evaluate

import (
	"context"

	"townreeve/internal/app/ports"
	"townreeve/internal/domain/governance"
	"townreeve/internal/domain/town"
)

const testHash = "3f1a9c2b7d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8"

type stubTxManager struct{}

func (stubTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubHandoffRepo struct {
	saved []ports.HandoffRecord
	err   error
}

func (r *stubHandoffRepo) Save(_ context.Context, rec ports.HandoffRecord) error {
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, rec)
	return nil
}

func (r *stubHandoffRepo) GetByHandoffID(_ context.Context, _ string) (ports.HandoffRecord, error) {
	return ports.HandoffRecord{}, ports.ErrNotFound
}

type stubResultRepo struct {
	saved []ports.ResultRecord
	err   error
}

func (r *stubResultRepo) Save(_ context.Context, rec ports.ResultRecord) error {
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, rec)
	return nil
}

func (r *stubResultRepo) GetByResultID(_ context.Context, _ string) (ports.ResultRecord, error) {
	return ports.ResultRecord{}, ports.ErrNotFound
}

func (r *stubResultRepo) ListByTownID(_ context.Context, _ string, _ int) ([]ports.ResultRecord, error) {
	return nil, nil
}

type stubMetrics struct {
	outcomes []governance.ExecutionStatus
	rejected int
	failures int
}

func (m *stubMetrics) RecordOutcome(status governance.ExecutionStatus) {
	m.outcomes = append(m.outcomes, status)
}

func (m *stubMetrics) RecordRejectedInput() { m.rejected++ }
func (m *stubMetrics) RecordFailure()       { m.failures++ }

func testState() town.State {
	return town.State{
		SnapshotHash:  testHash,
		DecisionEpoch: 4,
		SideQuests:    []town.EntityRef{{ID: "quest_water_tower"}},
	}
}

func testHandoff(s town.State) governance.ExecutionHandoff {
	h, err := governance.NewHandoff(governance.Proposal{
		ProposalID:    "proposal_" + testHash,
		Type:          governance.ProposalPrioritizeSideQuest,
		ActorID:       "mayor_ada",
		TownID:        "town-demo",
		Priority:      0.8,
		Args:          governance.ProposalArgs{SideQuestID: "quest_water_tower"},
		Reason:        "council vote",
		SnapshotHash:  s.SnapshotHash,
		DecisionEpoch: s.DecisionEpoch,
		Preconditions: []governance.Precondition{
			{Kind: governance.PreconditionSideQuestExists, TargetID: "quest_water_tower"},
		},
	})
	if err != nil {
		panic(err)
	}
	return h
}
