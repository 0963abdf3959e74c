//go:build property
// +build property

package harness

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"townreeve/internal/domain/governance"
	"townreeve/internal/domain/town"
)

func genProposalType() gopter.Gen {
	types := governance.SupportedProposalTypes()
	anys := make([]interface{}, len(types))
	for i, t := range types {
		anys[i] = t
	}
	return gen.OneConstOf(anys...)
}

func proposalFor(pt governance.ProposalType, seed string, s town.State) governance.Proposal {
	sum := sha256.Sum256([]byte(seed))
	p := governance.Proposal{
		ProposalID:    "proposal_" + hex.EncodeToString(sum[:]),
		Type:          pt,
		ActorID:       "mayor_ada",
		TownID:        "town-demo",
		Priority:      0.5,
		Reason:        "generated",
		SnapshotHash:  s.SnapshotHash,
		DecisionEpoch: s.DecisionEpoch,
	}
	switch pt {
	case governance.ProposalSetMission:
		p.Args = governance.ProposalArgs{MissionID: "mission_" + seed}
	case governance.ProposalPrioritizeSideQuest:
		p.Args = governance.ProposalArgs{SideQuestID: "quest_water_tower"}
	case governance.ProposalFundProject:
		p.Args = governance.ProposalArgs{ProjectID: "project_windmill", Amount: 1 + len(seed)}
	case governance.ProposalSetSalvageFocus:
		p.Args = governance.ProposalArgs{Focus: "metals"}
	case governance.ProposalScheduleTalk:
		p.Args = governance.ProposalArgs{TalkType: "townhall", Topic: "topic " + seed}
	}
	return p
}

func TestEvaluateProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)
	svc := Service{}

	properties.Property("evaluation is deterministic", prop.ForAll(
		func(pt governance.ProposalType, seed string) bool {
			state := worldState()
			h, err := governance.NewHandoff(proposalFor(pt, seed, state))
			if err != nil {
				return false
			}
			r1, err1 := svc.Evaluate(h, state)
			r2, err2 := svc.Evaluate(h, state)
			if err1 != nil || err2 != nil {
				return false
			}
			b1, _ := json.Marshal(r1)
			b2, _ := json.Marshal(r2)
			return string(b1) == string(b2)
		},
		genProposalType(),
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
	))

	properties.Property("every result passes revalidation with an intact id", prop.ForAll(
		func(pt governance.ProposalType, seed string) bool {
			state := worldState()
			h, err := governance.NewHandoff(proposalFor(pt, seed, state))
			if err != nil {
				return false
			}
			r, err := svc.Evaluate(h, state)
			if err != nil {
				return false
			}
			return governance.ValidateExecutionResult(r) == nil && r.ExecutionID == r.ResultID
		},
		genProposalType(),
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
	))

	properties.Property("status uniquely determines acceptance flags", prop.ForAll(
		func(pt governance.ProposalType, seed string, drift bool) bool {
			state := worldState()
			h, err := governance.NewHandoff(proposalFor(pt, seed, state))
			if err != nil {
				return false
			}
			if drift {
				state.DecisionEpoch++
			}
			r, err := svc.Evaluate(h, state)
			if err != nil {
				return false
			}
			switch r.Status {
			case governance.StatusExecuted:
				return r.Accepted && r.Executed
			case governance.StatusFailed:
				return r.Accepted && !r.Executed
			default:
				return !r.Accepted && !r.Executed
			}
		},
		genProposalType(),
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
		gen.Bool(),
	))

	properties.Property("folding an executed result makes its replay a duplicate", prop.ForAll(
		func(seed string) bool {
			state := worldState()
			h, err := governance.NewHandoff(proposalFor(governance.ProposalSetMission, seed, state))
			if err != nil {
				return false
			}
			r, err := svc.Evaluate(h, state)
			if err != nil || r.Status != governance.StatusExecuted {
				return false
			}
			again, err := svc.Evaluate(h, Fold(state, r))
			if err != nil {
				return false
			}
			return again.Status == governance.StatusDuplicate &&
				again.Evaluation.DuplicateCheck.DuplicateOf == r.ResultID
		},
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
	))

	properties.TestingRun(t)
}

func TestResultIDUniquenessAcrossSeeds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)
	svc := Service{}

	properties.Property("distinct proposals yield distinct result ids", prop.ForAll(
		func(a, b string) bool {
			if a == b {
				return true
			}
			state := worldState()
			ha, errA := governance.NewHandoff(proposalFor(governance.ProposalSetMission, a, state))
			hb, errB := governance.NewHandoff(proposalFor(governance.ProposalSetMission, b, state))
			if errA != nil || errB != nil {
				return false
			}
			ra, errA := svc.Evaluate(ha, state)
			rb, errB := svc.Evaluate(hb, state)
			if errA != nil || errB != nil {
				return false
			}
			return ra.ResultID != rb.ResultID
		},
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
	))

	properties.TestingRun(t)
}
