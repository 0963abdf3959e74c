package harness

import (
	"strings"

	"townreeve/internal/domain/governance"
	"townreeve/internal/domain/town"
)

const snapshotA = "3f1a9c2b7d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8"

func hex64(fill string) string { return strings.Repeat(fill, 64) }

func worldState() town.State {
	return town.State{
		SnapshotHash:            snapshotA,
		DecisionEpoch:           4,
		SideQuests:              []town.EntityRef{{ID: "quest_water_tower"}},
		Projects:                []town.EntityRef{{ID: "project_windmill"}},
		SupportedSalvageFocuses: []string{"metals", "textiles"},
		SupportedTalkTypes:      []string{"townhall"},
	}
}

func proposalAgainst(s town.State) governance.Proposal {
	return governance.Proposal{
		ProposalID:    "proposal_" + snapshotA,
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
	}
}

func handoffAgainst(s town.State) governance.ExecutionHandoff {
	h, err := governance.NewHandoff(proposalAgainst(s))
	if err != nil {
		panic(err)
	}
	return h
}
