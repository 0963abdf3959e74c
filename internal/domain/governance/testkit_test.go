package governance

import "strings"

const (
	testSnapshotHash = "3f1a9c2b7d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8"
	testProposalID   = "proposal_" + testSnapshotHash
)

func fakeResultID(fill string) string {
	return "result_" + strings.Repeat(fill, 64)
}

// validProposal returns a minimal well-formed proposal of the given type.
func validProposal(t ProposalType) Proposal {
	p := Proposal{
		ProposalID:    testProposalID,
		Type:          t,
		ActorID:       "mayor_ada",
		TownID:        "town-demo",
		Priority:      0.8,
		Reason:        "council vote",
		ReasonTags:    []string{"council"},
		SnapshotHash:  testSnapshotHash,
		DecisionEpoch: 4,
	}
	switch t {
	case ProposalSetMission:
		p.Args = ProposalArgs{MissionID: "mission_rebuild"}
	case ProposalClearMission:
		// no args
	case ProposalPrioritizeSideQuest:
		p.Args = ProposalArgs{SideQuestID: "quest_water_tower"}
	case ProposalFundProject:
		p.Args = ProposalArgs{ProjectID: "project_windmill", Amount: 250}
	case ProposalSetSalvageFocus:
		p.Args = ProposalArgs{Focus: "metals"}
	case ProposalScheduleTalk:
		p.Args = ProposalArgs{TalkType: "townhall", Topic: "water supply"}
	}
	return p
}

func mustHandoff(p Proposal) ExecutionHandoff {
	h, err := NewHandoff(p)
	if err != nil {
		panic(err)
	}
	return h
}
