package governance

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrUnsupportedProposalType = errors.New("unsupported proposal type")

// ArgsError reports which argument of a proposal violated its type's shape.
type ArgsError struct {
	Type   ProposalType
	Field  string
	Detail string
}

func (e *ArgsError) Error() string {
	return fmt.Sprintf("invalid args for %s: %s %s", e.Type, e.Field, e.Detail)
}

type proposalSpec struct {
	Type         ProposalType
	Verb         string
	ValidateArgs func(ProposalArgs) error
	ToCommand    func(townID string, a ProposalArgs) string
}

// Command verbs are distinct per type and argument order is fixed, so the
// mapping is injective for a fixed townId.
func proposalRegistry() map[ProposalType]proposalSpec {
	return map[ProposalType]proposalSpec{
		ProposalSetMission: {
			Type:         ProposalSetMission,
			Verb:         "mission.set",
			ValidateArgs: validateSetMissionArgs,
			ToCommand: func(townID string, a ProposalArgs) string {
				return fmt.Sprintf("mission.set town=%s mission=%s", townID, a.MissionID)
			},
		},
		ProposalClearMission: {
			Type:         ProposalClearMission,
			Verb:         "mission.clear",
			ValidateArgs: validateClearMissionArgs,
			ToCommand: func(townID string, a ProposalArgs) string {
				return fmt.Sprintf("mission.clear town=%s", townID)
			},
		},
		ProposalPrioritizeSideQuest: {
			Type:         ProposalPrioritizeSideQuest,
			Verb:         "sidequest.prioritize",
			ValidateArgs: validatePrioritizeSideQuestArgs,
			ToCommand: func(townID string, a ProposalArgs) string {
				return fmt.Sprintf("sidequest.prioritize town=%s quest=%s", townID, a.SideQuestID)
			},
		},
		ProposalFundProject: {
			Type:         ProposalFundProject,
			Verb:         "project.fund",
			ValidateArgs: validateFundProjectArgs,
			ToCommand: func(townID string, a ProposalArgs) string {
				return fmt.Sprintf("project.fund town=%s project=%s amount=%s", townID, a.ProjectID, strconv.Itoa(a.Amount))
			},
		},
		ProposalSetSalvageFocus: {
			Type:         ProposalSetSalvageFocus,
			Verb:         "salvage.focus",
			ValidateArgs: validateSetSalvageFocusArgs,
			ToCommand: func(townID string, a ProposalArgs) string {
				return fmt.Sprintf("salvage.focus town=%s focus=%s", townID, a.Focus)
			},
		},
		ProposalScheduleTalk: {
			Type:         ProposalScheduleTalk,
			Verb:         "talk.schedule",
			ValidateArgs: validateScheduleTalkArgs,
			ToCommand: func(townID string, a ProposalArgs) string {
				return fmt.Sprintf("talk.schedule town=%s type=%s topic=%s", townID, a.TalkType, a.Topic)
			},
		},
	}
}

// CommandVerbs returns the verb of every registered mapping rule, in
// registry order.
func CommandVerbs() []string {
	reg := proposalRegistry()
	verbs := make([]string, 0, len(reg))
	for _, t := range supportedProposalTypes() {
		verbs = append(verbs, reg[t].Verb)
	}
	return verbs
}

// MapCommand derives the command string for a validated proposal. It is
// total over the closed proposal-type set.
func MapCommand(p Proposal) (string, error) {
	spec, ok := proposalRegistry()[p.Type]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedProposalType, p.Type)
	}
	if err := spec.ValidateArgs(p.Args); err != nil {
		return "", err
	}
	return spec.ToCommand(p.TownID, p.Args), nil
}

func validateSetMissionArgs(a ProposalArgs) error {
	if strings.TrimSpace(a.MissionID) == "" {
		return &ArgsError{Type: ProposalSetMission, Field: "missionId", Detail: "is required"}
	}
	return requireOnly(ProposalSetMission, a, "missionId")
}

func validateClearMissionArgs(a ProposalArgs) error {
	return requireOnly(ProposalClearMission, a)
}

func validatePrioritizeSideQuestArgs(a ProposalArgs) error {
	if strings.TrimSpace(a.SideQuestID) == "" {
		return &ArgsError{Type: ProposalPrioritizeSideQuest, Field: "sideQuestId", Detail: "is required"}
	}
	return requireOnly(ProposalPrioritizeSideQuest, a, "sideQuestId")
}

func validateFundProjectArgs(a ProposalArgs) error {
	if strings.TrimSpace(a.ProjectID) == "" {
		return &ArgsError{Type: ProposalFundProject, Field: "projectId", Detail: "is required"}
	}
	if a.Amount <= 0 {
		return &ArgsError{Type: ProposalFundProject, Field: "amount", Detail: "must be positive"}
	}
	return requireOnly(ProposalFundProject, a, "projectId", "amount")
}

func validateSetSalvageFocusArgs(a ProposalArgs) error {
	if strings.TrimSpace(a.Focus) == "" {
		return &ArgsError{Type: ProposalSetSalvageFocus, Field: "focus", Detail: "is required"}
	}
	return requireOnly(ProposalSetSalvageFocus, a, "focus")
}

func validateScheduleTalkArgs(a ProposalArgs) error {
	if strings.TrimSpace(a.TalkType) == "" {
		return &ArgsError{Type: ProposalScheduleTalk, Field: "talkType", Detail: "is required"}
	}
	if strings.TrimSpace(a.Topic) == "" {
		return &ArgsError{Type: ProposalScheduleTalk, Field: "topic", Detail: "is required"}
	}
	return requireOnly(ProposalScheduleTalk, a, "talkType", "topic")
}

// requireOnly rejects any args field outside the allowed set, so a
// proposal's args shape stays fully determined by its type.
func requireOnly(t ProposalType, a ProposalArgs, allowed ...string) error {
	set := make(map[string]bool, len(allowed))
	for _, f := range allowed {
		set[f] = true
	}
	checks := []struct {
		field string
		zero  bool
	}{
		{"missionId", a.MissionID == ""},
		{"sideQuestId", a.SideQuestID == ""},
		{"projectId", a.ProjectID == ""},
		{"amount", a.Amount == 0},
		{"focus", a.Focus == ""},
		{"talkType", a.TalkType == ""},
		{"topic", a.Topic == ""},
	}
	for _, c := range checks {
		if !set[c.field] && !c.zero {
			return &ArgsError{Type: t, Field: c.field, Detail: "is not allowed"}
		}
	}
	return nil
}
