// Package governance defines the decision-to-execution contract envelopes:
// the upstream Proposal, the replay-safe ExecutionHandoff, and the
// content-addressed ExecutionResult. All identifiers are derived from
// canonical hashes, never assigned.
package governance

import (
	"regexp"
)

type ProposalType string

const (
	ProposalSetMission          ProposalType = "set_mission"
	ProposalClearMission        ProposalType = "clear_mission"
	ProposalPrioritizeSideQuest ProposalType = "prioritize_side_quest"
	ProposalFundProject         ProposalType = "fund_project"
	ProposalSetSalvageFocus     ProposalType = "set_salvage_focus"
	ProposalScheduleTalk        ProposalType = "schedule_talk"
)

type PreconditionKind string

const (
	PreconditionMissionAbsent         PreconditionKind = "mission_absent"
	PreconditionSideQuestExists       PreconditionKind = "side_quest_exists"
	PreconditionProjectExists         PreconditionKind = "project_exists"
	PreconditionSalvageFocusSupported PreconditionKind = "salvage_focus_supported"
	PreconditionTalkTypeSupported     PreconditionKind = "talk_type_supported"
)

// Precondition is a guard the downstream engine must verify against world
// state before the mapped command may execute.
type Precondition struct {
	Kind     PreconditionKind `json:"kind"`
	TargetID string           `json:"targetId,omitempty"`
	Field    string           `json:"field,omitempty"`
	Expected string           `json:"expected,omitempty"`
}

// ProposalArgs carries the kind-specific arguments of a proposal. Each
// proposal type requires exactly its own fields set and everything else
// zero; the per-type validators in the registry enforce that.
type ProposalArgs struct {
	MissionID   string `json:"missionId,omitempty"`
	SideQuestID string `json:"sideQuestId,omitempty"`
	ProjectID   string `json:"projectId,omitempty"`
	Amount      int    `json:"amount,omitempty"`
	Focus       string `json:"focus,omitempty"`
	TalkType    string `json:"talkType,omitempty"`
	Topic       string `json:"topic,omitempty"`
}

// Proposal is the upstream scorer's output, read-only here.
type Proposal struct {
	ProposalID    string         `json:"proposalId"`
	Type          ProposalType   `json:"type"`
	ActorID       string         `json:"actorId"`
	TownID        string         `json:"townId"`
	Priority      float64        `json:"priority"`
	Args          ProposalArgs   `json:"args"`
	Reason        string         `json:"reason"`
	ReasonTags    []string       `json:"reasonTags"`
	SnapshotHash  string         `json:"snapshotHash"`
	DecisionEpoch int64          `json:"decisionEpoch"`
	Preconditions []Precondition `json:"preconditions,omitempty"`
}

var (
	hexDigestPattern  = regexp.MustCompile(`^[0-9a-f]{64}$`)
	proposalIDPattern = regexp.MustCompile(`^proposal_[0-9a-f]{64}$`)
	handoffIDPattern  = regexp.MustCompile(`^handoff_[0-9a-f]{64}$`)
	resultIDPattern   = regexp.MustCompile(`^result_[0-9a-f]{64}$`)
)

// IsHexDigest reports whether s is a 64-char lowercase hex digest.
func IsHexDigest(s string) bool { return hexDigestPattern.MatchString(s) }

func IsProposalID(s string) bool { return proposalIDPattern.MatchString(s) }
func IsHandoffID(s string) bool  { return handoffIDPattern.MatchString(s) }
func IsResultID(s string) bool   { return resultIDPattern.MatchString(s) }

func supportedProposalTypes() []ProposalType {
	return []ProposalType{
		ProposalSetMission,
		ProposalClearMission,
		ProposalPrioritizeSideQuest,
		ProposalFundProject,
		ProposalSetSalvageFocus,
		ProposalScheduleTalk,
	}
}

// SupportedProposalTypes lists the closed proposal-type set in registry order.
func SupportedProposalTypes() []ProposalType {
	return supportedProposalTypes()
}

func IsSupportedProposalType(t ProposalType) bool {
	for _, pt := range supportedProposalTypes() {
		if t == pt {
			return true
		}
	}
	return false
}

func supportedPreconditionKinds() []PreconditionKind {
	return []PreconditionKind{
		PreconditionMissionAbsent,
		PreconditionSideQuestExists,
		PreconditionProjectExists,
		PreconditionSalvageFocusSupported,
		PreconditionTalkTypeSupported,
	}
}

// SupportedPreconditionKinds lists the guard kinds the harness understands.
func SupportedPreconditionKinds() []PreconditionKind {
	return supportedPreconditionKinds()
}
