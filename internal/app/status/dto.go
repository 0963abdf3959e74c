package status

import (
	"townreeve/internal/domain/governance"
	"townreeve/internal/domain/town"
)

type Request struct{}

type Response struct {
	TownID                 string                        `json:"town_id"`
	Baseline               town.State                    `json:"baseline"`
	SupportedProposalTypes []governance.ProposalType     `json:"supported_proposal_types"`
	PreconditionKinds      []governance.PreconditionKind `json:"precondition_kinds"`
	CommandVerbs           []string                      `json:"command_verbs"`
	ExecutionStatuses      []governance.ExecutionStatus  `json:"execution_statuses"`
}
