package report

import "townreeve/internal/domain/governance"

type ResultRequest struct {
	ResultID string
}

type ResultResponse struct {
	Result governance.ExecutionResult `json:"result"`
}

type HandoffRequest struct {
	HandoffID string
}

type HandoffResponse struct {
	Handoff governance.ExecutionHandoff `json:"handoff"`
}

type ListRequest struct {
	TownID string
	Limit  int
}

type ListResponse struct {
	Results []governance.ExecutionResult `json:"results"`
}
