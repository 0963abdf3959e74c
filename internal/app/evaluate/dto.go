package evaluate

import (
	"townreeve/internal/domain/governance"
	"townreeve/internal/domain/town"
)

type Request struct {
	Handoff governance.ExecutionHandoff
	State   town.State
}

type Response struct {
	Result governance.ExecutionResult `json:"result"`
	// NextState is what the caller should carry into the next cycle;
	// writing it back is the caller's responsibility.
	NextState town.State `json:"nextState"`
}
