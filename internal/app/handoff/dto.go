package handoff

import "townreeve/internal/domain/governance"

type Request struct {
	Proposal governance.Proposal
	// Command, when set, is drift-checked against the registry's own
	// derivation instead of being trusted.
	Command string
}

type Response struct {
	Handoff governance.ExecutionHandoff `json:"handoff"`
}
