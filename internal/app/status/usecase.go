// Package status answers what this contract node supports: the closed
// proposal-type set, guard kinds, command verbs, and the configured town
// baseline.
package status

import (
	"context"

	"townreeve/internal/app/ports"
	"townreeve/internal/domain/governance"
)

type UseCase struct {
	Baseline ports.TownBaselineProvider
}

func (u UseCase) Execute(ctx context.Context, _ Request) (Response, error) {
	baseline, err := u.Baseline.Baseline(ctx)
	if err != nil {
		return Response{}, err
	}
	return Response{
		TownID:                 baseline.TownID,
		Baseline:               baseline.State,
		SupportedProposalTypes: governance.SupportedProposalTypes(),
		PreconditionKinds:      governance.SupportedPreconditionKinds(),
		CommandVerbs:           governance.CommandVerbs(),
		ExecutionStatuses:      governance.SupportedExecutionStatuses(),
	}, nil
}
