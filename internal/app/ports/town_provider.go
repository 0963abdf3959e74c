package ports

import (
	"context"

	"townreeve/internal/domain/town"
)

// TownBaseline is the configured starting point of one town's execution
// state, used to seed demo cycles and answer status requests.
type TownBaseline struct {
	TownID string
	State  town.State
}

type TownBaselineProvider interface {
	Baseline(ctx context.Context) (TownBaseline, error)
}
