// Package handoff binds validated proposals into execution handoffs and
// archives the resulting envelopes for out-of-band readers.
package handoff

import (
	"context"
	"encoding/json"
	"time"

	"townreeve/internal/app/ports"
	"townreeve/internal/domain/governance"
)

type UseCase struct {
	Handoffs ports.HandoffRepository
	Now      func() time.Time
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	var (
		h   governance.ExecutionHandoff
		err error
	)
	if req.Command == "" {
		h, err = governance.NewHandoff(req.Proposal)
	} else {
		h, err = governance.NewHandoffWithCommand(req.Proposal, req.Command)
	}
	if err != nil {
		return Response{}, err
	}

	envelope, err := json.Marshal(h)
	if err != nil {
		return Response{}, err
	}
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	if err := u.Handoffs.Save(ctx, ports.HandoffRecord{
		HandoffID:    h.HandoffID,
		ProposalID:   h.ProposalID,
		TownID:       h.Proposal.TownID,
		ProposalType: string(h.Proposal.Type),
		Envelope:     envelope,
		CreatedAt:    nowFn(),
	}); err != nil {
		return Response{}, err
	}
	return Response{Handoff: h}, nil
}
