// Package report serves archived handoff/result envelopes to downstream
// readers (narrative generator, CLI reporters). Artifacts are
// validated-on-read: the schema is checked and the content address
// recomputed before anything leaves the archive.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"townreeve/internal/app/ports"
	"townreeve/internal/domain/governance"
	"townreeve/internal/schema"
)

var (
	ErrInvalidRequest  = errors.New("invalid report request")
	ErrCorruptArtifact = errors.New("archived artifact failed revalidation")
)

const defaultListLimit = 50

type UseCase struct {
	Handoffs ports.HandoffRepository
	Results  ports.ResultRepository
}

func (u UseCase) GetResult(ctx context.Context, req ResultRequest) (ResultResponse, error) {
	if !governance.IsResultID(strings.TrimSpace(req.ResultID)) {
		return ResultResponse{}, ErrInvalidRequest
	}
	rec, err := u.Results.GetByResultID(ctx, req.ResultID)
	if err != nil {
		return ResultResponse{}, err
	}
	result, err := decodeResult(rec.Envelope)
	if err != nil {
		return ResultResponse{}, err
	}
	return ResultResponse{Result: result}, nil
}

func (u UseCase) GetHandoff(ctx context.Context, req HandoffRequest) (HandoffResponse, error) {
	if !governance.IsHandoffID(strings.TrimSpace(req.HandoffID)) {
		return HandoffResponse{}, ErrInvalidRequest
	}
	rec, err := u.Handoffs.GetByHandoffID(ctx, req.HandoffID)
	if err != nil {
		return HandoffResponse{}, err
	}
	if err := schema.Validate(schema.HandoffSchema, rec.Envelope); err != nil {
		return HandoffResponse{}, errors.Join(ErrCorruptArtifact, err)
	}
	var h governance.ExecutionHandoff
	if err := json.Unmarshal(rec.Envelope, &h); err != nil {
		return HandoffResponse{}, errors.Join(ErrCorruptArtifact, err)
	}
	if err := governance.ValidateHandoff(h); err != nil {
		return HandoffResponse{}, errors.Join(ErrCorruptArtifact, err)
	}
	return HandoffResponse{Handoff: h}, nil
}

func (u UseCase) ListResults(ctx context.Context, req ListRequest) (ListResponse, error) {
	if strings.TrimSpace(req.TownID) == "" {
		return ListResponse{}, ErrInvalidRequest
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	recs, err := u.Results.ListByTownID(ctx, req.TownID, limit)
	if err != nil {
		return ListResponse{}, err
	}
	out := make([]governance.ExecutionResult, 0, len(recs))
	for _, rec := range recs {
		result, err := decodeResult(rec.Envelope)
		if err != nil {
			return ListResponse{}, err
		}
		out = append(out, result)
	}
	return ListResponse{Results: out}, nil
}

func decodeResult(envelope []byte) (governance.ExecutionResult, error) {
	if err := schema.Validate(schema.ResultSchema, envelope); err != nil {
		return governance.ExecutionResult{}, errors.Join(ErrCorruptArtifact, err)
	}
	var r governance.ExecutionResult
	if err := json.Unmarshal(envelope, &r); err != nil {
		return governance.ExecutionResult{}, errors.Join(ErrCorruptArtifact, err)
	}
	if err := governance.ValidateExecutionResult(r); err != nil {
		return governance.ExecutionResult{}, errors.Join(ErrCorruptArtifact, err)
	}
	return r, nil
}
