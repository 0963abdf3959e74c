package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"townreeve/internal/app/evaluate"
	"townreeve/internal/app/handoff"
	"townreeve/internal/app/ports"
	"townreeve/internal/app/report"
	"townreeve/internal/app/status"
	"townreeve/internal/domain/governance"
	"townreeve/internal/domain/town"
	"townreeve/internal/schema"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type Handler struct {
	HandoffUC  handoff.UseCase
	EvaluateUC evaluate.UseCase
	ReportUC   report.UseCase
	StatusUC   status.UseCase
	KPI        kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	api := s.Group("/api/town")
	api.POST("/handoff", h.createHandoff)
	api.POST("/evaluate", h.evaluate)
	api.GET("/handoffs/:id", h.getHandoff)
	api.GET("/results/:id", h.getResult)
	api.GET("/results", h.listResults)
	api.POST("/status", h.status)

	s.GET("/ops/kpi", h.kpi)
}

type createHandoffRequest struct {
	Proposal json.RawMessage `json:"proposal"`
	Command  string          `json:"command,omitempty"`
}

type evaluateRequest struct {
	Handoff json.RawMessage `json:"handoff"`
	State   town.State      `json:"state"`
}

func (h Handler) createHandoff(c context.Context, ctx *app.RequestContext) {
	var body createHandoffRequest
	if err := decodeJSON(ctx, &body); err != nil || len(body.Proposal) == 0 {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	// Wire payloads are validated against the envelope schema before any
	// field is trusted.
	if err := schema.Validate(schema.ProposalSchema, body.Proposal); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_proposal", err.Error())
		return
	}
	var proposal governance.Proposal
	if err := json.Unmarshal(body.Proposal, &proposal); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.HandoffUC.Execute(c, handoff.Request{Proposal: proposal, Command: body.Command})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

func (h Handler) evaluate(c context.Context, ctx *app.RequestContext) {
	var body evaluateRequest
	if err := decodeJSON(ctx, &body); err != nil || len(body.Handoff) == 0 {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if err := schema.Validate(schema.HandoffSchema, body.Handoff); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_handoff", err.Error())
		return
	}
	var hd governance.ExecutionHandoff
	if err := json.Unmarshal(body.Handoff, &hd); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.EvaluateUC.Execute(c, evaluate.Request{Handoff: hd, State: body.State})
	if err != nil {
		writeError(ctx, err)
		return
	}
	// Business outcomes (duplicate, stale, rejected, executed) are all 200
	// with a fully-formed result; only caller defects reach writeError.
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) getHandoff(c context.Context, ctx *app.RequestContext) {
	resp, err := h.ReportUC.GetHandoff(c, report.HandoffRequest{HandoffID: string(ctx.Param("id"))})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) getResult(c context.Context, ctx *app.RequestContext) {
	resp, err := h.ReportUC.GetResult(c, report.ResultRequest{ResultID: string(ctx.Param("id"))})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) listResults(c context.Context, ctx *app.RequestContext) {
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	resp, err := h.ReportUC.ListResults(c, report.ListRequest{
		TownID: strings.TrimSpace(string(ctx.Query("town_id"))),
		Limit:  limit,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) status(c context.Context, ctx *app.RequestContext) {
	resp, err := h.StatusUC.Execute(c, status.Request{})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	var (
		proposalErr *governance.ProposalError
		argsErr     *governance.ArgsError
		handoffErr  *governance.HandoffError
		resultErr   *governance.ResultError
		stateErr    *town.StateError
	)
	switch {
	case errors.Is(err, governance.ErrMappingDrift):
		writeErrorBody(ctx, consts.StatusConflict, "mapping_drift", err.Error())
	case errors.Is(err, governance.ErrUnsupportedProposalType):
		writeErrorBody(ctx, consts.StatusBadRequest, "unsupported_proposal_type", err.Error())
	case errors.As(err, &proposalErr):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_proposal", err.Error())
	case errors.As(err, &argsErr):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_proposal_args", err.Error())
	case errors.As(err, &handoffErr):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_handoff", err.Error())
	case errors.As(err, &stateErr):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_state", err.Error())
	case errors.As(err, &resultErr):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_result", err.Error())
	case errors.Is(err, report.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, report.ErrCorruptArtifact):
		writeErrorBody(ctx, consts.StatusInternalServerError, "corrupt_artifact", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
