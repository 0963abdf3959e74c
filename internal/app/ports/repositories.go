package ports

import (
	"context"
	"encoding/json"
	"time"
)

// HandoffRecord is one archived ExecutionHandoff envelope. The envelope is
// the wire JSON; the typed columns exist for lookups only and are never the
// source of truth.
type HandoffRecord struct {
	HandoffID    string
	ProposalID   string
	TownID       string
	ProposalType string
	Envelope     json.RawMessage
	CreatedAt    time.Time
}

// ResultRecord is one archived ExecutionResult envelope.
type ResultRecord struct {
	ResultID   string
	HandoffID  string
	ProposalID string
	TownID     string
	Status     string
	ReasonCode string
	Envelope   json.RawMessage
	CreatedAt  time.Time
}

// HandoffRepository is write-once storage keyed by content address.
// Re-saving a byte-identical envelope succeeds; a different envelope under
// the same id is ErrConflict.
type HandoffRepository interface {
	Save(ctx context.Context, rec HandoffRecord) error
	GetByHandoffID(ctx context.Context, handoffID string) (HandoffRecord, error)
}

// ResultRepository stores result envelopes for the downstream narrative
// and reporting readers.
type ResultRepository interface {
	Save(ctx context.Context, rec ResultRecord) error
	GetByResultID(ctx context.Context, resultID string) (ResultRecord, error)
	ListByTownID(ctx context.Context, townID string, limit int) ([]ResultRecord, error)
}
