// Package model holds the gorm table mappings for the artifact archive.
package model

import "time"

type HandoffArtifact struct {
	HandoffID    string    `gorm:"column:handoff_id;primaryKey"`
	ProposalID   string    `gorm:"column:proposal_id;index"`
	TownID       string    `gorm:"column:town_id;index"`
	ProposalType string    `gorm:"column:proposal_type"`
	Envelope     []byte    `gorm:"column:envelope;type:jsonb"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (HandoffArtifact) TableName() string { return "handoff_artifacts" }

type ResultArtifact struct {
	ResultID   string    `gorm:"column:result_id;primaryKey"`
	HandoffID  string    `gorm:"column:handoff_id;index"`
	ProposalID string    `gorm:"column:proposal_id;index"`
	TownID     string    `gorm:"column:town_id;index"`
	Status     string    `gorm:"column:status"`
	ReasonCode string    `gorm:"column:reason_code"`
	Envelope   []byte    `gorm:"column:envelope;type:jsonb"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (ResultArtifact) TableName() string { return "result_artifacts" }
