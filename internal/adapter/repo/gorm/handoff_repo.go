package gormrepo

import (
	"bytes"
	"context"
	"errors"

	"townreeve/internal/adapter/repo/gorm/model"
	"townreeve/internal/app/ports"

	"gorm.io/gorm"
)

type HandoffRepo struct {
	db *gorm.DB
}

func NewHandoffRepo(db *gorm.DB) HandoffRepo {
	return HandoffRepo{db: db}
}

func (r HandoffRepo) Save(ctx context.Context, rec ports.HandoffRecord) error {
	db := getDBFromCtx(ctx, r.db)

	var existing model.HandoffArtifact
	err := db.Where(&model.HandoffArtifact{HandoffID: rec.HandoffID}).First(&existing).Error
	if err == nil {
		if !bytes.Equal(existing.Envelope, rec.Envelope) {
			return ports.ErrConflict
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	m := model.HandoffArtifact{
		HandoffID:    rec.HandoffID,
		ProposalID:   rec.ProposalID,
		TownID:       rec.TownID,
		ProposalType: rec.ProposalType,
		Envelope:     rec.Envelope,
		CreatedAt:    rec.CreatedAt,
	}
	if err := db.Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ports.ErrConflict
		}
		return err
	}
	return nil
}

func (r HandoffRepo) GetByHandoffID(ctx context.Context, handoffID string) (ports.HandoffRecord, error) {
	var m model.HandoffArtifact
	err := getDBFromCtx(ctx, r.db).
		Where(&model.HandoffArtifact{HandoffID: handoffID}).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.HandoffRecord{}, ports.ErrNotFound
		}
		return ports.HandoffRecord{}, err
	}
	return ports.HandoffRecord{
		HandoffID:    m.HandoffID,
		ProposalID:   m.ProposalID,
		TownID:       m.TownID,
		ProposalType: m.ProposalType,
		Envelope:     m.Envelope,
		CreatedAt:    m.CreatedAt,
	}, nil
}
