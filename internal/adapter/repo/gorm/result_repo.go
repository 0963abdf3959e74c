package gormrepo

import (
	"bytes"
	"context"
	"errors"

	"townreeve/internal/adapter/repo/gorm/model"
	"townreeve/internal/app/ports"

	"gorm.io/gorm"
)

type ResultRepo struct {
	db *gorm.DB
}

func NewResultRepo(db *gorm.DB) ResultRepo {
	return ResultRepo{db: db}
}

func (r ResultRepo) Save(ctx context.Context, rec ports.ResultRecord) error {
	db := getDBFromCtx(ctx, r.db)

	var existing model.ResultArtifact
	err := db.Where(&model.ResultArtifact{ResultID: rec.ResultID}).First(&existing).Error
	if err == nil {
		if !bytes.Equal(existing.Envelope, rec.Envelope) {
			return ports.ErrConflict
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	m := model.ResultArtifact{
		ResultID:   rec.ResultID,
		HandoffID:  rec.HandoffID,
		ProposalID: rec.ProposalID,
		TownID:     rec.TownID,
		Status:     rec.Status,
		ReasonCode: rec.ReasonCode,
		Envelope:   rec.Envelope,
		CreatedAt:  rec.CreatedAt,
	}
	if err := db.Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ports.ErrConflict
		}
		return err
	}
	return nil
}

func (r ResultRepo) GetByResultID(ctx context.Context, resultID string) (ports.ResultRecord, error) {
	var m model.ResultArtifact
	err := getDBFromCtx(ctx, r.db).
		Where(&model.ResultArtifact{ResultID: resultID}).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ResultRecord{}, ports.ErrNotFound
		}
		return ports.ResultRecord{}, err
	}
	return recordFromModel(m), nil
}

func (r ResultRepo) ListByTownID(ctx context.Context, townID string, limit int) ([]ports.ResultRecord, error) {
	var rows []model.ResultArtifact
	err := getDBFromCtx(ctx, r.db).
		Where(&model.ResultArtifact{TownID: townID}).
		Order("created_at DESC, result_id").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]ports.ResultRecord, 0, len(rows))
	for _, m := range rows {
		out = append(out, recordFromModel(m))
	}
	return out, nil
}

func recordFromModel(m model.ResultArtifact) ports.ResultRecord {
	return ports.ResultRecord{
		ResultID:   m.ResultID,
		HandoffID:  m.HandoffID,
		ProposalID: m.ProposalID,
		TownID:     m.TownID,
		Status:     m.Status,
		ReasonCode: m.ReasonCode,
		Envelope:   m.Envelope,
		CreatedAt:  m.CreatedAt,
	}
}
