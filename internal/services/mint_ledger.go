package services

import (
	"context"
	"errors"

	"github.com/artisanhub/artisanhub-api/internal/logger"
	"github.com/artisanhub/artisanhub-api/internal/models"
	"gorm.io/gorm"
)

const defaultLedgerLimit = 50

// ErrLedgerDisabled is returned by listing when no database is configured
var ErrLedgerDisabled = errors.New("mint ledger is not configured")

// MintLedger records mint attempts. Write failures are logged, never returned:
// bookkeeping must not fail a mint.
type MintLedger interface {
	RecordUploaded(ctx context.Context, record *models.MintRecord)
	MarkMinted(ctx context.Context, id, assetAddress, signature string)
	MarkFailed(ctx context.Context, id string, cause error)
	ListByCreator(ctx context.Context, creator string, limit int) ([]models.MintRecord, error)
}

// GormMintLedger persists mint attempts with gorm
type GormMintLedger struct {
	db *gorm.DB
}

func NewGormMintLedger(db *gorm.DB) *GormMintLedger {
	return &GormMintLedger{db: db}
}

func (l *GormMintLedger) RecordUploaded(ctx context.Context, record *models.MintRecord) {
	record.Status = models.MintStatusUploaded
	if err := l.db.WithContext(ctx).Create(record).Error; err != nil {
		logger.Error("Failed to record mint attempt", err, logger.Fields{
			"creator": record.Creator,
			"title":   record.Title,
		})
	}
}

func (l *GormMintLedger) MarkMinted(ctx context.Context, id, assetAddress, signature string) {
	if id == "" {
		return
	}
	err := l.db.WithContext(ctx).Model(&models.MintRecord{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":        models.MintStatusMinted,
		"asset_address": assetAddress,
		"signature":     signature,
	}).Error
	if err != nil {
		logger.Error("Failed to mark mint as minted", err, logger.Fields{"mint_record": id, "asset": assetAddress})
	}
}

func (l *GormMintLedger) MarkFailed(ctx context.Context, id string, cause error) {
	if id == "" {
		return
	}
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	err := l.db.WithContext(ctx).Model(&models.MintRecord{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status": models.MintStatusFailed,
		"error":  msg,
	}).Error
	if err != nil {
		logger.Error("Failed to mark mint as failed", err, logger.Fields{"mint_record": id})
	}
}

func (l *GormMintLedger) ListByCreator(ctx context.Context, creator string, limit int) ([]models.MintRecord, error) {
	if limit <= 0 {
		limit = defaultLedgerLimit
	}
	var records []models.MintRecord
	if err := l.db.WithContext(ctx).
		Where("creator = ?", creator).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// NoopMintLedger is used when no database is configured
type NoopMintLedger struct{}

func (NoopMintLedger) RecordUploaded(context.Context, *models.MintRecord) {}
func (NoopMintLedger) MarkMinted(context.Context, string, string, string) {}
func (NoopMintLedger) MarkFailed(context.Context, string, error) {}

func (NoopMintLedger) ListByCreator(context.Context, string, int) ([]models.MintRecord, error) {
	return nil, ErrLedgerDisabled
}
