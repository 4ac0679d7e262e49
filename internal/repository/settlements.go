package repository

import (
	"context"
	"errors"
	"time"

	"github.com/profinder/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSettlementStore persists settlements in Postgres. The unique index
// on proof_fingerprint makes the insert itself the atomic check: a
// conflicting insert is a replay, never a second charge.
type GormSettlementStore struct {
	db     *gorm.DB
	window time.Duration
}

func NewGormSettlementStore(db *gorm.DB, window time.Duration) *GormSettlementStore {
	return &GormSettlementStore{db: db, window: window}
}

func (s *GormSettlementStore) PutIfAbsent(ctx context.Context, settlement models.Settlement) (bool, error) {
	record := models.SettlementRecord{
		ProofFingerprint: settlement.ProofFingerprint,
		Amount:           settlement.Amount,
		QueryFingerprint: settlement.QueryFingerprint,
		VerifiedAt:       settlement.VerifiedAt,
		ExpiresAt:        settlement.VerifiedAt.Add(s.window),
	}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "proof_fingerprint"}},
			DoNothing: true,
		}).
		Create(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (s *GormSettlementStore) Get(ctx context.Context, fingerprint string) (*models.Settlement, error) {
	var record models.SettlementRecord
	err := s.db.WithContext(ctx).
		Where("proof_fingerprint = ?", fingerprint).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &models.Settlement{
		ProofFingerprint: record.ProofFingerprint,
		Amount:           record.Amount,
		QueryFingerprint: record.QueryFingerprint,
		VerifiedAt:       record.VerifiedAt,
	}, nil
}

// EvictExpired deletes records past the dedup window.
func (s *GormSettlementStore) EvictExpired(ctx context.Context) error {
	return s.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&models.SettlementRecord{}).Error
}
