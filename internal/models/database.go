package models

// GORM models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SettlementRecord is the durable form of a Settlement. The unique index
// on proof_fingerprint is what enforces no-replay when the store is
// database-backed: a duplicate insert fails instead of racing.
type SettlementRecord struct {
	BaseModel
	ProofFingerprint string    `json:"proof_fingerprint" gorm:"uniqueIndex;not null"`
	Amount           string    `json:"amount" gorm:"not null"`
	QueryFingerprint string    `json:"query_fingerprint"`
	VerifiedAt       time.Time `json:"verified_at" gorm:"not null"`
	ExpiresAt        time.Time `json:"expires_at" gorm:"index"`
}

// SearchQuery represents paid-search analytics
type SearchQuery struct {
	BaseModel
	Service         string    `json:"service" gorm:"not null"`
	Location        string    `json:"location" gorm:"not null"`
	MinRating       float64   `json:"min_rating"`
	ResultsCount    int       `json:"results_count" gorm:"default:0"`
	AmountCharged   string    `json:"amount_charged"`
	UserSession     string    `json:"user_session"`
	SearchTimestamp time.Time `json:"search_timestamp" gorm:"default:NOW()"`
	ResponseTimeMs  int       `json:"response_time_ms"`
	UserAgent       string    `json:"user_agent"`
	IPAddress       string    `json:"ip_address" gorm:"type:inet"`
}

// Database interfaces for repository pattern
type SearchQueryRepository interface {
	Create(query *SearchQuery) error
	GetRecentSearches(limit int) ([]SearchQuery, error)
	GetBySession(session string) ([]SearchQuery, error)
}

// TableName methods for custom table names
func (SettlementRecord) TableName() string { return "settlement_records" }
func (SearchQuery) TableName() string      { return "search_queries" }

// Model validation methods
func (sr *SettlementRecord) Validate() error {
	if sr.ProofFingerprint == "" {
		return fmt.Errorf("proof fingerprint is required")
	}
	if sr.Amount == "" {
		return fmt.Errorf("settlement amount is required")
	}
	return nil
}

func (sq *SearchQuery) Validate() error {
	if sq.Service == "" {
		return fmt.Errorf("service is required")
	}
	if sq.ResponseTimeMs < 0 {
		return fmt.Errorf("response time cannot be negative")
	}
	return nil
}

// GORM hooks
func (sr *SettlementRecord) BeforeCreate(tx *gorm.DB) error {
	return sr.Validate()
}

func (sq *SearchQuery) BeforeCreate(tx *gorm.DB) error {
	return sq.Validate()
}
