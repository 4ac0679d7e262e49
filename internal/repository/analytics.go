package repository

import (
	"github.com/profinder/backend/internal/models"
	"gorm.io/gorm"
)

// SearchQueryRepositoryImpl implements models.SearchQueryRepository
type SearchQueryRepositoryImpl struct {
	db *gorm.DB
}

func NewSearchQueryRepository(db *gorm.DB) models.SearchQueryRepository {
	return &SearchQueryRepositoryImpl{db: db}
}

func (r *SearchQueryRepositoryImpl) Create(query *models.SearchQuery) error {
	return r.db.Create(query).Error
}

func (r *SearchQueryRepositoryImpl) GetRecentSearches(limit int) ([]models.SearchQuery, error) {
	var queries []models.SearchQuery
	err := r.db.Order("search_timestamp DESC").
		Limit(limit).
		Find(&queries).Error
	return queries, err
}

func (r *SearchQueryRepositoryImpl) GetBySession(session string) ([]models.SearchQuery, error) {
	var queries []models.SearchQuery
	err := r.db.Where("user_session = ?", session).
		Order("search_timestamp DESC").
		Find(&queries).Error
	return queries, err
}
