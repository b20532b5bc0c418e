package repository

import (
	"fmt"

	"gorm.io/gorm"

	"tripcraft/internal/model"
)

type ItineraryRepository struct {
	db *gorm.DB
}

func NewItineraryRepository(db *gorm.DB) *ItineraryRepository {
	return &ItineraryRepository{db: db}
}

func (r *ItineraryRepository) Create(itinerary *model.Itinerary) error {
	if err := r.db.Create(itinerary).Error; err != nil {
		return fmt.Errorf("create itinerary failed: %w", err)
	}
	return nil
}

func (r *ItineraryRepository) ListByUserID(userID uint) ([]model.Itinerary, error) {
	var itineraries []model.Itinerary
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&itineraries).Error; err != nil {
		return nil, fmt.Errorf("list itineraries failed: %w", err)
	}
	return itineraries, nil
}
