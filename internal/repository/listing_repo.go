package repository

import (
	"errors"

	"github.com/remercado/remercado-backend/internal/common"
	"github.com/remercado/remercado-backend/internal/domain"
	"gorm.io/gorm"
)

// ListingRepository read access to the listings table. Writes belong to
// the listing service; messaging only resolves the owner of a listing.
type ListingRepository interface {
	FindByID(id string) (*domain.Listing, error)
}

type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository creates a new ListingRepository
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) FindByID(id string) (*domain.Listing, error) {
	var listing domain.Listing
	err := r.db.Where("id = ?", id).First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrListingNotFound
		}
		return nil, err
	}
	return &listing, nil
}
