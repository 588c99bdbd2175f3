package property

import (
	"context"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/property"
	"github.com/propdesk/backend/internal/domain/shared"
)

// MarketplaceService reads the public listings of an office
type MarketplaceService struct {
	listingRepo property.ListingRepository
}

// NewMarketplaceService creates a new MarketplaceService
func NewMarketplaceService(listingRepo property.ListingRepository) *MarketplaceService {
	return &MarketplaceService{listingRepo: listingRepo}
}

// List returns a page of listings. Without an explicit order the cheapest come first.
func (s *MarketplaceService) List(ctx context.Context, officeID uuid.UUID, query ListingQuery, page shared.Filter) (*shared.Paginated[ListingResponse], error) {
	filter, err := query.filter()
	if err != nil {
		return nil, err
	}
	page = page.Normalize()
	listings, err := s.listingRepo.FindListings(ctx, officeID, filter, page)
	if err != nil {
		return nil, err
	}
	total, err := s.listingRepo.CountListings(ctx, officeID, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(mapSlice(listings, ToListingResponse), total, page.Page, page.PageSize)
	return &result, nil
}

// GetByID returns the listing of a unit
func (s *MarketplaceService) GetByID(ctx context.Context, officeID, unitID uuid.UUID) (*ListingResponse, error) {
	listing, err := s.listingRepo.FindListing(ctx, officeID, unitID)
	if err != nil {
		return nil, err
	}
	resp := ToListingResponse(listing)
	return &resp, nil
}

// Cities returns the cities that have listings with their counts
func (s *MarketplaceService) Cities(ctx context.Context, officeID uuid.UUID) ([]CityCountResponse, error) {
	cities, err := s.listingRepo.Cities(ctx, officeID)
	if err != nil {
		return nil, err
	}
	return mapSlice(cities, func(c *property.CityCount) CityCountResponse {
		return CityCountResponse{City: c.City, Count: c.Count}
	}), nil
}

// PriceRange returns the rent bounds used by the price filter
func (s *MarketplaceService) PriceRange(ctx context.Context, officeID uuid.UUID) (*PriceRangeResponse, error) {
	r, err := s.listingRepo.PriceRange(ctx, officeID)
	if err != nil {
		return nil, err
	}
	return &PriceRangeResponse{Min: r.Min, Max: r.Max, Average: r.Average, Count: r.Count}, nil
}
