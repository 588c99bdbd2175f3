package property

import (
	"context"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Amenity is a marketplace highlight of a unit
type Amenity string

const (
	AmenityParking  Amenity = "parking"
	AmenitySecurity Amenity = "security"
	AmenityGym      Amenity = "gym"
	AmenityPool     Amenity = "pool"
	AmenityElevator Amenity = "elevator"
)

var amenityLabels = map[Amenity]string{
	AmenityParking:  "Parking",
	AmenitySecurity: "Security",
	AmenityGym:      "Gym",
	AmenityPool:     "Pool",
	AmenityElevator: "Elevator",
}

// AllAmenities returns the known amenities in display order
func AllAmenities() []Amenity {
	return []Amenity{AmenityParking, AmenitySecurity, AmenityGym, AmenityPool, AmenityElevator}
}

func (a Amenity) String() string { return string(a) }

// Label returns the display label
func (a Amenity) Label() string { return amenityLabels[a] }

// IsValid reports whether a is known
func (a Amenity) IsValid() bool {
	_, ok := amenityLabels[a]
	return ok
}

// UnitListing is the public marketplace presentation of a unit.
// Photos are not stored.
type UnitListing struct {
	Listed         bool
	Description    string
	Amenities      []Amenity
	VirtualTourURL string
	ListedAt       *time.Time
}

// ListingDetails carries an edit of the marketplace listing
type ListingDetails struct {
	Listed         bool
	Description    string
	Amenities      []Amenity
	VirtualTourURL string
}

// UpdateListing replaces the marketplace listing. A listed unit needs a
// description. Amenities are deduplicated and kept in display order.
// ListedAt is set when the unit goes on the marketplace and cleared when it leaves.
func (u *Unit) UpdateListing(d ListingDetails, now time.Time) error {
	description := strings.TrimSpace(d.Description)
	if d.Listed && description == "" {
		return shared.NewRequiredFieldsError("description")
	}
	for _, a := range d.Amenities {
		if !a.IsValid() {
			return shared.NewValidationError("unknown amenity: "+string(a), "amenities")
		}
	}
	tour := strings.TrimSpace(d.VirtualTourURL)
	if tour != "" && !isWebURL(tour) {
		return shared.NewValidationError("virtual tour url must be an http or https address", "virtual_tour_url")
	}

	amenities := make([]Amenity, 0, len(d.Amenities))
	for _, a := range AllAmenities() {
		if slices.Contains(d.Amenities, a) {
			amenities = append(amenities, a)
		}
	}

	listedAt := u.Listing.ListedAt
	switch {
	case d.Listed && !u.Listing.Listed:
		listedAt = &now
	case !d.Listed:
		listedAt = nil
	}
	u.Listing = UnitListing{
		Listed:         d.Listed,
		Description:    description,
		Amenities:      amenities,
		VirtualTourURL: tour,
		ListedAt:       listedAt,
	}
	u.Touch()
	u.IncrementVersion()
	return nil
}

// IsOnMarketplace reports whether the unit is shown to prospective tenants.
// Only vacant units are shown, whatever their listing flag.
func (u *Unit) IsOnMarketplace() bool {
	return u.Listing.Listed && u.Status == UnitStatusVacant
}

func isWebURL(raw string) bool {
	parsed, err := url.ParseRequestURI(raw)
	if err != nil || parsed.Host == "" {
		return false
	}
	return parsed.Scheme == "http" || parsed.Scheme == "https"
}

// Listing is a marketplace row: a listed vacant unit with its building
type Listing struct {
	Unit            Unit
	BuildingName    string
	BuildingAddress string
	BuildingCity    string
}

// ListingFilter narrows the marketplace. Zero values do not filter.
type ListingFilter struct {
	City      string
	UnitType  UnitType
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	MinSize   *decimal.Decimal
	MaxSize   *decimal.Decimal
	Bedrooms  *int
	Bathrooms *int
	// Amenities must all be present on a listing
	Amenities []Amenity
}

// CityCount is the number of listings in one city
type CityCount struct {
	City  string
	Count int64
}

// PriceRange summarizes the yearly rent of the listings. Count is zero when
// there is nothing on the marketplace.
type PriceRange struct {
	Min     decimal.Decimal
	Max     decimal.Decimal
	Average decimal.Decimal
	Count   int64
}

// ListingRepository reads the marketplace of an office
type ListingRepository interface {
	FindListings(ctx context.Context, officeID uuid.UUID, filter ListingFilter, page shared.Filter) ([]Listing, error)
	CountListings(ctx context.Context, officeID uuid.UUID, filter ListingFilter) (int64, error)
	FindListing(ctx context.Context, officeID, unitID uuid.UUID) (*Listing, error)
	Cities(ctx context.Context, officeID uuid.UUID) ([]CityCount, error)
	PriceRange(ctx context.Context, officeID uuid.UUID) (PriceRange, error)
}
