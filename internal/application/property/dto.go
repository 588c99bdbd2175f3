package property

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/property"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OwnerRequest is the body of create and update owner requests
type OwnerRequest struct {
	FullName   string     `json:"full_name" binding:"required,min=1,max=200"`
	NationalID string     `json:"national_id" binding:"max=20"`
	Phone      string     `json:"phone" binding:"max=50"`
	Email      string     `json:"email" binding:"omitempty,email,max=200"`
	Birthdate  *time.Time `json:"birthdate"`
	BankName   string     `json:"bank_name" binding:"max=100"`
	IBAN       string     `json:"iban" binding:"max=40"`
}

func (r OwnerRequest) details() property.OwnerDetails {
	return property.OwnerDetails{
		FullName:   r.FullName,
		NationalID: r.NationalID,
		Phone:      r.Phone,
		Email:      r.Email,
		Birthdate:  r.Birthdate,
		BankName:   r.BankName,
		IBAN:       r.IBAN,
	}
}

// OwnerResponse represents an owner in API responses
type OwnerResponse struct {
	ID         uuid.UUID  `json:"id"`
	FullName   string     `json:"full_name"`
	NationalID string     `json:"national_id"`
	Phone      string     `json:"phone"`
	Email      string     `json:"email"`
	Birthdate  *time.Time `json:"birthdate,omitempty"`
	BankName   string     `json:"bank_name"`
	IBAN       string     `json:"iban"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ToOwnerResponse converts a domain owner to a response
func ToOwnerResponse(o *property.Owner) OwnerResponse {
	return OwnerResponse{
		ID:         o.ID,
		FullName:   o.FullName,
		NationalID: o.NationalID,
		Phone:      o.Phone,
		Email:      o.Email,
		Birthdate:  o.Birthdate,
		BankName:   o.BankName,
		IBAN:       o.IBAN,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

// BuildingRequest is the body of create and update building requests
type BuildingRequest struct {
	OwnerID      uuid.UUID `json:"owner_id" binding:"required"`
	Name         string    `json:"name" binding:"required,min=1,max=200"`
	Address      string    `json:"address" binding:"max=500"`
	City         string    `json:"city" binding:"max=100"`
	BuildingType string    `json:"building_type" binding:"omitempty,oneof=residential commercial mixed"`
	YearBuilt    int       `json:"year_built" binding:"omitempty,min=1800"`
	TotalUnits   int       `json:"total_units" binding:"min=0"`
}

func (r BuildingRequest) details() property.BuildingDetails {
	return property.BuildingDetails{
		OwnerID:      r.OwnerID,
		Name:         r.Name,
		Address:      r.Address,
		City:         r.City,
		BuildingType: property.BuildingType(r.BuildingType),
		YearBuilt:    r.YearBuilt,
		TotalUnits:   r.TotalUnits,
	}
}

// BuildingResponse represents a building in API responses
type BuildingResponse struct {
	ID                uuid.UUID `json:"id"`
	OwnerID           uuid.UUID `json:"owner_id"`
	Name              string    `json:"name"`
	Address           string    `json:"address"`
	City              string    `json:"city"`
	BuildingType      string    `json:"building_type"`
	BuildingTypeLabel string    `json:"building_type_label"`
	YearBuilt         int       `json:"year_built,omitempty"`
	TotalUnits        int       `json:"total_units"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ToBuildingResponse converts a domain building to a response
func ToBuildingResponse(b *property.Building) BuildingResponse {
	return BuildingResponse{
		ID:                b.ID,
		OwnerID:           b.OwnerID,
		Name:              b.Name,
		Address:           b.Address,
		City:              b.City,
		BuildingType:      b.BuildingType.String(),
		BuildingTypeLabel: b.BuildingType.Label(),
		YearBuilt:         b.YearBuilt,
		TotalUnits:        b.TotalUnits,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}

// UnitRequest is the body of create and update unit requests
type UnitRequest struct {
	BuildingID   uuid.UUID             `json:"building_id" binding:"required"`
	UnitNumber   string                `json:"unit_number" binding:"required,min=1,max=20"`
	FloorNumber  int                   `json:"floor_number"`
	UnitType     string                `json:"unit_type" binding:"omitempty,oneof=apartment office shop warehouse"`
	SizeSqm      decimal.Decimal       `json:"size_sqm"`
	Bedrooms     int                   `json:"bedrooms" binding:"min=0"`
	Bathrooms    int                   `json:"bathrooms" binding:"min=0"`
	YearlyRent   decimal.Decimal       `json:"yearly_rent"`
	PaymentTerms string                `json:"payment_terms" binding:"omitempty,payment_terms"`
	Features     property.UnitFeatures `json:"features"`
}

func (r UnitRequest) details() property.UnitDetails {
	return property.UnitDetails{
		BuildingID:   r.BuildingID,
		UnitNumber:   r.UnitNumber,
		FloorNumber:  r.FloorNumber,
		UnitType:     property.UnitType(r.UnitType),
		SizeSqm:      r.SizeSqm,
		Bedrooms:     r.Bedrooms,
		Bathrooms:    r.Bathrooms,
		YearlyRent:   r.YearlyRent,
		PaymentTerms: property.PaymentTerms(r.PaymentTerms),
		Features:     r.Features,
	}
}

// UpdateUnitStatusRequest changes a unit's status from the management screens
type UpdateUnitStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=vacant occupied maintenance"`
}

// UnitResponse represents a unit in API responses
type UnitResponse struct {
	ID                uuid.UUID             `json:"id"`
	BuildingID        uuid.UUID             `json:"building_id"`
	UnitNumber        string                `json:"unit_number"`
	FloorNumber       int                   `json:"floor_number"`
	UnitType          string                `json:"unit_type"`
	UnitTypeLabel     string                `json:"unit_type_label"`
	SizeSqm           decimal.Decimal       `json:"size_sqm"`
	Bedrooms          int                   `json:"bedrooms"`
	Bathrooms         int                   `json:"bathrooms"`
	YearlyRent        decimal.Decimal       `json:"yearly_rent"`
	PaymentTerms      string                `json:"payment_terms"`
	PaymentTermsLabel string                `json:"payment_terms_label"`
	Status            string                `json:"status"`
	StatusLabel       string                `json:"status_label"`
	Features          property.UnitFeatures `json:"features"`
	Listing           UnitListingResponse   `json:"listing"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

// ToUnitResponse converts a domain unit to a response
func ToUnitResponse(u *property.Unit) UnitResponse {
	return UnitResponse{
		ID:                u.ID,
		BuildingID:        u.BuildingID,
		UnitNumber:        u.UnitNumber,
		FloorNumber:       u.FloorNumber,
		UnitType:          u.UnitType.String(),
		UnitTypeLabel:     u.UnitType.Label(),
		SizeSqm:           u.SizeSqm,
		Bedrooms:          u.Bedrooms,
		Bathrooms:         u.Bathrooms,
		YearlyRent:        u.YearlyRent,
		PaymentTerms:      u.PaymentTerms.String(),
		PaymentTermsLabel: u.PaymentTerms.Label(),
		Status:            u.Status.String(),
		StatusLabel:       u.Status.Label(),
		Features:          u.Features,
		Listing:           toUnitListingResponse(u),
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

// UpdateListingRequest is the body of PATCH /units/:id/listing
type UpdateListingRequest struct {
	Listed         bool     `json:"listed"`
	Description    string   `json:"description" binding:"max=2000"`
	Amenities      []string `json:"amenities" binding:"omitempty,max=10,dive,amenity"`
	VirtualTourURL string   `json:"virtual_tour_url" binding:"omitempty,max=500,url"`
}

func (r UpdateListingRequest) details() property.ListingDetails {
	return property.ListingDetails{
		Listed:         r.Listed,
		Description:    r.Description,
		Amenities:      toAmenities(r.Amenities),
		VirtualTourURL: r.VirtualTourURL,
	}
}

func toAmenities(names []string) []property.Amenity {
	amenities := make([]property.Amenity, len(names))
	for i, n := range names {
		amenities[i] = property.Amenity(strings.ToLower(strings.TrimSpace(n)))
	}
	return amenities
}

// AmenityResponse is an amenity with its display label
type AmenityResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// UnitListingResponse is the marketplace block of a unit
type UnitListingResponse struct {
	Listed         bool              `json:"listed"`
	OnMarketplace  bool              `json:"on_marketplace"`
	Description    string            `json:"description"`
	Amenities      []AmenityResponse `json:"amenities"`
	VirtualTourURL string            `json:"virtual_tour_url,omitempty"`
	ListedAt       *time.Time        `json:"listed_at,omitempty"`
}

func toUnitListingResponse(u *property.Unit) UnitListingResponse {
	amenities := make([]AmenityResponse, len(u.Listing.Amenities))
	for i, a := range u.Listing.Amenities {
		amenities[i] = AmenityResponse{Value: a.String(), Label: a.Label()}
	}
	return UnitListingResponse{
		Listed:         u.Listing.Listed,
		OnMarketplace:  u.IsOnMarketplace(),
		Description:    u.Listing.Description,
		Amenities:      amenities,
		VirtualTourURL: u.Listing.VirtualTourURL,
		ListedAt:       u.Listing.ListedAt,
	}
}

// ListingQuery is the marketplace query string. Amenities may repeat or be
// comma separated and all of them must be present.
type ListingQuery struct {
	City      string   `form:"city" binding:"max=100"`
	UnitType  string   `form:"unit_type" binding:"omitempty,oneof=apartment office shop warehouse"`
	MinPrice  string   `form:"min_price"`
	MaxPrice  string   `form:"max_price"`
	MinSize   string   `form:"min_size"`
	MaxSize   string   `form:"max_size"`
	Bedrooms  *int     `form:"bedrooms" binding:"omitempty,min=0"`
	Bathrooms *int     `form:"bathrooms" binding:"omitempty,min=0"`
	Amenities []string `form:"amenities"`
}

func (q ListingQuery) filter() (property.ListingFilter, error) {
	f := property.ListingFilter{
		City:      strings.TrimSpace(q.City),
		UnitType:  property.UnitType(q.UnitType),
		Bedrooms:  q.Bedrooms,
		Bathrooms: q.Bathrooms,
	}
	var err error
	if f.MinPrice, err = parseBound(q.MinPrice, "min_price"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = parseBound(q.MaxPrice, "max_price"); err != nil {
		return f, err
	}
	if f.MinSize, err = parseBound(q.MinSize, "min_size"); err != nil {
		return f, err
	}
	if f.MaxSize, err = parseBound(q.MaxSize, "max_size"); err != nil {
		return f, err
	}
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return f, shared.NewValidationError("min_price must not exceed max_price", "min_price")
	}
	if f.MinSize != nil && f.MaxSize != nil && f.MinSize.GreaterThan(*f.MaxSize) {
		return f, shared.NewValidationError("min_size must not exceed max_size", "min_size")
	}

	for _, raw := range q.Amenities {
		for _, name := range strings.Split(raw, ",") {
			a := property.Amenity(strings.ToLower(strings.TrimSpace(name)))
			if a == "" {
				continue
			}
			if !a.IsValid() {
				return f, shared.NewValidationError("unknown amenity: "+string(a), "amenities")
			}
			if !slices.Contains(f.Amenities, a) {
				f.Amenities = append(f.Amenities, a)
			}
		}
	}
	return f, nil
}

func parseBound(raw, field string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return nil, shared.NewValidationError(field+" must be a non-negative number", field)
	}
	return &d, nil
}

// ListingResponse is a marketplace listing: a vacant unit with its building
type ListingResponse struct {
	UnitID          uuid.UUID             `json:"unit_id"`
	UnitNumber      string                `json:"unit_number"`
	FloorNumber     int                   `json:"floor_number"`
	UnitType        string                `json:"unit_type"`
	UnitTypeLabel   string                `json:"unit_type_label"`
	SizeSqm         decimal.Decimal       `json:"size_sqm"`
	Bedrooms        int                   `json:"bedrooms"`
	Bathrooms       int                   `json:"bathrooms"`
	YearlyRent      decimal.Decimal       `json:"yearly_rent"`
	PaymentTerms    string                `json:"payment_terms"`
	Features        property.UnitFeatures `json:"features"`
	Description     string                `json:"description"`
	Amenities       []AmenityResponse     `json:"amenities"`
	VirtualTourURL  string                `json:"virtual_tour_url,omitempty"`
	ListedAt        *time.Time            `json:"listed_at,omitempty"`
	BuildingName    string                `json:"building_name"`
	BuildingAddress string                `json:"building_address"`
	BuildingCity    string                `json:"building_city"`
}

// ToListingResponse converts a marketplace row to a response
func ToListingResponse(l *property.Listing) ListingResponse {
	listing := toUnitListingResponse(&l.Unit)
	return ListingResponse{
		UnitID:          l.Unit.ID,
		UnitNumber:      l.Unit.UnitNumber,
		FloorNumber:     l.Unit.FloorNumber,
		UnitType:        l.Unit.UnitType.String(),
		UnitTypeLabel:   l.Unit.UnitType.Label(),
		SizeSqm:         l.Unit.SizeSqm,
		Bedrooms:        l.Unit.Bedrooms,
		Bathrooms:       l.Unit.Bathrooms,
		YearlyRent:      l.Unit.YearlyRent,
		PaymentTerms:    l.Unit.PaymentTerms.String(),
		Features:        l.Unit.Features,
		Description:     listing.Description,
		Amenities:       listing.Amenities,
		VirtualTourURL:  listing.VirtualTourURL,
		ListedAt:        listing.ListedAt,
		BuildingName:    l.BuildingName,
		BuildingAddress: l.BuildingAddress,
		BuildingCity:    l.BuildingCity,
	}
}

// CityCountResponse is the number of listings in a city
type CityCountResponse struct {
	City  string `json:"city"`
	Count int64  `json:"count"`
}

// PriceRangeResponse bounds the yearly rent of the marketplace
type PriceRangeResponse struct {
	Min     decimal.Decimal `json:"min"`
	Max     decimal.Decimal `json:"max"`
	Average decimal.Decimal `json:"average"`
	Count   int64           `json:"count"`
}

func mapSlice[T, R any](items []T, fn func(*T) R) []R {
	out := make([]R, len(items))
	for i := range items {
		out[i] = fn(&items[i])
	}
	return out
}
