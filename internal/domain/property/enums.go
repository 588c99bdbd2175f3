package property

// PaymentTerms is the rent cadence configured on a unit.
// Stored values that are not one of the known terms are kept as-is;
// consumers decide how to interpret them.
type PaymentTerms string

const (
	PaymentTermsAnnual     PaymentTerms = "annual"
	PaymentTermsSemiAnnual PaymentTerms = "semi-annual"
	PaymentTermsQuarterly  PaymentTerms = "quarterly"
	PaymentTermsMonthly    PaymentTerms = "monthly"
)

var paymentTermsLabels = map[PaymentTerms]string{
	PaymentTermsAnnual:     "Annual",
	PaymentTermsSemiAnnual: "Semi-Annual",
	PaymentTermsQuarterly:  "Quarterly",
	PaymentTermsMonthly:    "Monthly",
}

// AllPaymentTerms returns the known payment terms in display order
func AllPaymentTerms() []PaymentTerms {
	return []PaymentTerms{PaymentTermsAnnual, PaymentTermsSemiAnnual, PaymentTermsQuarterly, PaymentTermsMonthly}
}

func (t PaymentTerms) String() string { return string(t) }

// Label returns the display label, or the raw value for unknown terms
func (t PaymentTerms) Label() string {
	if l, ok := paymentTermsLabels[t]; ok {
		return l
	}
	return string(t)
}

// IsKnown reports whether t is one of the four supported terms
func (t PaymentTerms) IsKnown() bool {
	_, ok := paymentTermsLabels[t]
	return ok
}

// UnitStatus represents the occupancy status of a unit
type UnitStatus string

const (
	UnitStatusVacant      UnitStatus = "vacant"
	UnitStatusOccupied    UnitStatus = "occupied"
	UnitStatusMaintenance UnitStatus = "maintenance"
)

var unitStatusLabels = map[UnitStatus]string{
	UnitStatusVacant:      "Vacant",
	UnitStatusOccupied:    "Occupied",
	UnitStatusMaintenance: "Under Maintenance",
}

// AllUnitStatuses returns every unit status
func AllUnitStatuses() []UnitStatus {
	return []UnitStatus{UnitStatusVacant, UnitStatusOccupied, UnitStatusMaintenance}
}

func (s UnitStatus) String() string { return string(s) }

// Label returns the display label
func (s UnitStatus) Label() string { return unitStatusLabels[s] }

// IsValid reports whether s is a known status
func (s UnitStatus) IsValid() bool {
	_, ok := unitStatusLabels[s]
	return ok
}

// UnitType is the kind of rentable space
type UnitType string

const (
	UnitTypeApartment UnitType = "apartment"
	UnitTypeOffice    UnitType = "office"
	UnitTypeShop      UnitType = "shop"
	UnitTypeWarehouse UnitType = "warehouse"
)

var unitTypeLabels = map[UnitType]string{
	UnitTypeApartment: "Apartment",
	UnitTypeOffice:    "Office",
	UnitTypeShop:      "Shop",
	UnitTypeWarehouse: "Warehouse",
}

// AllUnitTypes returns every unit type
func AllUnitTypes() []UnitType {
	return []UnitType{UnitTypeApartment, UnitTypeOffice, UnitTypeShop, UnitTypeWarehouse}
}

func (t UnitType) String() string { return string(t) }

// Label returns the display label
func (t UnitType) Label() string { return unitTypeLabels[t] }

// IsValid reports whether t is a known unit type
func (t UnitType) IsValid() bool {
	_, ok := unitTypeLabels[t]
	return ok
}

// BuildingType classifies a building's use
type BuildingType string

const (
	BuildingTypeResidential BuildingType = "residential"
	BuildingTypeCommercial  BuildingType = "commercial"
	BuildingTypeMixed       BuildingType = "mixed"
)

var buildingTypeLabels = map[BuildingType]string{
	BuildingTypeResidential: "Residential",
	BuildingTypeCommercial:  "Commercial",
	BuildingTypeMixed:       "Mixed Use",
}

// AllBuildingTypes returns every building type
func AllBuildingTypes() []BuildingType {
	return []BuildingType{BuildingTypeResidential, BuildingTypeCommercial, BuildingTypeMixed}
}

func (t BuildingType) String() string { return string(t) }

// Label returns the display label
func (t BuildingType) Label() string { return buildingTypeLabels[t] }

// IsValid reports whether t is a known building type
func (t BuildingType) IsValid() bool {
	_, ok := buildingTypeLabels[t]
	return ok
}
