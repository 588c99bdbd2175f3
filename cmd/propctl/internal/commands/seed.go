package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	appproperty "github.com/propdesk/backend/internal/application/property"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/propdesk/backend/internal/infrastructure/persistence"
)

// Fixture is the YAML layout read by seed
type Fixture struct {
	Owners []OwnerFixture `yaml:"owners"`
}

// OwnerFixture is one owner and the buildings it holds
type OwnerFixture struct {
	FullName   string            `yaml:"full_name"`
	NationalID string            `yaml:"national_id"`
	Phone      string            `yaml:"phone"`
	Email      string            `yaml:"email"`
	BankName   string            `yaml:"bank_name"`
	IBAN       string            `yaml:"iban"`
	Buildings  []BuildingFixture `yaml:"buildings"`
}

// BuildingFixture is one building and its units
type BuildingFixture struct {
	Name         string        `yaml:"name"`
	Address      string        `yaml:"address"`
	City         string        `yaml:"city"`
	BuildingType string        `yaml:"building_type"`
	YearBuilt    int           `yaml:"year_built"`
	Units        []UnitFixture `yaml:"units"`
}

// UnitFixture is one rentable unit. Rent is a decimal string.
type UnitFixture struct {
	UnitNumber   string `yaml:"unit_number"`
	FloorNumber  int    `yaml:"floor"`
	UnitType     string `yaml:"unit_type"`
	SizeSqm      string `yaml:"size_sqm"`
	Bedrooms     int    `yaml:"bedrooms"`
	Bathrooms    int    `yaml:"bathrooms"`
	YearlyRent   string `yaml:"yearly_rent"`
	PaymentTerms string `yaml:"payment_terms"`
}

// SeedReport counts the rows created by seed
type SeedReport struct {
	Owners    int
	Buildings int
	Units     int
}

// SeedCmd loads a fixture file into one office
type SeedCmd struct {
	File   string    `help:"YAML fixture file" required:"" type:"existingfile" short:"f"`
	Office uuid.UUID `help:"Office that owns the seeded rows" required:""`
}

func (s *SeedCmd) Run(ctx context.Context, globals *Globals) error {
	fixture, err := ReadFixture(s.File)
	if err != nil {
		return err
	}
	db, err := globals.Database(ctx)
	if err != nil {
		return err
	}

	report, err := Seed(ctx, db, s.Office, fixture)
	if err != nil {
		return err
	}
	globals.Logger.Info("Fixture loaded",
		zap.String("office_id", s.Office.String()),
		zap.Int("owners", report.Owners),
		zap.Int("buildings", report.Buildings),
		zap.Int("units", report.Units),
	)
	fmt.Fprintf(globals.Out, "seeded %d owners, %d buildings, %d units\n", report.Owners, report.Buildings, report.Units)
	return nil
}

// ReadFixture parses a fixture file
func ReadFixture(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()
	return DecodeFixture(f)
}

// DecodeFixture parses fixture YAML. Unknown keys are rejected.
func DecodeFixture(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var fixture Fixture
	if err := dec.Decode(&fixture); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("fixture is empty")
		}
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &fixture, nil
}

// Seed creates the fixture through the property services so that every
// domain rule applies to seeded rows. Creation stops at the first error.
func Seed(ctx context.Context, db *persistence.Database, officeID uuid.UUID, fixture *Fixture) (SeedReport, error) {
	owners := persistence.NewGormOwnerRepository(db.DB)
	buildings := persistence.NewGormBuildingRepository(db.DB)
	units := persistence.NewGormUnitRepository(db.DB)

	ownerService := appproperty.NewOwnerService(owners, buildings)
	buildingService := appproperty.NewBuildingService(buildings, owners, units)
	unitService := appproperty.NewUnitService(units, buildings)

	var report SeedReport
	for _, of := range fixture.Owners {
		owner, err := ownerService.Create(ctx, officeID, nil, appproperty.OwnerRequest{
			FullName:   of.FullName,
			NationalID: of.NationalID,
			Phone:      of.Phone,
			Email:      of.Email,
			BankName:   of.BankName,
			IBAN:       of.IBAN,
		})
		if err != nil {
			return report, fmt.Errorf("owner %q: %w", of.FullName, err)
		}
		report.Owners++

		for _, bf := range of.Buildings {
			building, err := buildingService.Create(ctx, officeID, nil, appproperty.BuildingRequest{
				OwnerID:      owner.ID,
				Name:         bf.Name,
				Address:      bf.Address,
				City:         bf.City,
				BuildingType: bf.BuildingType,
				YearBuilt:    bf.YearBuilt,
				TotalUnits:   len(bf.Units),
			})
			if err != nil {
				return report, fmt.Errorf("building %q: %w", bf.Name, err)
			}
			report.Buildings++

			for _, uf := range bf.Units {
				req, err := uf.request(building.ID)
				if err != nil {
					return report, fmt.Errorf("unit %q of %q: %w", uf.UnitNumber, bf.Name, err)
				}
				if _, err := unitService.Create(ctx, officeID, nil, req); err != nil {
					return report, fmt.Errorf("unit %q of %q: %w", uf.UnitNumber, bf.Name, err)
				}
				report.Units++
			}
		}
	}
	return report, nil
}

func (u UnitFixture) request(buildingID uuid.UUID) (appproperty.UnitRequest, error) {
	rent, err := parseDecimal(u.YearlyRent)
	if err != nil {
		return appproperty.UnitRequest{}, shared.NewValidationError("yearly_rent must be a decimal number", "yearly_rent")
	}
	size, err := parseDecimal(u.SizeSqm)
	if err != nil {
		return appproperty.UnitRequest{}, shared.NewValidationError("size_sqm must be a decimal number", "size_sqm")
	}
	return appproperty.UnitRequest{
		BuildingID:   buildingID,
		UnitNumber:   u.UnitNumber,
		FloorNumber:  u.FloorNumber,
		UnitType:     u.UnitType,
		SizeSqm:      size,
		Bedrooms:     u.Bedrooms,
		Bathrooms:    u.Bathrooms,
		YearlyRent:   rent,
		PaymentTerms: u.PaymentTerms,
	}, nil
}

func parseDecimal(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}
