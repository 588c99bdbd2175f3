// Package dashboard computes the office overview figures.
package dashboard

import (
	"context"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/leasing"
	"github.com/propdesk/backend/internal/domain/property"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Stats is the office overview
type Stats struct {
	Owners          int64           `json:"owners"`
	Buildings       int64           `json:"buildings"`
	Units           int64           `json:"units"`
	VacantUnits     int64           `json:"vacant_units"`
	Tenants         int64           `json:"tenants"`
	ActiveContracts int64           `json:"active_contracts"`
	VacancyRate     int64           `json:"vacancy_rate"`
	PendingReceipts decimal.Decimal `json:"pending_receipts"`
	OverdueReceipts decimal.Decimal `json:"overdue_receipts"`
}

// Service reads the dashboard figures
type Service struct {
	owners    property.OwnerRepository
	buildings property.BuildingRepository
	units     property.UnitRepository
	tenants   leasing.TenantRepository
	contracts leasing.ContractRepository
	payables  leasing.PayableRepository
}

// NewService creates a new dashboard Service
func NewService(
	owners property.OwnerRepository,
	buildings property.BuildingRepository,
	units property.UnitRepository,
	tenants leasing.TenantRepository,
	contracts leasing.ContractRepository,
	payables leasing.PayableRepository,
) *Service {
	return &Service{
		owners:    owners,
		buildings: buildings,
		units:     units,
		tenants:   tenants,
		contracts: contracts,
		payables:  payables,
	}
}

// Stats returns the figures of one office. The queries run concurrently.
func (s *Service) Stats(ctx context.Context, officeID uuid.UUID) (*Stats, error) {
	var st Stats
	all := shared.Filter{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		st.Owners, err = s.owners.CountForOffice(ctx, officeID, all)
		return
	})
	g.Go(func() (err error) {
		st.Buildings, err = s.buildings.CountForOffice(ctx, officeID, all)
		return
	})
	g.Go(func() (err error) {
		st.Units, err = s.units.CountForOffice(ctx, officeID, all)
		return
	})
	g.Go(func() (err error) {
		st.VacantUnits, err = s.units.CountByStatus(ctx, officeID, property.UnitStatusVacant)
		return
	})
	g.Go(func() (err error) {
		st.Tenants, err = s.tenants.CountForOffice(ctx, officeID, all)
		return
	})
	g.Go(func() (err error) {
		st.ActiveContracts, err = s.contracts.CountByStatus(ctx, officeID, leasing.ContractStatusActive)
		return
	})
	g.Go(func() (err error) {
		st.PendingReceipts, err = s.payables.SumOpenAmount(ctx, officeID, leasing.PayableTypeIncoming, leasing.PayableStatusPending)
		return
	})
	g.Go(func() (err error) {
		st.OverdueReceipts, err = s.payables.SumOpenAmount(ctx, officeID, leasing.PayableTypeIncoming, leasing.PayableStatusOverdue)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	st.VacancyRate = VacancyRate(st.VacantUnits, st.Units)
	return &st, nil
}

// VacancyRate returns the vacant share of units as a whole percentage, rounded
// half away from zero. An office without units has a rate of 0.
func VacancyRate(vacant, total int64) int64 {
	if total <= 0 {
		return 0
	}
	return decimal.NewFromInt(vacant).Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(total)).Round(0).IntPart()
}
