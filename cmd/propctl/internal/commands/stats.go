package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"

	"github.com/propdesk/backend/internal/application/dashboard"
	"github.com/propdesk/backend/internal/infrastructure/persistence"
)

// StatsCmd prints the dashboard figures of an office
type StatsCmd struct {
	Office uuid.UUID `help:"Office to report on" required:""`
}

func (s *StatsCmd) Run(ctx context.Context, globals *Globals) error {
	db, err := globals.Database(ctx)
	if err != nil {
		return err
	}

	svc := dashboard.NewService(
		persistence.NewGormOwnerRepository(db.DB),
		persistence.NewGormBuildingRepository(db.DB),
		persistence.NewGormUnitRepository(db.DB),
		persistence.NewGormTenantRepository(db.DB),
		persistence.NewGormContractRepository(db.DB),
		persistence.NewGormPayableRepository(db.DB),
	)
	stats, err := svc.Stats(ctx, s.Office)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(globals.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "owners\t%d\n", stats.Owners)
	fmt.Fprintf(w, "buildings\t%d\n", stats.Buildings)
	fmt.Fprintf(w, "units\t%d\n", stats.Units)
	fmt.Fprintf(w, "vacant units\t%d\n", stats.VacantUnits)
	fmt.Fprintf(w, "vacancy rate\t%d%%\n", stats.VacancyRate)
	fmt.Fprintf(w, "tenants\t%d\n", stats.Tenants)
	fmt.Fprintf(w, "active contracts\t%d\n", stats.ActiveContracts)
	fmt.Fprintf(w, "pending receipts\t%s\n", stats.PendingReceipts.StringFixed(2))
	fmt.Fprintf(w, "overdue receipts\t%s\n", stats.OverdueReceipts.StringFixed(2))
	return w.Flush()
}
