package commands

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	appleasing "github.com/propdesk/backend/internal/application/leasing"
	"github.com/propdesk/backend/internal/infrastructure/persistence"
)

// SweepCmd runs the lease sweep once, outside the server schedule
type SweepCmd struct {
	At        time.Time `help:"Reference time in RFC 3339 (default now)" format:"2006-01-02T15:04:05Z07:00"`
	BatchSize int       `help:"Rows per batch (default from configuration)"`
}

func (s *SweepCmd) Run(ctx context.Context, globals *Globals) error {
	cfg, err := globals.Config()
	if err != nil {
		return err
	}
	db, err := globals.Database(ctx)
	if err != nil {
		return err
	}

	batch := s.BatchSize
	if batch <= 0 {
		batch = cfg.Scheduler.BatchSize
	}
	now := s.At
	if now.IsZero() {
		now = time.Now()
	}

	svc := appleasing.NewSweepService(
		persistence.NewGormTransactionScope(db.DB),
		persistence.NewGormContractRepository(db.DB),
		persistence.NewGormPayableRepository(db.DB),
		batch,
	)
	report, err := svc.Sweep(ctx, now.UTC())
	if err != nil {
		return err
	}
	globals.Logger.Info("Lease sweep finished",
		zap.Int("expired_contracts", report.ExpiredContracts),
		zap.Int("overdue_payables", report.OverduePayables),
	)
	fmt.Fprintf(globals.Out, "expired %d contracts, flagged %d payables overdue\n", report.ExpiredContracts, report.OverduePayables)
	return nil
}
