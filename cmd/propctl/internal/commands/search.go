package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"

	appsearch "github.com/propdesk/backend/internal/application/search"
	"github.com/propdesk/backend/internal/infrastructure/persistence"
)

// SearchCmd runs one type-ahead query against the database
type SearchCmd struct {
	Query  string    `arg:"" help:"Search text"`
	Office uuid.UUID `help:"Office to search in" required:""`
}

func (s *SearchCmd) Run(ctx context.Context, globals *Globals) error {
	cfg, err := globals.Config()
	if err != nil {
		return err
	}
	db, err := globals.Database(ctx)
	if err != nil {
		return err
	}

	agg := appsearch.NewAggregator(persistence.SearchSources(db.DB), cfg.Search)
	resp, err := agg.Search(ctx, s.Office, s.Query)
	if err != nil {
		return err
	}
	if len(resp.Results) == 0 {
		fmt.Fprintln(globals.Out, "no results")
		return nil
	}

	w := tabwriter.NewWriter(globals.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tTITLE\tSUBTITLE\tROUTE")
	for _, r := range resp.Results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Kind, r.Title, r.Subtitle, r.Route)
	}
	return w.Flush()
}
