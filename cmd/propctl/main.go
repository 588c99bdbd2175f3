// Command propctl is the PropDesk operator CLI.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/propdesk/backend/cmd/propctl/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Seed     commands.SeedCmd   `cmd:"" help:"Load owners, buildings and units from a YAML fixture"`
		Search   commands.SearchCmd `cmd:"" help:"Run the global search for an office"`
		Stats    commands.StatsCmd  `cmd:"" help:"Print dashboard figures for an office"`
		Sweep    commands.SweepCmd  `cmd:"" help:"Expire ended leases and flag overdue payables once"`
		Token    commands.TokenCmd  `cmd:"" help:"Issue an access token for local testing"`
		LogLevel string             `help:"Log level (debug, info, warn, error)." default:"warn" enum:"debug,info,warn,error"`
		Version  kong.VersionFlag
	}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := kong.Parse(&cli,
		kong.Name("propctl"),
		kong.Description("PropDesk operator tooling."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	globals := commands.NewGlobals(cli.LogLevel, version)
	defer globals.Close()
	err := cmd.Run(globals)
	cmd.FatalIfErrorf(err)
}
