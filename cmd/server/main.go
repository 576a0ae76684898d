package main

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/loomhq/loom/cmd/server/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Debug   bool `help:"Enable debug mode."`
		Version kong.VersionFlag
		Server  commands.ServerCmd  `cmd:"" help:"Start the API server"`
		Migrate commands.MigrateCmd `cmd:"" help:"Run database migrations"`
		Sweep   commands.SweepCmd   `cmd:"" help:"Run the activity retention sweep once"`
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
