package commands

import (
	"context"

	"github.com/loomhq/loom/internal/access"
	"github.com/loomhq/loom/internal/logger"
	"github.com/loomhq/loom/internal/server"
	"github.com/loomhq/loom/internal/store"
)

type ServerCmd struct {
	Listen string `help:"HTTP server listen address" default:"0.0.0.0:8080" env:"LOOM_LISTEN"`

	Access AccessFlags `embed:""`
	Store  StoreFlags  `embed:""`

	// ScopingEnabled is a staged-rollout kill switch for workspace scoping.
	// Leave it on everywhere except regression comparison runs.
	ScopingEnabled bool `help:"enforce workspace scoping on tenant-owned data" default:"true" env:"LOOM_SCOPING_ENABLED" negatable:""`
}

func (c *ServerCmd) Run(ctx context.Context, globals *Globals) error {
	log := logger.Setup(globals.Debug)

	backend, closeBackend, err := c.Store.openBackend(ctx)
	if err != nil {
		return err
	}
	defer closeBackend()

	client := store.NewClient(backend, store.ClientConfig{ScopingDisabled: !c.ScopingEnabled})
	asserter := access.NewAsserter(backend.Memberships(), c.Access.Config())

	if !c.ScopingEnabled {
		log.Warn().Msg("Workspace scoping is DISABLED; tenant isolation is not enforced")
	}

	srv := server.New(client, asserter)
	httpServer := configureHTTPServer(c.Listen, logger.Requests(log)(srv.Routes()))

	log.Info().
		Str("listen", c.Listen).
		Str("store", c.Store.StoreType).
		Str("env", c.Access.Env).
		Str("version", globals.Version).
		Msg("Starting API server")

	return httpServer.ListenAndServe()
}
