package commands

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/loomhq/loom/internal/access"
	"github.com/loomhq/loom/internal/store"
	"github.com/loomhq/loom/internal/store/memory"
	"github.com/loomhq/loom/internal/store/postgres"
)

type Globals struct {
	Debug   bool
	Version string
}

// AccessFlags gate the development login bypass. All three conditions must
// line up for the bypass to open; production-lock wins over everything.
type AccessFlags struct {
	Env            string `help:"deployment environment" default:"development" env:"LOOM_ENV" enum:"development,preview,production"`
	AllowDevLogin  bool   `help:"allow the development login bypass (non-production only)" default:"false" env:"LOOM_ALLOW_DEV_LOGIN"`
	ProductionLock bool   `help:"hard-disable the development login bypass" default:"false" env:"LOOM_PRODUCTION_LOCK"`
}

func (f AccessFlags) Config() access.Config {
	return access.Config{
		Env:            f.Env,
		AllowDevLogin:  f.AllowDevLogin,
		ProductionLock: f.ProductionLock,
	}
}

// StoreFlags select and configure the storage backend.
type StoreFlags struct {
	StoreType     string             `help:"store type (memory or postgres)" default:"memory" env:"LOOM_STORE_TYPE" enum:"memory,postgres"`
	PostgresStore PostgresStoreFlags `embed:"" prefix:"postgres-"`
}

type PostgresStoreFlags struct {
	ConnString string `help:"PostgreSQL connection string" env:"POSTGRES_CONNECTION_STRING"`

	// Connection Pool Configuration
	MaxConns        int32 `help:"maximum number of connections in pool" default:"20"`
	MinConns        int32 `help:"minimum number of connections in pool" default:"5"`
	MaxConnLifetime int32 `help:"maximum connection lifetime in seconds" default:"3600"`
	MaxConnIdleTime int32 `help:"maximum connection idle time in seconds" default:"1800"`

	AutoMigrate bool `help:"run database migrations on startup" default:"false" env:"LOOM_POSTGRES_AUTO_MIGRATE"`
}

func (f *PostgresStoreFlags) Validate() error {
	if f.ConnString == "" {
		return errors.New("PostgreSQL connection string is required (--postgres-conn-string or POSTGRES_CONNECTION_STRING)")
	}
	return nil
}

func (f *PostgresStoreFlags) Config() *postgres.Config {
	return &postgres.Config{
		Pool: postgres.PoolConfig{
			ConnString:      f.ConnString,
			MaxConns:        f.MaxConns,
			MinConns:        f.MinConns,
			MaxConnLifetime: f.MaxConnLifetime,
			MaxConnIdleTime: f.MaxConnIdleTime,
		},
		AutoMigrate: f.AutoMigrate,
	}
}

// openBackend builds the selected store backend. The returned close func is
// a no-op for the memory backend.
func (f *StoreFlags) openBackend(ctx context.Context) (store.Backend, func(), error) {
	switch f.StoreType {
	case "postgres":
		if err := f.PostgresStore.Validate(); err != nil {
			return nil, nil, err
		}
		backend, err := postgres.NewBackend(ctx, f.PostgresStore.Config())
		if err != nil {
			return nil, nil, err
		}
		return backend, backend.Close, nil
	default:
		return memory.NewBackend(), func() {}, nil
	}
}

func configureHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Minute,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       5 * time.Minute,
		MaxHeaderBytes:    8 * 1024, // 8KiB
	}
}
