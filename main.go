package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"

	configx "github.com/tanpawarit/ml-end-to-end/pkg/config"
	"github.com/tanpawarit/ml-end-to-end/pkg/exception"
	logx "github.com/tanpawarit/ml-end-to-end/pkg/logger"
	_ "github.com/tanpawarit/ml-end-to-end/pkg/logger/autoload"
	"github.com/tanpawarit/ml-end-to-end/setup/installer"
	"github.com/tanpawarit/ml-end-to-end/setup/registry"
)

func main() {
	defer logx.Close()

	cfg := configx.MustNew[installer.Config]("SETUP")

	store, closeStore, err := openStore(*cfg)
	if err != nil {
		logx.Error(err)
		os.Exit(1)
	}
	defer closeStore()

	svc, err := installer.NewService(*cfg, store)
	if err != nil {
		logx.Error(exception.Wrap("build setup service", err))
		os.Exit(1)
	}

	reg, err := svc.Run(context.Background())
	if err != nil {
		logx.Error(err)
		closeStore()
		os.Exit(1)
	}

	log.Info().
		Str("id", reg.ID.String()).
		Str("name", reg.Metadata.Name).
		Str("version", reg.Metadata.Version).
		Strs("packages", reg.Metadata.Packages).
		Strs("install_requires", reg.Metadata.InstallRequires).
		Bool("dry_run", cfg.DryRun || cfg.RegistryDSN == "").
		Msg("package registered")
}

func openStore(cfg installer.Config) (registry.Store, func(), error) {
	if cfg.DryRun || cfg.RegistryDSN == "" {
		return registry.NewMemoryStore(), func() {}, nil
	}

	store, err := registry.NewPostgresStore(registry.PostgresConfig{
		DSN:     cfg.RegistryDSN,
		Timeout: cfg.RegistryTimeout,
	})
	if err != nil {
		return nil, nil, exception.Wrap("open package registry", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RegistryTimeout)
	defer cancel()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, nil, exception.Wrap("migrate package registry", err)
	}

	return store, func() { _ = store.Close() }, nil
}
