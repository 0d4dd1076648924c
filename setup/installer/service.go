package installer

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tanpawarit/ml-end-to-end/pkg/exception"
	contractx "github.com/tanpawarit/ml-end-to-end/setup/contract"
	"github.com/tanpawarit/ml-end-to-end/setup/discover"
	"github.com/tanpawarit/ml-end-to-end/setup/manifest"
	"github.com/tanpawarit/ml-end-to-end/setup/metadata"
	"github.com/tanpawarit/ml-end-to-end/setup/registry"
)

type Config struct {
	Root            string        `default:"."`
	Manifest        string        `default:"requirements.txt"`
	Metadata        string        `default:"project.yaml"`
	RegistryDSN     string        `split_words:"true"`
	RegistryTimeout time.Duration `split_words:"true" default:"10s"`
	DryRun          bool          `split_words:"true" default:"false"`
}

// Path resolves name against Root unless it is absolute.
func (c Config) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	root := strings.TrimSpace(c.Root)
	if root == "" {
		root = "."
	}
	return filepath.Join(root, name)
}

type Service struct {
	cfg   Config
	store registry.Store
}

func NewService(cfg Config, store registry.Store) (*Service, error) {
	if store == nil {
		return nil, errors.New("registry store is required")
	}
	if strings.TrimSpace(cfg.Manifest) == "" {
		cfg.Manifest = "requirements.txt"
	}
	if strings.TrimSpace(cfg.Metadata) == "" {
		cfg.Metadata = "project.yaml"
	}
	return &Service{cfg: cfg, store: store}, nil
}

// Resolve loads the metadata file and fills in packages and requirements.
func (s *Service) Resolve() (contractx.Metadata, error) {
	md, err := metadata.Load(s.cfg.Path(s.cfg.Metadata))
	if err != nil {
		return contractx.Metadata{}, exception.Wrap("load project metadata", err)
	}

	if len(md.Packages) == 0 {
		pkgs, err := discover.Packages(s.cfg.Path("."))
		if err != nil {
			return contractx.Metadata{}, exception.Wrap("discover packages", err)
		}
		md.Packages = pkgs
	}

	reqs, err := manifest.Load(s.cfg.Path(s.cfg.Manifest))
	if err != nil {
		return contractx.Metadata{}, exception.Wrap("read requirements manifest", err)
	}
	md.InstallRequires = reqs

	if err := md.Validate(); err != nil {
		return contractx.Metadata{}, exception.Wrap("validate project metadata", err)
	}

	return md, nil
}

func (s *Service) Run(ctx context.Context) (contractx.Registration, error) {
	md, err := s.Resolve()
	if err != nil {
		return contractx.Registration{}, err
	}

	log.Debug().
		Str("name", md.Name).
		Str("version", md.Version).
		Int("packages", len(md.Packages)).
		Int("requirements", len(md.InstallRequires)).
		Msg("registering package")

	reg, err := s.store.Register(ctx, md)
	if err != nil {
		return contractx.Registration{}, exception.Wrap("register package metadata", err)
	}
	return reg, nil
}
