package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	contractx "github.com/tanpawarit/ml-end-to-end/setup/contract"
)

type PostgresConfig struct {
	DSN     string        `envconfig:"DSN" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

type registrationModel struct {
	bun.BaseModel `bun:"table:package_registrations,alias:pr"`

	ID           uuid.UUID `bun:"id,pk,type:uuid"`
	Name         string    `bun:"name,notnull,unique:name_version"`
	Version      string    `bun:"version,notnull,unique:name_version"`
	Author       string    `bun:"author"`
	AuthorEmail  string    `bun:"author_email"`
	Packages     []string  `bun:"packages,array"`
	Requirements []string  `bun:"requirements,array"`
	RegisteredAt time.Time `bun:"registered_at,notnull"`
}

func toModel(md contractx.Metadata, now time.Time) *registrationModel {
	md = cloneMetadata(md)
	return &registrationModel{
		ID:           uuid.New(),
		Name:         md.Name,
		Version:      md.Version,
		Author:       md.Author,
		AuthorEmail:  md.AuthorEmail,
		Packages:     md.Packages,
		Requirements: md.InstallRequires,
		RegisteredAt: now,
	}
}

func (m *registrationModel) registration() contractx.Registration {
	return contractx.Registration{
		ID: m.ID,
		Metadata: contractx.Metadata{
			Name:            m.Name,
			Version:         m.Version,
			Author:          m.Author,
			AuthorEmail:     m.AuthorEmail,
			Packages:        append([]string(nil), m.Packages...),
			InstallRequires: append([]string(nil), m.Requirements...),
		},
		RegisteredAt: m.RegisteredAt,
	}
}

// PostgresStore persists registrations through bun.
type PostgresStore struct {
	db *bun.DB
}

func NewPostgresStore(cfg PostgresConfig) (*PostgresStore, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("registry dsn is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithTimeout(timeout),
	))
	return &PostgresStore{db: bun.NewDB(sqldb, pgdialect.New())}, nil
}

// Migrate creates the registrations table when it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*registrationModel)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create registrations table: %w", err)
	}
	return nil
}

// Register inserts md, or refreshes the existing row for the same name and
// version while keeping its id.
func (s *PostgresStore) Register(ctx context.Context, md contractx.Metadata) (contractx.Registration, error) {
	if err := checkKey(md.Name, md.Version); err != nil {
		return contractx.Registration{}, err
	}

	model := toModel(md, time.Now().UTC())
	_, err := s.db.NewInsert().
		Model(model).
		On("CONFLICT (name, version) DO UPDATE").
		Set("author = EXCLUDED.author").
		Set("author_email = EXCLUDED.author_email").
		Set("packages = EXCLUDED.packages").
		Set("requirements = EXCLUDED.requirements").
		Set("registered_at = EXCLUDED.registered_at").
		Returning("id, registered_at").
		Exec(ctx)
	if err != nil {
		return contractx.Registration{}, fmt.Errorf("register %s==%s: %w", md.Name, md.Version, err)
	}

	return model.registration(), nil
}

func (s *PostgresStore) Lookup(ctx context.Context, name, version string) (contractx.Registration, error) {
	if err := checkKey(name, version); err != nil {
		return contractx.Registration{}, err
	}

	var model registrationModel
	err := s.db.NewSelect().
		Model(&model).
		Where("name = ?", name).
		Where("version = ?", version).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return contractx.Registration{}, fmt.Errorf("%w: %s==%s", contractx.ErrNotRegistered, name, version)
		}
		return contractx.Registration{}, fmt.Errorf("lookup %s==%s: %w", name, version, err)
	}

	return model.registration(), nil
}

func (s *PostgresStore) List(ctx context.Context, name string) ([]contractx.Registration, error) {
	var models []registrationModel
	err := s.db.NewSelect().
		Model(&models).
		Where("name = ?", name).
		Order("version ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", name, err)
	}

	out := make([]contractx.Registration, 0, len(models))
	for i := range models {
		out = append(out, models[i].registration())
	}
	return out, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
