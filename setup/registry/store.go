package registry

import (
	"context"
	"errors"
	"strings"

	contractx "github.com/tanpawarit/ml-end-to-end/setup/contract"
)

var ErrInvalidKey = errors.New("package name and version are required")

// Store is the persistence contract used by the setup service.
type Store interface {
	Register(ctx context.Context, md contractx.Metadata) (contractx.Registration, error)
	Lookup(ctx context.Context, name, version string) (contractx.Registration, error)
	List(ctx context.Context, name string) ([]contractx.Registration, error)
}

func checkKey(name, version string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(version) == "" {
		return ErrInvalidKey
	}
	return nil
}

func cloneMetadata(md contractx.Metadata) contractx.Metadata {
	md.Packages = append([]string(nil), md.Packages...)
	md.InstallRequires = append([]string(nil), md.InstallRequires...)
	return md
}
