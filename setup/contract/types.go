package contract

import (
	"time"

	"github.com/google/uuid"
)

// EditableSelf is the manifest line asking the installer to install the
// project itself in editable mode. It never reaches InstallRequires.
const EditableSelf = "-e ."

// Metadata mirrors the arguments of the package setup call.
type Metadata struct {
	Name            string   `mapstructure:"name" validate:"required"`
	Version         string   `mapstructure:"version" validate:"required"`
	Author          string   `mapstructure:"author"`
	AuthorEmail     string   `mapstructure:"author_email" validate:"omitempty,email"`
	Packages        []string `mapstructure:"packages" validate:"dive,required"`
	InstallRequires []string `mapstructure:"install_requires" validate:"dive,required,ne=-e ."`
}

type Registration struct {
	ID           uuid.UUID
	Metadata     Metadata
	RegisteredAt time.Time
}
