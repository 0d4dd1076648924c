package contract

import "errors"

var (
	ErrManifestMissing = errors.New("requirements manifest not found")
	ErrMetadataMissing = errors.New("project metadata file not found")
	ErrValidation      = errors.New("validation failed")
	ErrNotRegistered   = errors.New("package is not registered")
)
