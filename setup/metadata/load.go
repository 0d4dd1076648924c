package metadata

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/a8m/envsubst"
	"github.com/spf13/viper"

	contractx "github.com/tanpawarit/ml-end-to-end/setup/contract"
)

const defaultFormat = "yaml"

// Load reads project metadata from path. ${VAR} references are expanded from
// the environment before decoding; the format follows the file extension.
func Load(path string) (contractx.Metadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return contractx.Metadata{}, fmt.Errorf("%w: %s", contractx.ErrMetadataMissing, path)
		}
		return contractx.Metadata{}, fmt.Errorf("read metadata: %w", err)
	}
	return Decode(raw, formatOf(path))
}

// Decode parses raw metadata in the given viper config format.
func Decode(raw []byte, format string) (contractx.Metadata, error) {
	expanded, err := envsubst.Bytes(raw)
	if err != nil {
		return contractx.Metadata{}, fmt.Errorf("expand metadata variables: %w", err)
	}

	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(bytes.NewReader(expanded)); err != nil {
		return contractx.Metadata{}, fmt.Errorf("parse %s metadata: %w", format, err)
	}

	var md contractx.Metadata
	if err := v.Unmarshal(&md); err != nil {
		return contractx.Metadata{}, fmt.Errorf("decode metadata: %w", err)
	}

	md.Name = strings.TrimSpace(md.Name)
	md.Version = strings.TrimSpace(md.Version)
	md.Author = strings.TrimSpace(md.Author)
	md.AuthorEmail = strings.TrimSpace(md.AuthorEmail)
	return md, nil
}

func formatOf(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "yml":
		return "yaml"
	case "yaml", "json", "toml":
		return ext
	default:
		return defaultFormat
	}
}
