package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	contractx "github.com/tanpawarit/ml-end-to-end/setup/contract"
)

// Load reads the requirements manifest at path.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", contractx.ErrManifestMissing, path)
		}
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	reqs, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return reqs, nil
}

// Parse returns one requirement per non-empty line, in file order. Comments
// and the editable-self line are dropped.
func Parse(r io.Reader) ([]string, error) {
	reqs := []string{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := normalize(scanner.Text())
		if line == "" || line == contractx.EditableSelf {
			continue
		}
		reqs = append(reqs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return reqs, nil
}

func normalize(line string) string {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "#") {
		return ""
	}
	if i := strings.Index(line, " #"); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	if strings.HasPrefix(line, "-e") {
		if strings.Join(strings.Fields(line), " ") == contractx.EditableSelf {
			return contractx.EditableSelf
		}
	}
	return line
}
