package discover

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func touch(t *testing.T, root, rel string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("package x\n"), 0o600); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func TestPackages(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	touch(t, root, "main.go")
	touch(t, root, "pkg/exception/exception.go")
	touch(t, root, "pkg/exception/exception_test.go")
	touch(t, root, "pkg/logger/logger.go")
	touch(t, root, "pkg/onlytests/x_test.go")
	touch(t, root, "pkg/notes/README.md")
	touch(t, root, "_examples/repo/main.go")
	touch(t, root, ".git/hooks/hook.go")
	touch(t, root, "setup/testdata/fixture.go")
	touch(t, root, "vendor/dep/dep.go")

	got, err := Packages(root)
	if err != nil {
		t.Fatalf("Packages() error = %v", err)
	}
	want := []string{".", "pkg/exception", "pkg/logger"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Packages() = %v, want %v", got, want)
	}
}

func TestPackagesMissingRoot(t *testing.T) {
	t.Parallel()

	if _, err := Packages(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("Packages() error = nil, want error for missing root")
	}
}
