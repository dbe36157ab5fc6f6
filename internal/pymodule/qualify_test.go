package pymodule

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeTree creates a fixture project: a two-level package plus a
// standalone module outside any package.
//
//	root/
//	  pkg/__init__.py
//	  pkg/base.py
//	  pkg/sub/__init__.py
//	  pkg/sub/deep.py
//	  standalone.py
func writeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	files := []string{
		"pkg/__init__.py",
		"pkg/base.py",
		"pkg/sub/__init__.py",
		"pkg/sub/deep.py",
		"standalone.py",
	}
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create fixture dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(""), 0644); err != nil {
			t.Fatalf("failed to create fixture file: %v", err)
		}
	}
	return root
}

func TestToModule(t *testing.T) {
	root := writeTree(t)

	tests := []struct {
		path string
		want string
	}{
		{"pkg/__init__.py", "pkg"},
		{"pkg/base.py", "pkg.base"},
		{"pkg/sub/__init__.py", "pkg.sub"},
		{"pkg/sub/deep.py", "pkg.sub.deep"},
		{"pkg/sub", "pkg.sub"},
		{"standalone.py", "standalone"},
	}

	for _, tt := range tests {
		got := ToModule(filepath.Join(root, filepath.FromSlash(tt.path)))
		if got != tt.want {
			t.Errorf("ToModule(%s) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestToModule_OutsidePackageUsesFinalComponent(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "tools", "runner.py")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}

	if got := ToModule(path); got != "runner" {
		t.Errorf("ToModule outside package = %q, want %q", got, "runner")
	}
}

func TestPackageParentPath(t *testing.T) {
	root := writeTree(t)

	got, err := PackageParentPath(filepath.Join(root, "pkg", "sub", "deep.py"))
	if err != nil {
		t.Fatalf("PackageParentPath failed: %v", err)
	}
	if got != root {
		t.Errorf("PackageParentPath = %q, want project root %q", got, root)
	}
}

func TestPackageParentPath_OutsidePackage(t *testing.T) {
	root := writeTree(t)
	path := filepath.Join(root, "standalone.py")

	got, err := PackageParentPath(path)
	if err != nil {
		t.Fatalf("PackageParentPath failed: %v", err)
	}
	if got != root {
		t.Errorf("PackageParentPath = %q, want file's own dir %q", got, root)
	}
}

func TestPackageParentPath_RootIsPackage(t *testing.T) {
	root := writeTree(t)
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(root); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	t.Cleanup(func() { os.Chdir(oldwd) })

	_, err = PackageParentPath(filepath.Join("pkg", "base.py"))
	if !errors.Is(err, ErrRootIsPackage) {
		t.Errorf("expected ErrRootIsPackage, got %v", err)
	}
}

func TestRebuildSourceModule(t *testing.T) {
	root := writeTree(t)
	deep := filepath.Join(root, "pkg", "sub", "deep.py")

	tests := []struct {
		name   string
		module string
		level  int
		want   string
	}{
		{"same package", "other", 1, "pkg.sub.other"},
		{"parent package", "base", 2, "pkg.base"},
		{"bare dot", "", 1, "pkg.sub"},
		{"bare double dot", "", 2, "pkg"},
		{"absolute", "os.path", 0, "os.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RebuildSourceModule(tt.module, tt.level, deep)
			if err != nil {
				t.Fatalf("RebuildSourceModule failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("RebuildSourceModule = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRebuildSourceModule_LevelZeroRequiresName(t *testing.T) {
	if _, err := RebuildSourceModule("", 0, "whatever.py"); err == nil {
		t.Error("expected error for level 0 without module name")
	}
}
