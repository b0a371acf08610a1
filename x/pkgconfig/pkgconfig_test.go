package pkgconfig

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"
)

// fakePkgConfig writes a shell script that answers for a single package.
func fakePkgConfig(t *testing.T, known, version, cflags, libs string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake pkg-config scripts need a unix shell")
	}
	path := filepath.Join(t.TempDir(), "pkg-config")
	script := `#!/bin/sh
query=$1
pkg=$2
if [ "$pkg" != "` + known + `" ]; then exit 1; fi
case "$query" in
--exists) exit 0 ;;
--modversion) echo "` + version + `" ;;
--cflags) echo "` + cflags + `" ;;
--libs) echo "` + libs + `" ;;
esac
`
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write fake pkg-config: %v", err)
	}
	return path
}

func TestQuery(t *testing.T) {
	tool := fakePkgConfig(t, "openblas", "0.3.21", "-I/usr/include/openblas", "-L/usr/lib -lopenblas")
	info, err := NewWith(tool).Query(context.Background(), "openblas")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if info == nil {
		t.Fatal("Query = nil, want info")
	}
	if info.Version != "0.3.21" {
		t.Errorf("Version = %q, want 0.3.21", info.Version)
	}
	if !slices.Equal(info.Cflags, []string{"-I/usr/include/openblas"}) {
		t.Errorf("Cflags = %v", info.Cflags)
	}
	if !slices.Equal(info.Libs, []string{"-L/usr/lib", "-lopenblas"}) {
		t.Errorf("Libs = %v", info.Libs)
	}
}

func TestQueryUnknownPackage(t *testing.T) {
	tool := fakePkgConfig(t, "openblas", "", "", "")
	info, err := NewWith(tool).Query(context.Background(), "lapacke")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if info != nil {
		t.Errorf("Query = %+v, want nil for an unknown package", info)
	}
}

func TestSplitFlags(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"  \n", nil},
		{"-L/usr/lib -lopenblas", []string{"-L/usr/lib", "-lopenblas"}},
		{" -I/a  -I/b ", []string{"-I/a", "-I/b"}},
	}
	for _, tt := range tests {
		if got := SplitFlags(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("SplitFlags(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
