package workspace

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"meshpreview/internal/logging"
)

func TestAcquireCreatesUniqueDirectories(t *testing.T) {
	base := t.TempDir()
	m := NewManager(base, logging.NewNop())

	first, err := m.Acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire first: %v", err)
	}
	second, err := m.Acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire second: %v", err)
	}

	if first.Root() == second.Root() {
		t.Fatalf("workspaces share a directory: %s", first.Root())
	}
	for _, ws := range []*Workspace{first, second} {
		if !strings.HasPrefix(filepath.Base(ws.Root()), dirPrefix) {
			t.Errorf("workspace %q missing prefix", ws.Root())
		}
		info, err := os.Stat(ws.Root())
		if err != nil || !info.IsDir() {
			t.Fatalf("workspace dir missing: %v", err)
		}
	}
}

func TestAcquireRequiresBaseDir(t *testing.T) {
	m := NewManager("  ", logging.NewNop())
	if _, err := m.Acquire(context.Background()); err == nil {
		t.Fatal("expected error for empty staging dir")
	}
}

func TestReleaseRemovesTree(t *testing.T) {
	m := NewManager(t.TempDir(), logging.NewNop())
	ws, err := m.Acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := os.WriteFile(ws.ModelPath("stl"), []byte("solid"), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}

	ws.Release()

	if _, err := os.Stat(ws.Root()); !os.IsNotExist(err) {
		t.Fatalf("workspace should be gone, stat err = %v", err)
	}
	// Releasing twice is harmless.
	ws.Release()
}

func TestModelPath(t *testing.T) {
	ws := &Workspace{root: "/tmp/preview-x", logger: logging.NewNop()}
	if got := ws.ModelPath("stl"); got != "/tmp/preview-x/a.stl" {
		t.Fatalf("ModelPath = %q", got)
	}
}

func TestFrameNamePaddingSorts(t *testing.T) {
	cases := []struct {
		index, total int
		want         string
	}{
		{0, 60, "a-00.png"},
		{7, 60, "a-07.png"},
		{59, 60, "a-59.png"},
		{0, 4, "a-00.png"},
		{3, 4, "a-03.png"},
		{99, 120, "a-099.png"},
		{119, 120, "a-119.png"},
	}
	for _, tc := range cases {
		if got := FrameName(tc.index, tc.total); got != tc.want {
			t.Errorf("FrameName(%d, %d) = %q, want %q", tc.index, tc.total, got, tc.want)
		}
	}

	// Lexical order must equal index order for a full frame set.
	names := make([]string, 0, 120)
	for i := 0; i < 120; i++ {
		names = append(names, FrameName(i, 120))
	}
	if !sort.StringsAreSorted(names) {
		t.Fatal("frame names are not lexically sorted")
	}
}

func TestNewAnimationPathIsUnique(t *testing.T) {
	ws := &Workspace{root: "/tmp/preview-x", logger: logging.NewNop()}
	first := ws.NewAnimationPath()
	second := ws.NewAnimationPath()
	if first == second {
		t.Fatalf("animation paths collide: %s", first)
	}
	for _, p := range []string{first, second} {
		if filepath.Dir(p) != ws.Root() || !strings.HasSuffix(p, ".gif") {
			t.Errorf("unexpected animation path %q", p)
		}
	}
}
