package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"meshpreview/internal/logging"
)

// dirPrefix names workspace directories so the stale sweep can tell them
// apart from unrelated content in the staging root.
const dirPrefix = "preview-"

// Manager allocates workspaces under a common staging root.
type Manager struct {
	base   string
	logger *slog.Logger
}

// NewManager constructs a workspace manager rooted at baseDir.
func NewManager(baseDir string, logger *slog.Logger) *Manager {
	return &Manager{
		base:   strings.TrimSpace(baseDir),
		logger: logging.NewComponentLogger(logger, "workspace"),
	}
}

// Acquire creates a fresh, uniquely named workspace directory. Failure to
// create it is fatal to the calling run and is not retried.
func (m *Manager) Acquire(ctx context.Context) (*Workspace, error) {
	if m.base == "" {
		return nil, fmt.Errorf("staging directory not configured")
	}
	if err := os.MkdirAll(m.base, 0o755); err != nil {
		return nil, fmt.Errorf("ensure staging root: %w", err)
	}
	root, err := os.MkdirTemp(m.base, dirPrefix)
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	logging.WithContext(ctx, m.logger).Debug("workspace acquired", logging.String("path", root))
	return &Workspace{root: root, logger: m.logger}, nil
}

// Workspace is an exclusively owned filesystem scope for one pipeline run.
type Workspace struct {
	root   string
	logger *slog.Logger
}

// Root returns the workspace directory path.
func (w *Workspace) Root() string { return w.root }

// ModelPath returns the canonical location for the downloaded model file.
// ext is the bare extension without a leading dot.
func (w *Workspace) ModelPath(ext string) string {
	return filepath.Join(w.root, "a."+ext)
}

// FrameName returns the deterministic, sortable filename for frame index i
// out of total frames.
func FrameName(index, total int) string {
	return fmt.Sprintf("a-%0*d.png", framePad(total), index)
}

// FramePath returns the on-disk location for frame index i out of total.
func (w *Workspace) FramePath(index, total int) string {
	return filepath.Join(w.root, FrameName(index, total))
}

// NewAnimationPath returns a collision-free output location for the encoded
// animation. Each call yields a distinct path.
func (w *Workspace) NewAnimationPath() string {
	return filepath.Join(w.root, uuid.NewString()+".gif")
}

// Release removes the workspace tree. Safe to call once per workspace;
// callers defer it so it runs on every exit path.
func (w *Workspace) Release() {
	if w == nil || w.root == "" {
		return
	}
	if err := os.RemoveAll(w.root); err != nil {
		w.logger.Warn("failed to remove workspace",
			logging.String("path", w.root),
			logging.Error(err),
		)
		return
	}
	w.logger.Debug("workspace released", logging.String("path", w.root))
}

// framePad picks enough zero padding for the frame count so lexical and
// numeric order agree; two digits minimum matches the encoder's expectations.
func framePad(total int) int {
	pad := len(fmt.Sprintf("%d", total-1))
	if pad < 2 {
		pad = 2
	}
	return pad
}
