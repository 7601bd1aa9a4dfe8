package meshthumb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"meshpreview/internal/services/toolexec"
)

// Renderer defines the behaviour required by the frame rendering stage.
type Renderer interface {
	RenderFrame(ctx context.Context, req FrameRequest) error
}

// FrameRequest describes one still image to produce.
type FrameRequest struct {
	ModelPath   string
	OutputPath  string
	YawDegrees  float64
	TiltDegrees float64
	InverseZoom float64
	// Background is the render background colour as six hex digits.
	Background string
}

// Render failure causes, kept distinct for diagnostics.
var (
	ErrUnsupportedFormat = errors.New("unsupported model format")
	ErrRenderFailed      = errors.New("renderer failed")
	ErrFrameWrite        = errors.New("frame not written")
)

// supportedExtensions lists the model formats mesh-thumbnail can parse,
// keyed by lowercase extension without the dot.
var supportedExtensions = map[string]struct{}{
	"stl":   {},
	"obj":   {},
	"3mf":   {},
	"gcode": {},
}

// Supported reports whether the file extension names a renderable format.
// The check is case-insensitive.
func Supported(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	_, ok := supportedExtensions[ext]
	return ok
}

// Option configures the client.
type Option func(*Client)

// WithRunner injects a custom process runner (primarily for tests).
func WithRunner(runner toolexec.Runner) Option {
	return func(c *Client) {
		if runner != nil {
			c.runner = runner
		}
	}
}

// Client wraps mesh-thumbnail CLI interactions.
type Client struct {
	binary string
	runner toolexec.Runner
}

// New constructs a mesh-thumbnail client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("mesh-thumbnail binary required")
	}
	client := &Client{
		binary: binary,
		runner: toolexec.ProcessRunner{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// RenderFrame invokes the renderer for a single camera angle.
func (c *Client) RenderFrame(ctx context.Context, req FrameRequest) error {
	if req.ModelPath == "" || req.OutputPath == "" {
		return errors.New("model and output paths required")
	}
	if !Supported(req.ModelPath) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(req.ModelPath))
	}

	args := []string{
		"--output", req.OutputPath,
		"--rotatey", formatDegrees(req.YawDegrees),
		"--rotatex", formatDegrees(req.TiltDegrees),
	}
	if req.InverseZoom > 0 {
		args = append(args, "--inverse-zoom", strconv.FormatFloat(req.InverseZoom, 'f', -1, 64))
	}
	if req.Background != "" {
		args = append(args, "--color", req.Background)
	}
	args = append(args, req.ModelPath)

	tail := toolexec.NewTail(5)
	err := c.runner.Run(ctx, toolexec.Command{
		Binary:   c.binary,
		Args:     args,
		Dir:      filepath.Dir(req.OutputPath),
		OnOutput: tail.Append,
	})
	if err != nil {
		if detail := tail.String(); detail != "" {
			return fmt.Errorf("%w: %s (%v)", ErrRenderFailed, detail, err)
		}
		return fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	info, err := os.Stat(req.OutputPath)
	if err != nil || info.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrFrameWrite, filepath.Base(req.OutputPath))
	}
	return nil
}

func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
