package gifski

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

// Encoder defines the behaviour required by the encoding stage.
type Encoder interface {
	Encode(ctx context.Context, req EncodeRequest) error
}

// EncodeRequest describes one animation to assemble.
type EncodeRequest struct {
	// WorkDir is the directory the encoder runs in; frame paths are passed
	// relative to it to keep the command line short.
	WorkDir    string
	FramePaths []string
	FrameRate  float64
	OutputPath string
}

// Encode failure causes.
var (
	ErrEncodeFailed = errors.New("encoder failed")
	ErrEmptyOutput  = errors.New("animation not written")
)

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

// Client wraps gifski CLI interactions.
type Client struct {
	binary string
	runner toolexec.Runner
}

// New constructs a gifski client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("gifski binary required")
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

// Encode invokes gifski once over the ordered frame files.
func (c *Client) Encode(ctx context.Context, req EncodeRequest) error {
	if len(req.FramePaths) == 0 {
		return errors.New("at least one frame required")
	}
	if req.OutputPath == "" {
		return errors.New("output path required")
	}
	if req.FrameRate <= 0 {
		return errors.New("frame rate must be positive")
	}

	args := []string{
		"-o", req.OutputPath,
		"--fps", strconv.FormatFloat(req.FrameRate, 'f', -1, 64),
	}
	for _, frame := range req.FramePaths {
		args = append(args, filepath.Base(frame))
	}

	tail := toolexec.NewTail(5)
	err := c.runner.Run(ctx, toolexec.Command{
		Binary:   c.binary,
		Args:     args,
		Dir:      req.WorkDir,
		OnOutput: tail.Append,
	})
	if err != nil {
		if detail := tail.String(); detail != "" {
			return fmt.Errorf("%w: %s (%v)", ErrEncodeFailed, detail, err)
		}
		return fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}

	info, err := os.Stat(req.OutputPath)
	if err != nil || info.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyOutput, filepath.Base(req.OutputPath))
	}
	return nil
}
