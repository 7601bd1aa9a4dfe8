package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"meshpreview/internal/logging"
	"meshpreview/internal/services"
	"meshpreview/internal/services/gifski"
	"meshpreview/internal/services/meshthumb"
	"meshpreview/internal/workspace"
)

// Settings holds the immutable render parameters for every run.
type Settings struct {
	FrameCount  int
	FrameRate   float64
	TiltDegrees float64
	InverseZoom float64
	Background  string
}

// Journal records run lifecycles for later inspection. Implementations must
// tolerate concurrent calls.
type Journal interface {
	Begin(ctx context.Context, filename, display string) (int64, error)
	Finish(ctx context.Context, id int64, status, errMessage string, frames int, duration time.Duration) error
}

// Pipeline executes preview runs.
type Pipeline struct {
	workspaces *workspace.Manager
	renderer   meshthumb.Renderer
	encoder    gifski.Encoder
	journal    Journal
	settings   Settings
	logger     *slog.Logger
}

// New constructs a pipeline. journal may be nil when run history is not
// wanted.
func New(workspaces *workspace.Manager, renderer meshthumb.Renderer, encoder gifski.Encoder, journal Journal, settings Settings, logger *slog.Logger) (*Pipeline, error) {
	if workspaces == nil {
		return nil, errors.New("workspace manager required")
	}
	if renderer == nil {
		return nil, errors.New("renderer required")
	}
	if encoder == nil {
		return nil, errors.New("encoder required")
	}
	if settings.FrameCount <= 0 {
		return nil, errors.New("frame count must be positive")
	}
	if settings.FrameRate <= 0 {
		return nil, errors.New("frame rate must be positive")
	}
	return &Pipeline{
		workspaces: workspaces,
		renderer:   renderer,
		encoder:    encoder,
		journal:    journal,
		settings:   settings,
		logger:     logging.NewComponentLogger(logger, "pipeline"),
	}, nil
}

// Run drives one attachment through every stage and returns the finished
// artifact. The workspace is removed before Run returns, on success and on
// failure alike.
func (p *Pipeline) Run(ctx context.Context, att Attachment) (*Artifact, error) {
	if !att.Eligible() {
		return nil, services.Wrap(services.ErrAcquisition, "acquire", "filter", fmt.Sprintf("unsupported attachment %q", att.Filename), meshthumb.ErrUnsupportedFormat)
	}
	if att.Source == nil {
		return nil, services.Wrap(services.ErrAcquisition, "acquire", "filter", "attachment has no source", nil)
	}

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	ctx = services.WithAttachment(ctx, att.Filename)
	logger := logging.WithContext(ctx, p.logger)

	start := time.Now()
	journalID := p.begin(ctx, att)

	logger.Info("run started",
		logging.Int("frame_count", p.settings.FrameCount),
		logging.Float64("frame_rate", p.settings.FrameRate),
	)

	artifact, frames, err := p.execute(ctx, att)
	duration := time.Since(start)

	if err != nil {
		p.finish(ctx, journalID, StatusFailed, err, frames, duration)
		logger.Error("run failed",
			logging.Error(err),
			logging.Duration("duration", duration),
		)
		return nil, err
	}

	p.finish(ctx, journalID, StatusDone, nil, frames, duration)
	logger.Info("run completed",
		logging.String("artifact", artifact.Name),
		logging.Int("bytes", len(artifact.Data)),
		logging.Duration("duration", duration),
	)
	return artifact, nil
}

// execute performs the stage sequence inside a fresh workspace.
func (p *Pipeline) execute(ctx context.Context, att Attachment) (*Artifact, int, error) {
	ws, err := p.workspaces.Acquire(ctx)
	if err != nil {
		return nil, 0, services.Wrap(services.ErrAcquisition, "acquire", "workspace", "creating workspace", err)
	}
	defer ws.Release()

	modelPath, err := p.acquire(ctx, att, ws)
	if err != nil {
		return nil, 0, err
	}

	frames, err := p.render(ctx, modelPath, ws)
	if err != nil {
		return nil, 0, err
	}

	animationPath, err := p.encode(ctx, frames, ws)
	if err != nil {
		return nil, len(frames), err
	}

	artifact, err := p.packageArtifact(att, animationPath)
	if err != nil {
		return nil, len(frames), err
	}
	return artifact, len(frames), nil
}

// acquire materialises the attachment bytes at the workspace model path.
func (p *Pipeline) acquire(ctx context.Context, att Attachment, ws *workspace.Workspace) (string, error) {
	ctx = services.WithStage(ctx, "acquire")

	reader, err := att.Source.Open(ctx)
	if err != nil {
		return "", services.Wrap(services.ErrAcquisition, "acquire", "open", "opening attachment source", err)
	}
	defer reader.Close()

	modelPath := ws.ModelPath(att.Extension())
	file, err := os.Create(modelPath)
	if err != nil {
		return "", services.Wrap(services.ErrAcquisition, "acquire", "create", "creating model file", err)
	}

	written, err := io.Copy(file, reader)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", services.Wrap(services.ErrAcquisition, "acquire", "download", "writing model file", err)
	}
	if written == 0 {
		return "", services.Wrap(services.ErrAcquisition, "acquire", "download", "attachment is empty", nil)
	}

	logging.WithContext(ctx, p.logger).Debug("model acquired",
		logging.String("path", modelPath),
		logging.Int64("bytes", written),
	)
	return modelPath, nil
}

// render produces one frame per evenly spaced yaw angle. Any single frame
// failure aborts the render; partial frame sets are never encoded.
func (p *Pipeline) render(ctx context.Context, modelPath string, ws *workspace.Workspace) ([]string, error) {
	ctx = services.WithStage(ctx, "render")
	total := p.settings.FrameCount
	frames := make([]string, 0, total)

	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, services.Wrap(services.ErrRender, "render", "frame", fmt.Sprintf("render cancelled at frame %d", i), err)
		}
		yaw := float64(i) * 360.0 / float64(total)
		framePath := ws.FramePath(i, total)
		req := meshthumb.FrameRequest{
			ModelPath:   modelPath,
			OutputPath:  framePath,
			YawDegrees:  yaw,
			TiltDegrees: p.settings.TiltDegrees,
			InverseZoom: p.settings.InverseZoom,
			Background:  p.settings.Background,
		}
		if err := p.renderer.RenderFrame(ctx, req); err != nil {
			return nil, services.Wrap(services.ErrRender, "render", "frame", fmt.Sprintf("rendering frame %d of %d", i, total), err)
		}
		frames = append(frames, framePath)
	}

	logging.WithContext(ctx, p.logger).Debug("frames rendered", logging.Int("frames", total))
	return frames, nil
}

// encode assembles the ordered frames into the animation file.
func (p *Pipeline) encode(ctx context.Context, frames []string, ws *workspace.Workspace) (string, error) {
	ctx = services.WithStage(ctx, "encode")

	animationPath := ws.NewAnimationPath()
	req := gifski.EncodeRequest{
		WorkDir:    ws.Root(),
		FramePaths: frames,
		FrameRate:  p.settings.FrameRate,
		OutputPath: animationPath,
	}
	if err := p.encoder.Encode(ctx, req); err != nil {
		return "", services.Wrap(services.ErrEncode, "encode", "gifski", "encoding animation", err)
	}

	logging.WithContext(ctx, p.logger).Debug("animation encoded", logging.String("path", animationPath))
	return animationPath, nil
}

// packageArtifact loads the animation into memory under its delivery name.
func (p *Pipeline) packageArtifact(att Attachment, animationPath string) (*Artifact, error) {
	data, err := os.ReadFile(animationPath)
	if err != nil {
		return nil, services.Wrap(services.ErrPackaging, "package", "read", "reading animation", err)
	}
	if len(data) == 0 {
		return nil, services.Wrap(services.ErrPackaging, "package", "read", "animation is empty", nil)
	}
	return &Artifact{Name: att.DisplayName(), Data: data}, nil
}

func (p *Pipeline) begin(ctx context.Context, att Attachment) int64 {
	if p.journal == nil {
		return 0
	}
	id, err := p.journal.Begin(ctx, att.Filename, att.DisplayName())
	if err != nil {
		logging.WithContext(ctx, p.logger).Warn("journal begin failed", logging.Error(err))
		return 0
	}
	return id
}

func (p *Pipeline) finish(ctx context.Context, journalID int64, status Status, runErr error, frames int, duration time.Duration) {
	if p.journal == nil || journalID == 0 {
		return
	}
	message := ""
	if runErr != nil {
		message = runErr.Error()
	}
	if err := p.journal.Finish(ctx, journalID, string(status), message, frames, duration); err != nil {
		logging.WithContext(ctx, p.logger).Warn("journal finish failed", logging.Error(err))
	}
}
