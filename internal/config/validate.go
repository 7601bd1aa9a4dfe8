package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateWorkspace(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		return errors.New("paths.staging_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateTools() error {
	if c.Tools.MeshThumbnail == "" {
		return errors.New("tools.mesh_thumbnail must be set")
	}
	if c.Tools.Gifski == "" {
		return errors.New("tools.gifski must be set")
	}
	return nil
}

func (c *Config) validateRender() error {
	if c.Render.FrameCount <= 0 {
		return errors.New("render.frame_count must be positive")
	}
	if c.Render.FrameRate <= 0 {
		return errors.New("render.frame_rate must be positive")
	}
	if c.Render.TiltDegrees < -90 || c.Render.TiltDegrees > 90 {
		return errors.New("render.tilt_degrees must be between -90 and 90")
	}
	if c.Render.InverseZoom <= 0 {
		return errors.New("render.inverse_zoom must be positive")
	}
	if c.Render.Concurrency < 1 {
		return errors.New("render.concurrency must be >= 1")
	}
	if len(c.Render.Background) != 6 {
		return fmt.Errorf("render.background must be a 6-digit hex color, got %q", c.Render.Background)
	}
	for _, r := range c.Render.Background {
		if !isHexDigit(r) {
			return fmt.Errorf("render.background must be a 6-digit hex color, got %q", c.Render.Background)
		}
	}
	return nil
}

func (c *Config) validateWorkspace() error {
	if c.Workspace.StaleMaxAgeHours <= 0 {
		return errors.New("workspace.stale_max_age_hours must be positive")
	}
	return nil
}

func isHexDigit(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'a' && r <= 'f':
		return true
	case r >= 'A' && r <= 'F':
		return true
	default:
		return false
	}
}
