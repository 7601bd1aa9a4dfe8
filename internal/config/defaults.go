package config

const (
	defaultStagingDir       = "~/.local/share/meshpreview/staging"
	defaultLogDir           = "~/.local/share/meshpreview/logs"
	defaultMeshThumbnail    = "mesh-thumbnail"
	defaultGifski           = "gifski"
	defaultFrameCount       = 60
	defaultFrameRate        = 12.0
	defaultTiltDegrees      = 35.0
	defaultInverseZoom      = 1.25
	defaultBackground       = "FFFFFF"
	defaultConcurrency      = 2
	defaultStaleMaxAgeHours = 6
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
		},
		Tools: Tools{
			MeshThumbnail: defaultMeshThumbnail,
			Gifski:        defaultGifski,
		},
		Render: Render{
			FrameCount:  defaultFrameCount,
			FrameRate:   defaultFrameRate,
			TiltDegrees: defaultTiltDegrees,
			InverseZoom: defaultInverseZoom,
			Background:  defaultBackground,
			Concurrency: defaultConcurrency,
		},
		Workspace: Workspace{
			StaleMaxAgeHours: defaultStaleMaxAgeHours,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
