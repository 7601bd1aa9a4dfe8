package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"meshpreview/internal/config"
	"meshpreview/internal/logging"
	"meshpreview/internal/pipeline"
)

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "preview <model-file>...",
		Short: "Render rotating previews for local model files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			attachments := make([]pipeline.Attachment, 0, len(args))
			paths := make([]string, 0, len(args))
			for _, arg := range args {
				path, err := config.ExpandPath(arg)
				if err != nil {
					return err
				}
				if _, err := os.Stat(path); err != nil {
					return fmt.Errorf("model file %s: %w", arg, err)
				}
				att := pipeline.Attachment{
					Filename: filepath.Base(path),
					Source:   pipeline.FileSource(path),
				}
				if !att.Eligible() {
					return fmt.Errorf("unsupported model format: %s", arg)
				}
				attachments = append(attachments, att)
				paths = append(paths, path)
			}

			supervisor, err := buildSupervisor(cfg, nil, logger)
			if err != nil {
				return err
			}

			outcomes := supervisor.Process(cmd.Context(), attachments)

			out := cmd.OutOrStdout()
			var failures int
			for i, outcome := range outcomes {
				if !outcome.Succeeded() {
					failures++
					fmt.Fprintf(out, "%s: failed: %v\n", outcome.Attachment.Filename, outcome.Err)
					continue
				}
				target := filepath.Join(resolveOutputDir(outputDir, paths[i]), outcome.Artifact.Name)
				if err := os.WriteFile(target, outcome.Artifact.Data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", target, err)
				}
				fmt.Fprintf(out, "%s -> %s (%s)\n", outcome.Attachment.Filename, target, outcome.Duration.Round(outcomePrecision))
			}
			if failures > 0 {
				return fmt.Errorf("%d of %d previews failed", failures, len(outcomes))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for the generated GIFs (defaults to each model's directory)")
	return cmd
}

// resolveOutputDir places the GIF next to its source model unless an output
// directory was given.
func resolveOutputDir(outputDir, modelPath string) string {
	if strings.TrimSpace(outputDir) != "" {
		return outputDir
	}
	return filepath.Dir(modelPath)
}
