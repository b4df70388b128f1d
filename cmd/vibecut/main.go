package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/keagan/vibecut/internal/assets"
	"github.com/keagan/vibecut/internal/config"
	"github.com/keagan/vibecut/internal/export"
	"github.com/keagan/vibecut/internal/ffmpeg"
	"github.com/keagan/vibecut/internal/gui"
	"github.com/keagan/vibecut/internal/ids"
	"github.com/keagan/vibecut/internal/logging"
	"github.com/keagan/vibecut/internal/model"
	"github.com/keagan/vibecut/pkg/util"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	ctx := context.Background()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "vibecut",
	Short: "vibecut - short-form music video editor",
	Long:  "A local non-linear editor for short-form music videos that compiles timelines into ffmpeg filter graphs.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose)

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		ctx := config.WithConfig(cmd.Context(), cfg)
		cmd.SetContext(ctx)

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(assetsCmd)
	rootCmd.AddCommand(guiCmd)

	exportCmd.Flags().StringP("output", "o", "", "output mp4 path")
	exportCmd.Flags().String("from", "", "work area start (HH:MM:SS.mmm or seconds)")
	exportCmd.Flags().String("to", "", "work area end (HH:MM:SS.mmm or seconds)")

	projectCmd.AddCommand(projectNewCmd)
	projectCmd.AddCommand(projectInfoCmd)
	assetsCmd.AddCommand(assetsImportCmd)
	assetsCmd.AddCommand(assetsListCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [project file]",
	Short: "Compile a project and render it with ffmpeg",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		project, err := model.LoadProject(args[0])
		if err != nil {
			return err
		}
		index, err := assets.LoadIndex(cfg.AssetIndex)
		if err != nil {
			return err
		}
		if err := project.Validate(index.Durations()); err != nil {
			return fmt.Errorf("project invalid: %w", err)
		}

		// --from/--to override the project's work area for this export.
		fromStr, _ := cmd.Flags().GetString("from")
		toStr, _ := cmd.Flags().GetString("to")
		if fromStr != "" || toStr != "" {
			start := 0.0
			end := project.Duration()
			if fromStr != "" {
				if start, err = util.ParseTimestamp(fromStr); err != nil {
					return err
				}
			}
			if toStr != "" {
				if end, err = util.ParseTimestamp(toStr); err != nil {
					return err
				}
			}
			project.WorkArea = &model.WorkArea{Start: start, End: end, IsManual: true}
		}

		outPath, _ := cmd.Flags().GetString("output")
		if outPath == "" {
			outPath = filepath.Join(cfg.WorkDir, project.Name+".mp4")
		}
		projectDir := filepath.Join(cfg.WorkDir, project.ID)
		if err := util.EnsureDir(projectDir); err != nil {
			return err
		}

		bundle, err := assets.BuildBundle(project, index, projectDir, log.Logger)
		if err != nil {
			return err
		}
		compiled, err := export.Compile(project, bundle)
		if err != nil {
			return fmt.Errorf("compile failed: %w", err)
		}

		log.Info().
			Int("inputs", len(compiled.Inputs)).
			Float64("duration", compiled.Duration).
			Msg("project compiled")

		exec, err := ffmpeg.New(log.Logger, cfg.FFmpeg.Threads)
		if err != nil {
			return err
		}

		job := exec.RunExport(cmd.Context(), ids.New(), compiled, outPath, func(s ffmpeg.JobStatus) {
			log.Info().
				Int("frame", s.Progress.Frame).
				Float64("fps", s.Progress.FPS).
				Str("time", s.Progress.Time).
				Msg("rendering")
		})

		status := job.Snapshot()
		if status.State == ffmpeg.JobError {
			for _, line := range status.Tail {
				log.Error().Str("ffmpeg", line).Msg("stderr tail")
			}
			return status.Err
		}

		log.Info().Str("output", outPath).Msg("export complete")
		return nil
	},
}

var probeCmd = &cobra.Command{
	Use:   "probe [media file]",
	Short: "Print media metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		exec, err := ffmpeg.New(log.Logger, cfg.FFmpeg.Threads)
		if err != nil {
			return err
		}
		info, err := exec.ProbeVideo(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		log.Info().
			Dur("duration", info.Duration).
			Int("width", info.Width).
			Int("height", info.Height).
			Float64("fps", info.FPS).
			Str("video_codec", info.VideoCodec).
			Bool("has_audio", info.HasAudio).
			Msg("probe complete")
		return nil
	},
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project management commands",
}

var projectNewCmd = &cobra.Command{
	Use:   "new [name] [file]",
	Short: "Create an empty 1080x1920 project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		p := &model.Project{
			ID:          ids.New(),
			Name:        args[0],
			AspectRatio: "9:16",
			OutputW:     1080,
			OutputH:     1920,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := model.SaveProject(p, args[1]); err != nil {
			return err
		}
		log.Info().Str("project", p.ID).Str("file", args[1]).Msg("project created")
		return nil
	},
}

var projectInfoCmd = &cobra.Command{
	Use:   "info [project file]",
	Short: "Summarize a project file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := model.LoadProject(args[0])
		if err != nil {
			return err
		}
		clips := 0
		for _, t := range p.Tracks {
			clips += len(t.Clips)
		}
		log.Info().
			Str("name", p.Name).
			Int("tracks", len(p.Tracks)).
			Int("clips", clips).
			Float64("duration", p.Duration()).
			Msg("project info")
		return nil
	},
}

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "Asset index commands",
}

var assetsImportCmd = &cobra.Command{
	Use:   "import [media file]",
	Short: "Probe a media file and add it to the asset index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		if !util.FileExists(args[0]) {
			return fmt.Errorf("media file not found: %s", args[0])
		}

		exec, err := ffmpeg.New(log.Logger, cfg.FFmpeg.Threads)
		if err != nil {
			return err
		}
		info, err := exec.ProbeVideo(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		index, err := assets.LoadIndex(cfg.AssetIndex)
		if err != nil {
			return err
		}

		typ := model.AssetVideo
		switch util.GetExtension(args[0]) {
		case ".mp3", ".wav", ".m4a", ".flac", ".aac":
			typ = model.AssetAudio
		default:
			if info.Width == 0 && info.HasAudio {
				typ = model.AssetAudio
			}
		}
		a := &model.Asset{
			ID:           ids.New(),
			Name:         filepath.Base(args[0]),
			Type:         typ,
			OriginalPath: args[0],
			Duration:     info.Duration.Seconds(),
			Width:        info.Width,
			Height:       info.Height,
			FPS:          info.FPS,
		}
		index.Add(a)

		if err := util.EnsureDir(filepath.Dir(cfg.AssetIndex)); err != nil {
			return err
		}
		if err := index.Save(cfg.AssetIndex); err != nil {
			return err
		}
		log.Info().Str("asset", a.ID).Str("name", a.Name).Msg("asset imported")
		return nil
	},
}

var assetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed assets",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		index, err := assets.LoadIndex(cfg.AssetIndex)
		if err != nil {
			return err
		}
		for _, a := range index.Assets {
			log.Info().
				Str("id", a.ID).
				Str("name", a.Name).
				Str("type", string(a.Type)).
				Float64("duration", a.Duration).
				Msg("asset")
		}
		return nil
	},
}

var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Open the editor window",
	RunE: func(cmd *cobra.Command, args []string) error {
		return gui.Run(config.FromContext(cmd.Context()))
	},
}
