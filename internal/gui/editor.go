// Package gui is the fyne shell around the preview renderer and the
// export pipeline. All editing semantics live in internal/timeline; this
// is chrome.
package gui

import (
	"context"
	"fmt"
	"image"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog/log"

	"github.com/keagan/vibecut/internal/assets"
	"github.com/keagan/vibecut/internal/config"
	"github.com/keagan/vibecut/internal/export"
	"github.com/keagan/vibecut/internal/ffmpeg"
	"github.com/keagan/vibecut/internal/ids"
	"github.com/keagan/vibecut/internal/model"
	"github.com/keagan/vibecut/internal/preview"
	"github.com/keagan/vibecut/pkg/util"
)

// Run opens the editor window.
func Run(cfg *config.Config) error {
	exec, err := ffmpeg.New(log.Logger, cfg.FFmpeg.Threads)
	if err != nil {
		return err
	}
	index, err := assets.LoadIndex(cfg.AssetIndex)
	if err != nil {
		return err
	}

	myApp := app.NewWithID("vibecut")
	w := myApp.NewWindow("vibecut")
	w.Resize(fyne.NewSize(520, 900))

	var project *model.Project
	var player *preview.Player
	var playerCancel context.CancelFunc

	frameImage := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 270, 480)))
	frameImage.FillMode = canvas.ImageFillContain
	frameImage.SetMinSize(fyne.NewSize(270, 480))

	projectLabel := widget.NewLabel("No project loaded")
	timeLabel := widget.NewLabel("0.00s")
	slider := widget.NewSlider(0, 1)

	onFrame := func(img *image.RGBA, t float64) {
		fyne.Do(func() {
			frameImage.Image = img
			frameImage.Refresh()
			timeLabel.SetText(fmt.Sprintf("%.2fs", t))
		})
	}

	openProject := func(path string) {
		p, err := model.LoadProject(path)
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		project = p
		projectLabel.SetText("Loaded: " + p.Name)
		slider.Max = p.Duration()
		slider.Value = 0

		beats := make(map[string]*model.BeatsData)
		for _, a := range index.Assets {
			if a.BeatsPath != "" {
				if b, err := assets.LoadBeats(a.BeatsPath); err == nil {
					beats[a.ID] = b
				}
			}
		}

		frames := preview.NewFrameCache(exec, index, log.Logger)
		renderer := preview.NewRenderer(p, frames, beats, log.Logger)
		renderer.LowQuality = cfg.Preview.LowQuality

		if playerCancel != nil {
			playerCancel()
		}
		var ctx context.Context
		ctx, playerCancel = context.WithCancel(context.Background())
		player = preview.NewPlayer(renderer, cfg.Preview.FPS, onFrame, log.Logger)
		go player.Run(ctx)
		player.Seek(0)
	}

	slider.OnChanged = func(val float64) {
		if player != nil {
			player.Seek(val)
		}
	}

	playButton := widget.NewButton("Play", nil)
	playButton.OnTapped = func() {
		if player == nil {
			return
		}
		if player.Playing() {
			player.Pause()
			playButton.SetText("Play")
		} else {
			player.Play()
			playButton.SetText("Pause")
		}
	}

	loadButton := widget.NewButton("Open Project", func() {
		fd := dialog.NewFileOpen(func(ur fyne.URIReadCloser, err error) {
			if ur == nil {
				return
			}
			openProject(ur.URI().Path())
		}, w)
		fd.SetFilter(storage.NewExtensionFileFilter([]string{".yaml", ".yml"}))
		fd.Show()
	})

	exportButton := widget.NewButton("Export", func() {
		if project == nil {
			return
		}
		outPath := filepath.Join(cfg.WorkDir, project.Name+".mp4")
		projectDir := filepath.Join(cfg.WorkDir, project.ID)

		go func() {
			err := util.EnsureDir(projectDir)
			var bundle *export.Bundle
			if err == nil {
				bundle, err = assets.BuildBundle(project, index, projectDir, log.Logger)
			}
			if err == nil {
				var compiled *export.Compiled
				compiled, err = export.Compile(project, bundle)
				if err == nil {
					job := exec.RunExport(context.Background(), ids.New(), compiled, outPath, nil)
					status := job.Snapshot()
					err = status.Err
				}
			}
			fyne.Do(func() {
				if err != nil {
					dialog.ShowError(err, w)
					return
				}
				dialog.ShowInformation("Export complete", outPath, w)
			})
		}()
	})

	w.SetContent(
		container.NewVBox(
			projectLabel,
			frameImage,
			slider,
			timeLabel,
			container.NewHBox(playButton, loadButton, exportButton),
		),
	)

	w.ShowAndRun()
	if playerCancel != nil {
		playerCancel()
	}
	return nil
}
