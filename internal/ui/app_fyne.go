//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"runtime"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"

	"grimoire/internal/book"
	"grimoire/internal/content"
	"grimoire/internal/crash"
	"grimoire/internal/export"
	"grimoire/internal/flipbook"
	applog "grimoire/internal/log"
	"grimoire/internal/starfield"
	"grimoire/internal/version"
)

var initialWindowSize = fyne.NewSize(1280, 800)

// Run opens the portfolio window: the animated starfield behind the book.
func Run(opts Options) error {
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	cfg := opts.Config
	sfOpts, err := starfield.PresetByName(cfg.Starfield.Preset)
	if err != nil {
		return err
	}
	sfOpts = sfOpts.Tuned(cfg.Starfield.FixedCount, float64(cfg.Starfield.Density))

	var host *book.Host
	var stars *StarfieldView
	defer crash.Recover(cfg.General.CrashDir, func() map[string]string {
		name := ""
		if stars != nil {
			name = stars.Options().Name
		}
		return sessionState(host, name)
	})

	fyneApp := app.NewWithID("nl.galaxtc.grimoire")
	if v, ok := themeVariant(cfg.General.Theme); ok {
		fyneApp.Settings().SetTheme(fixedVariant{variant: v})
	}
	w := fyneApp.NewWindow(WindowTitle)
	// Window size and preset choices live for the session only.
	w.Resize(initialWindowSize)

	stars = NewStarfieldView(sfOpts, cfg.Starfield.Seed, cfg.Starfield.FPS)

	var stage *BookStage
	host = book.NewHost(opts.Catalogue.Artworks, flipbook.Factory(), book.WithOnChange(func() {
		fyne.Do(func() {
			if stage != nil {
				stage.Render()
			}
		})
	}))
	stage = NewBookStage(host, opts.Catalogue, cfg.Book.CompactBreakpoint)

	host.BindKeys(func(handler func(key string)) func() {
		w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) { handler(string(ev.Name)) })
		return func() { w.Canvas().SetOnTypedKey(nil) }
	})

	w.SetContent(container.NewStack(stars, stage))
	w.SetMainMenu(fyne.NewMainMenu(
		viewMenu(w, stars, l),
		exportMenu(w, opts, stars, l),
		aboutMenu(w, opts.Catalogue, l),
	))

	w.SetOnClosed(func() {
		stars.Stop()
		host.Close()
		l.Info("window closed")
	})

	go preload(opts, stage, l)
	stars.Start()
	w.ShowAndRun()
	return nil
}

// preload decodes the hero images first so the cover shows promptly, then
// the rest of the book. Broken assets are skipped.
func preload(opts Options, stage *BookStage, l *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	open := content.DirOpener(opts.AssetsDir)
	start := time.Now()
	hero, err := content.Preload(ctx, open, opts.Catalogue.Hero)
	if err != nil {
		l.Warn("hero preload interrupted", slog.Any("err", err))
	}
	l.Info("hero images ready", slog.Int("loaded", len(hero)), slog.Duration("took", time.Since(start)))
	fyne.Do(func() { stage.SetImages(hero) })

	refs := export.ImageRefs(opts.Catalogue, false)
	for _, a := range opts.Catalogue.Artworks {
		if a.HasAlternate() {
			refs = append(refs, a.BlacklightImage)
		}
	}
	rest, err := content.Preload(ctx, open, refs)
	if err != nil {
		l.Warn("artwork preload interrupted", slog.Any("err", err))
	}
	fyne.Do(func() { stage.SetImages(rest) })
}

func viewMenu(w fyne.Window, stars *StarfieldView, l *slog.Logger) *fyne.Menu {
	var items []*fyne.MenuItem
	for _, name := range starfield.PresetNames() {
		items = append(items, fyne.NewMenuItem(fmt.Sprintf("Starfield: %s", name), func() {
			o, err := starfield.PresetByName(name)
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			l.Info("menu: starfield preset", slog.String("preset", name))
			stars.SetOptions(o)
		}))
	}
	return fyne.NewMenu("View", items...)
}

func exportMenu(w fyne.Window, opts Options, stars *StarfieldView, l *slog.Logger) *fyne.Menu {
	frameItem := fyne.NewMenuItem("Save Starfield Frame as PNG…", func() {
		save := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if uc == nil {
				return
			}
			defer func() { _ = uc.Close() }()
			if err := stars.Canvas().EncodePNG(uc); err != nil {
				dialog.ShowError(err, w)
				return
			}
			l.Info("frame saved", slog.String("path", uc.URI().Path()))
		}, w)
		save.SetFileName("starfield.png")
		save.SetFilter(fstorage.NewExtensionFileFilter([]string{".png"}))
		save.Show()
	})

	bookExport := func(title, ext string, run func(path string) error) *fyne.MenuItem {
		return fyne.NewMenuItem(title, func() {
			save := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
				if err != nil {
					dialog.ShowError(err, w)
					return
				}
				if uc == nil {
					return
				}
				outPath := uc.URI().Path()
				_ = uc.Close()
				if err := run(outPath); err != nil {
					l.Error("export failed", slog.Any("err", err), slog.String("path", outPath))
					dialog.ShowError(err, w)
					return
				}
				dialog.ShowInformation("Export", "Exported to "+outPath, w)
			}, w)
			save.SetFileName("grimoire" + ext)
			save.SetFilter(fstorage.NewExtensionFileFilter([]string{ext}))
			save.Show()
		})
	}
	images := func() map[string]image.Image {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		imgs, _ := content.Preload(ctx, content.DirOpener(opts.AssetsDir), export.ImageRefs(opts.Catalogue, false))
		return imgs
	}
	pdfItem := bookExport("Export Book as PDF…", ".pdf", func(p string) error {
		return export.BookPDF(p, opts.Catalogue, images(), export.PDFOptions{})
	})
	epubItem := bookExport("Export Book as EPUB…", ".epub", func(p string) error {
		return export.BookEPUB(p, opts.Catalogue, images(), export.EPUBOptions{})
	})
	return fyne.NewMenu("Export", frameItem, pdfItem, epubItem)
}

func aboutMenu(w fyne.Window, cat content.Catalogue, l *slog.Logger) *fyne.Menu {
	aboutItem := fyne.NewMenuItem("About Grimoire", func() {
		l.Info("menu: about")
		info := fmt.Sprintf("%s\nVersion: %s\nOS: %s\nArch: %s\nGo: %s",
			cat.Title, version.String(), runtime.GOOS, runtime.GOARCH, runtime.Version())
		dialog.ShowInformation("About", info, w)
	})
	contactItem := fyne.NewMenuItem("Contact…", func() {
		c := cat.Contact
		dialog.ShowInformation(c.Heading, fmt.Sprintf("%s\n\n%s\n\n%s", c.Text, c.Site, c.Copyright), w)
	})
	return fyne.NewMenu("About", aboutItem, contactItem)
}

func themeVariant(name string) (fyne.ThemeVariant, bool) {
	switch name {
	case "dark":
		return theme.VariantDark, true
	case "light":
		return theme.VariantLight, true
	}
	return 0, false
}

// fixedVariant pins the default theme to one variant.
type fixedVariant struct {
	variant fyne.ThemeVariant
}

func (t fixedVariant) Color(n fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return theme.DefaultTheme().Color(n, t.variant)
}

func (t fixedVariant) Font(s fyne.TextStyle) fyne.Resource { return theme.DefaultTheme().Font(s) }

func (t fixedVariant) Icon(n fyne.ThemeIconName) fyne.Resource { return theme.DefaultTheme().Icon(n) }

func (t fixedVariant) Size(n fyne.ThemeSizeName) float32 { return theme.DefaultTheme().Size(n) }
