/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"grimoire/internal/book"
	"grimoire/internal/config"
	"grimoire/internal/content"
	"grimoire/internal/crash"
	"grimoire/internal/export"
	applog "grimoire/internal/log"
	"grimoire/internal/starfield"
	"grimoire/internal/ui"
	"grimoire/internal/version"
)

// errUsage marks argument errors; they exit with code 2.
var errUsage = errors.New("usage")

func usage(w io.Writer) {
	fmt.Fprintln(w, "Grimoire: starfield portfolio viewer")
	fmt.Fprintf(w, "Version: %s\n", version.String())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  grimoire version|-v|--version                  Show version")
	fmt.Fprintln(w, "  grimoire ui [--catalogue f] [--assets dir]      Launch desktop viewer (build with -tags fyne)")
	fmt.Fprintln(w, "  grimoire sheets [--catalogue f] [--json]        Print the page sequence")
	fmt.Fprintln(w, "  grimoire validate <catalogue.yaml>              Check a catalogue against the schema")
	fmt.Fprintln(w, "  grimoire presets                                List starfield presets")
	fmt.Fprintln(w, "  grimoire frame [flags] <out.png|out.svg>        Render one starfield frame")
	fmt.Fprintln(w, "  grimoire pdf [flags] <out.pdf>                  Print the book as PDF")
	fmt.Fprintln(w, "  grimoire epub [flags] <out.epub>                Write the book as EPUB")
	fmt.Fprintln(w, "  grimoire export [--preset web|print] [--out d]  Batch export book and stills")
	fmt.Fprintln(w, "  grimoire preload [--catalogue f] [--assets d]   Check that every image decodes")
}

func main() {
	// a missing .env is normal
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Warning:", err)
		cfg = config.Defaults()
	}
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	defer crash.Recover(cfg.General.CrashDir, nil)

	os.Exit(run(os.Args[1:], cfg, os.Stdout))
}

// run executes one command and returns the process exit code.
func run(args []string, cfg config.AppConfig, stdout io.Writer) int {
	l := applog.WithComponent("cli")
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) == 0 {
		usage(stdout)
		return 0
	}

	var err error
	switch args[0] {
	case "version", "--version", "-v":
		fmt.Fprintln(stdout, "Grimoire")
		fmt.Fprintln(stdout, version.String())
		return 0
	case "ui":
		err = cmdUI(args[1:], cfg)
	case "sheets":
		err = cmdSheets(args[1:], cfg, stdout)
	case "validate":
		err = cmdValidate(args[1:], stdout)
	case "presets":
		for _, n := range starfield.PresetNames() {
			fmt.Fprintln(stdout, n)
		}
	case "frame":
		err = cmdFrame(args[1:], cfg, stdout)
	case "pdf", "epub":
		err = cmdBook(args[0], args[1:], cfg, stdout)
	case "export":
		err = cmdExport(args[1:], cfg, stdout)
	case "preload":
		err = cmdPreload(args[1:], cfg, stdout)
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stdout, "unknown command %q\n", args[0])
		usage(stdout)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		fmt.Fprintln(stdout, err)
		usage(stdout)
		return 2
	default:
		l.Error("command failed", slog.String("cmd", args[0]), slog.Any("err", err))
		fmt.Fprintln(stdout, "Error:", err)
		return 1
	}
}

// bookFlags are shared by commands that need the catalogue and its assets.
type bookFlags struct {
	catalogue string
	assets    string
}

func newFlagSet(name string, cfg config.AppConfig, bf *bookFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if bf != nil {
		fs.StringVar(&bf.catalogue, "catalogue", cfg.Book.Catalogue, "catalogue YAML (built-in when empty)")
		fs.StringVar(&bf.assets, "assets", cfg.Book.AssetsDir, "directory image references resolve against")
	}
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %v", errUsage, fs.Name(), err)
	}
	return nil
}

func loadCatalogue(path string) (content.Catalogue, error) {
	if strings.TrimSpace(path) == "" {
		return content.Load()
	}
	return content.LoadFile(path)
}

func cmdUI(args []string, cfg config.AppConfig) error {
	var bf bookFlags
	fs := newFlagSet("ui", cfg, &bf)
	if err := parse(fs, args); err != nil {
		return err
	}
	cat, err := loadCatalogue(bf.catalogue)
	if err != nil {
		return err
	}
	return ui.Run(ui.Options{Config: cfg, Catalogue: cat, AssetsDir: bf.assets})
}

func cmdSheets(args []string, cfg config.AppConfig, stdout io.Writer) error {
	var bf bookFlags
	fs := newFlagSet("sheets", cfg, &bf)
	asJSON := fs.Bool("json", false, "print JSON")
	if err := parse(fs, args); err != nil {
		return err
	}
	cat, err := loadCatalogue(bf.catalogue)
	if err != nil {
		return err
	}
	sheets := book.BuildPageSequence(cat.Artworks)
	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sheets)
	}
	for _, s := range sheets {
		line := fmt.Sprintf("%02d  %-20s", s.Index, s.Kind)
		if s.ArtworkID != "" {
			line += "  " + s.ArtworkID
		}
		if s.PageNumber > 0 {
			line += fmt.Sprintf("  p.%d", s.PageNumber)
		}
		fmt.Fprintln(stdout, strings.TrimRight(line, " "))
	}
	fmt.Fprintf(stdout, "%d sheets, %d artworks\n", len(sheets), len(cat.Artworks))
	return nil
}

func cmdValidate(args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: validate requires <catalogue.yaml>", errUsage)
	}
	cat, err := content.LoadFile(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "ok: %q with %d artworks\n", cat.Title, len(cat.Artworks))
	return nil
}

func cmdFrame(args []string, cfg config.AppConfig, stdout io.Writer) error {
	fs := newFlagSet("frame", cfg, nil)
	preset := fs.String("preset", cfg.Starfield.Preset, "starfield preset")
	seed := fs.Uint64("seed", cfg.Starfield.Seed, "random seed (0 picks one from the clock)")
	width := fs.Int("width", 1920, "frame width in pixels")
	height := fs.Int("height", 1080, "frame height in pixels")
	at := fs.Float64("t", 0, "timestamp in milliseconds")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: frame requires <out.png|out.svg>", errUsage)
	}
	opts, err := starfield.PresetByName(*preset)
	if err != nil {
		return err
	}
	opts = opts.Tuned(cfg.Starfield.FixedCount, float64(cfg.Starfield.Density))
	s := *seed
	if s == 0 {
		s = uint64(time.Now().UnixNano())
	}
	out := fs.Arg(0)
	if strings.EqualFold(filepath.Ext(out), ".svg") {
		err = export.FrameSVGFile(out, opts, *width, *height, *at, s)
	} else {
		err = export.FramePNGFile(out, opts, *width, *height, *at, s)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote %s (%s, %dx%d, seed %d)\n", out, opts.Name, *width, *height, s)
	return nil
}

func cmdBook(kind string, args []string, cfg config.AppConfig, stdout io.Writer) error {
	var bf bookFlags
	fs := newFlagSet(kind, cfg, &bf)
	blacklight := fs.Bool("blacklight", false, "use blacklight images where available")
	guides := fs.Bool("guides", false, "draw trim guides (pdf)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: %s requires an output path", errUsage, kind)
	}
	cat, err := loadCatalogue(bf.catalogue)
	if err != nil {
		return err
	}
	images := preloadAll(cat, bf.assets, *blacklight)
	out := fs.Arg(0)
	if kind == "pdf" {
		err = export.BookPDF(out, cat, images, export.PDFOptions{Blacklight: *blacklight, IncludeGuides: *guides})
	} else {
		err = export.BookEPUB(out, cat, images, export.EPUBOptions{Blacklight: *blacklight})
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote %s (%d of %d images found)\n", out, len(images), len(export.ImageRefs(cat, *blacklight)))
	return nil
}

func cmdExport(args []string, cfg config.AppConfig, stdout io.Writer) error {
	var bf bookFlags
	fs := newFlagSet("export", cfg, &bf)
	preset := fs.String("preset", string(export.PresetWeb), "web or print")
	outDir := fs.String("out", "exports", "output directory")
	formats := fs.String("formats", "", "comma-separated: pdf,epub,png,svg (preset defaults when empty)")
	blacklight := fs.Bool("blacklight", false, "use blacklight images where available")
	if err := parse(fs, args); err != nil {
		return err
	}
	cat, err := loadCatalogue(bf.catalogue)
	if err != nil {
		return err
	}
	sf, err := starfield.PresetByName(cfg.Starfield.Preset)
	if err != nil {
		return err
	}
	var fl []string
	if strings.TrimSpace(*formats) != "" {
		fl = strings.Split(*formats, ",")
	}
	paths, err := export.BatchExport(export.BatchOptions{
		Preset:     export.PresetName(*preset),
		Formats:    fl,
		OutDir:     *outDir,
		Catalogue:  cat,
		Images:     preloadAll(cat, bf.assets, *blacklight),
		Starfield:  sf.Tuned(cfg.Starfield.FixedCount, float64(cfg.Starfield.Density)),
		Seed:       cfg.Starfield.Seed,
		FrameTimes: []float64{0, 1000, 2000},
		Blacklight: *blacklight,
	})
	for _, p := range paths {
		fmt.Fprintln(stdout, "Wrote", p)
	}
	return err
}

func cmdPreload(args []string, cfg config.AppConfig, stdout io.Writer) error {
	var bf bookFlags
	fs := newFlagSet("preload", cfg, &bf)
	if err := parse(fs, args); err != nil {
		return err
	}
	cat, err := loadCatalogue(bf.catalogue)
	if err != nil {
		return err
	}
	refs := append([]string(nil), cat.Hero...)
	refs = append(refs, export.ImageRefs(cat, false)...)
	for _, a := range cat.Artworks {
		if a.HasAlternate() {
			refs = append(refs, a.BlacklightImage)
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	images, err := content.Preload(ctx, content.DirOpener(bf.assets), refs)
	if err != nil {
		return err
	}
	seen := map[string]bool{}
	missing := 0
	for _, r := range refs {
		if seen[r] {
			continue
		}
		seen[r] = true
		var status string
		if img, ok := images[r]; ok {
			b := img.Bounds()
			status = fmt.Sprintf("ok %dx%d", b.Dx(), b.Dy())
		} else {
			status = "missing"
			missing++
		}
		fmt.Fprintf(stdout, "%-8s %s\n", status, r)
	}
	fmt.Fprintf(stdout, "%d images, %d missing\n", len(seen), missing)
	return nil
}

// preloadAll decodes every image a book export may print. Missing files are
// left out of the map.
func preloadAll(cat content.Catalogue, assets string, blacklight bool) map[string]image.Image {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	images, err := content.Preload(ctx, content.DirOpener(assets), export.ImageRefs(cat, blacklight))
	if err != nil {
		applog.WithComponent("cli").Warn("preload interrupted", slog.Any("err", err))
	}
	return images
}
