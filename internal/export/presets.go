/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"grimoire/internal/content"
	"grimoire/internal/starfield"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
)

// BatchOptions controls a batch export of the book and starfield stills.
//
// Outputs land in OutDir/<preset>/<format>/: book.pdf, book.epub,
// frame-<n>.png per entry of FrameTimes and frame.svg.
type BatchOptions struct {
	Preset        PresetName
	Formats       []string // allowed: pdf, epub, png, svg; empty means preset defaults
	OutDir        string
	Catalogue     content.Catalogue
	Images        map[string]image.Image
	Starfield     starfield.Options
	Seed          uint64
	FrameWidth    int
	FrameHeight   int
	FrameTimes    []float64 // milliseconds; empty means a single frame at 0
	IncludeGuides *bool     // when set, overrides the preset's default for PDF guides
	Blacklight    bool
}

// BatchExport runs exports according to the given preset and returns the
// written paths.
func BatchExport(opt BatchOptions) ([]string, error) {
	formats := append([]string(nil), opt.Formats...)
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	for i := range formats {
		formats[i] = strings.ToLower(strings.TrimSpace(formats[i]))
	}
	preset := opt.Preset
	if preset == "" {
		preset = PresetWeb
	}
	base := filepath.Join(opt.OutDir, string(preset))

	guides := presetIncludeGuides(opt.Preset)
	if opt.IncludeGuides != nil {
		guides = *opt.IncludeGuides
	}
	fw, fh := presetFrameSize(opt.Preset)
	if opt.FrameWidth > 0 && opt.FrameHeight > 0 {
		fw, fh = opt.FrameWidth, opt.FrameHeight
	}
	times := opt.FrameTimes
	if len(times) == 0 {
		times = []float64{0}
	}
	sf := opt.Starfield
	if sf.Name == "" {
		sf = starfield.PresetClassic()
	}

	var out []string
	for _, f := range formats {
		switch f {
		case "pdf":
			p := filepath.Join(base, "pdf", "book.pdf")
			if err := BookPDF(p, opt.Catalogue, opt.Images, PDFOptions{IncludeGuides: guides, Blacklight: opt.Blacklight}); err != nil {
				return out, fmt.Errorf("pdf: %w", err)
			}
			out = append(out, p)
		case "epub":
			p := filepath.Join(base, "epub", "book.epub")
			if err := BookEPUB(p, opt.Catalogue, opt.Images, EPUBOptions{Blacklight: opt.Blacklight}); err != nil {
				return out, fmt.Errorf("epub: %w", err)
			}
			out = append(out, p)
		case "png":
			paths, err := FramePNGSequence(filepath.Join(base, "png"), sf, fw, fh, opt.Seed, times)
			out = append(out, paths...)
			if err != nil {
				return out, fmt.Errorf("png: %w", err)
			}
		case "svg":
			p := filepath.Join(base, "svg", "frame.svg")
			if err := FrameSVGFile(p, sf, fw, fh, times[0], opt.Seed); err != nil {
				return out, fmt.Errorf("svg: %w", err)
			}
			out = append(out, p)
		default:
			return out, fmt.Errorf("unknown format: %s", f)
		}
	}
	return out, nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetWeb:
		return []string{"png", "svg", "epub"}
	case PresetPrint:
		return []string{"pdf", "png"}
	default:
		return []string{"pdf"}
	}
}

func presetIncludeGuides(p PresetName) bool {
	return p == PresetPrint
}

func presetFrameSize(p PresetName) (int, int) {
	if p == PresetPrint {
		return 3508, 2480
	}
	return 1920, 1080
}
