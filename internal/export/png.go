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
	"io"
	"os"
	"path/filepath"

	"grimoire/internal/frameloop"
	"grimoire/internal/raster"
	"grimoire/internal/starfield"
)

// FramePNG renders a single starfield frame offscreen at timestamp t
// (milliseconds) and encodes it as PNG. The same seed yields the same picture.
func FramePNG(w io.Writer, opts starfield.Options, width, height int, t float64, seed uint64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("frame size must be positive, got %dx%d", width, height)
	}
	canvas := raster.New(width, height)
	defer canvas.Close()
	renderAt(canvas, opts, seed, t)
	if err := canvas.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// FramePNGFile writes FramePNG output to path, creating parent directories.
func FramePNGFile(path string, opts starfield.Options, width, height int, t float64, seed uint64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := FramePNG(f, opts, width, height, t, seed); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}

// FramePNGSequence renders one field at each timestamp in times and writes
// frame-<n>.png files into outDir. It returns the written paths.
func FramePNGSequence(outDir string, opts starfield.Options, width, height int, seed uint64, times []float64) ([]string, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("frame size must be positive, got %dx%d", width, height)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure out dir: %w", err)
	}
	canvas := raster.New(width, height)
	defer canvas.Close()
	loop := frameloop.NewManual()
	field := starfield.NewSeeded(canvas, loop, opts, seed)
	field.Start()
	defer field.Teardown()

	paths := make([]string, 0, len(times))
	for i, t := range times {
		loop.Advance(t)
		name := filepath.Join(outDir, fmt.Sprintf("frame-%04d.png", i+1))
		f, err := os.Create(name)
		if err != nil {
			return paths, fmt.Errorf("create png: %w", err)
		}
		if err := canvas.EncodePNG(f); err != nil {
			_ = f.Close()
			return paths, fmt.Errorf("encode png: %w", err)
		}
		if err := f.Close(); err != nil {
			return paths, fmt.Errorf("close png: %w", err)
		}
		paths = append(paths, name)
	}
	return paths, nil
}

// renderAt drives a field through one tick of a manual frame loop so offscreen
// output goes through the same path as the live window.
func renderAt(s starfield.Surface, opts starfield.Options, seed uint64, t float64) {
	loop := frameloop.NewManual()
	field := starfield.NewSeeded(s, loop, opts, seed)
	field.Start()
	loop.Advance(t)
	field.Teardown()
}
