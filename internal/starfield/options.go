/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package starfield

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"grimoire/internal/domain"
)

// CountMode selects how many particles a surface gets.
type CountMode string

const (
	// CountFixed uses Options.FixedCount regardless of surface size.
	CountFixed CountMode = "fixed"
	// CountDensity uses floor(width*height / Options.Density).
	CountDensity CountMode = "density"
)

// Background selects what happens to the surface before each frame.
type Background string

const (
	// BackgroundTransparent erases to fully transparent pixels so whatever sits
	// behind the surface shows through.
	BackgroundTransparent Background = "transparent"
	// BackgroundClear fills the surface with Options.ClearColor.
	BackgroundClear Background = "clear"
)

// SizeClass is a weighted radius range particles are sampled from.
type SizeClass struct {
	Name   string
	Weight float64
	Min    float64
	Max    float64
}

// Options is the full set of knobs of the renderer. The two historical
// variants of the starfield are expressed as presets over these fields.
type Options struct {
	Name string

	CountMode  CountMode
	FixedCount int
	Density    float64 // px² per particle in CountDensity mode

	Palette     []domain.Color // sampled uniformly; repeat entries to weight them
	SizeClasses []SizeClass

	BaseOpacityMin, BaseOpacityMax   float64
	TwinkleSpeedMin, TwinkleSpeedMax float64 // radians per millisecond

	// Opacity = base * (C0 + C1*twinkle + C2*twinkle2); C2 only applies with SecondHarmonic.
	SecondHarmonic bool
	C0, C1, C2     float64

	HaloThreshold, HaloScale, HaloAlpha float64
	GlowThreshold, GlowScale, GlowAlpha float64

	Background Background
	ClearColor domain.Color

	Nebulae       int
	NebulaPalette []domain.Color // A carries the peak alpha (0..255 scaled by NebulaAlpha)
	NebulaAlpha   float64
}

// ErrUnknownPreset is returned by PresetByName for names that are not registered.
var ErrUnknownPreset = errors.New("unknown starfield preset")

var defaultSizeClasses = []SizeClass{
	{Name: "small", Weight: 0.50, Min: 0.5, Max: 1.3},
	{Name: "medium", Weight: 0.35, Min: 1.0, Max: 2.5},
	{Name: "bright", Weight: 0.15, Min: 2.0, Max: 4.0},
}

// PresetClassic is the deployed variant: 400 stars over a transparent surface,
// a warm palette weighted towards white and a two-harmonic flicker.
func PresetClassic() Options {
	return Options{
		Name:       "classic",
		CountMode:  CountFixed,
		FixedCount: 400,
		Density:    4000,
		Palette: []domain.Color{
			domain.RGB(255, 255, 255),
			domain.RGB(255, 255, 255),
			domain.RGB(255, 255, 255),
			domain.RGB(255, 250, 240),
			domain.RGB(255, 245, 230),
			domain.RGB(200, 220, 255),
			domain.RGB(180, 200, 255),
			domain.RGB(255, 220, 180),
			domain.RGB(255, 200, 150),
			domain.RGB(255, 180, 180),
			domain.RGB(220, 180, 255),
		},
		SizeClasses:     cloneClasses(defaultSizeClasses),
		BaseOpacityMin:  1,
		BaseOpacityMax:  1,
		TwinkleSpeedMin: 0.008,
		TwinkleSpeedMax: 0.033,
		SecondHarmonic:  true,
		C0:              0.6,
		C1:              0.3,
		C2:              0.1,
		HaloThreshold:   1.0,
		HaloScale:       1.8,
		HaloAlpha:       0.25,
		GlowThreshold:   2.5,
		GlowScale:       2.5,
		GlowAlpha:       0.12,
		Background:      BackgroundTransparent,
		Nebulae:         0,
	}
}

// PresetDeep is the denser variant: particle count scales with the surface,
// stars have individual brightness, the surface is cleared to a night colour
// and a handful of faint nebulae drift behind the stars.
func PresetDeep() Options {
	o := PresetClassic()
	o.Name = "deep"
	o.CountMode = CountDensity
	o.Density = 4000
	o.Palette = []domain.Color{
		domain.RGB(255, 255, 255),
		domain.RGB(255, 255, 255),
		domain.RGB(230, 236, 255),
		domain.RGB(200, 220, 255),
		domain.RGB(255, 244, 220),
	}
	o.BaseOpacityMin = 0.5
	o.BaseOpacityMax = 1.0
	o.TwinkleSpeedMin = 0.0005
	o.TwinkleSpeedMax = 0.003
	o.SecondHarmonic = false
	o.C0, o.C1, o.C2 = 0.5, 0.5, 0
	o.Background = BackgroundClear
	o.ClearColor = domain.RGB(5, 6, 15)
	o.Nebulae = 5
	o.NebulaPalette = []domain.Color{
		domain.RGB(150, 180, 220),
		domain.RGB(100, 140, 200),
		domain.RGB(180, 200, 240),
		domain.RGB(80, 120, 180),
	}
	o.NebulaAlpha = 0.08
	return o
}

var presets = map[string]func() Options{
	"classic": PresetClassic,
	"deep":    PresetDeep,
}

// PresetByName resolves a preset case-insensitively. The empty name is classic.
func PresetByName(name string) (Options, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		n = "classic"
	}
	mk, ok := presets[n]
	if !ok {
		return Options{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownPreset, name, strings.Join(PresetNames(), ", "))
	}
	return mk(), nil
}

// PresetNames lists registered presets in sorted order.
func PresetNames() []string {
	out := make([]string, 0, len(presets))
	for k := range presets {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Count returns the particle count for a w×h surface.
func (o Options) Count(w, h int) int {
	if w <= 0 || h <= 0 {
		return 0
	}
	switch o.CountMode {
	case CountDensity:
		if o.Density <= 0 {
			return 0
		}
		return int(float64(w) * float64(h) / o.Density)
	default:
		if o.FixedCount < 0 {
			return 0
		}
		return o.FixedCount
	}
}

func cloneClasses(in []SizeClass) []SizeClass { return append([]SizeClass(nil), in...) }

// Tuned applies count overrides: fixedCount > 0 switches to a fixed count,
// density > 0 to density mode. Zero keeps the preset's rule.
func (o Options) Tuned(fixedCount int, density float64) Options {
	switch {
	case fixedCount > 0:
		o.CountMode = CountFixed
		o.FixedCount = fixedCount
	case density > 0:
		o.CountMode = CountDensity
		o.Density = density
	}
	return o
}
