/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package starfield

import (
	"math"
	"math/rand/v2"

	"grimoire/internal/domain"
)

// Particle is a single star. All fields are fixed at creation; only the
// derived opacity changes over time.
type Particle struct {
	X, Y          float64
	Size          float64
	Color         domain.Color
	BaseOpacity   float64
	TwinkleSpeed  float64
	TwinkleOffset float64
}

// Nebula is a soft radial glow whose focal point drifts on a small circle.
type Nebula struct {
	X, Y   float64
	Radius float64
	Color  domain.Color
	Alpha  float64
	Offset float64
}

// Opacity returns the particle's opacity at timestamp t (milliseconds),
// clamped to [0,1]. It depends only on t and the particle's own fields.
func Opacity(p Particle, t float64, o Options) float64 {
	twinkle := math.Sin(t*p.TwinkleSpeed + p.TwinkleOffset)
	v := o.C0 + o.C1*twinkle
	if o.SecondHarmonic {
		twinkle2 := math.Sin(t*p.TwinkleSpeed*0.7 + p.TwinkleOffset*1.3)
		v += o.C2 * twinkle2
	}
	return clamp01(p.BaseOpacity * v)
}

func generateParticles(rng *rand.Rand, o Options, w, h int) []Particle {
	n := o.Count(w, h)
	out := make([]Particle, n)
	for i := range out {
		out[i] = Particle{
			X:             within(rng.Float64()*float64(w), w),
			Y:             within(rng.Float64()*float64(h), h),
			Size:          sampleSize(rng, o.SizeClasses),
			Color:         samplePalette(rng, o.Palette),
			BaseOpacity:   uniform(rng, o.BaseOpacityMin, o.BaseOpacityMax),
			TwinkleSpeed:  uniform(rng, o.TwinkleSpeedMin, o.TwinkleSpeedMax),
			TwinkleOffset: rng.Float64() * 2 * math.Pi,
		}
	}
	return out
}

func generateNebulae(rng *rand.Rand, o Options, w, h int) []Nebula {
	if o.Nebulae <= 0 || len(o.NebulaPalette) == 0 || w <= 0 || h <= 0 {
		return nil
	}
	out := make([]Nebula, o.Nebulae)
	for i := range out {
		out[i] = Nebula{
			X:      rng.Float64() * float64(w),
			Y:      rng.Float64() * float64(h),
			Radius: rng.Float64()*400 + 200,
			Color:  samplePalette(rng, o.NebulaPalette),
			Alpha:  o.NebulaAlpha * (0.6 + 0.4*rng.Float64()),
			Offset: rng.Float64() * 2 * math.Pi,
		}
	}
	return out
}

// sampleSize picks a class by weight, then a radius uniformly inside it.
func sampleSize(rng *rand.Rand, classes []SizeClass) float64 {
	if len(classes) == 0 {
		return 1
	}
	var total float64
	for _, c := range classes {
		if c.Weight > 0 {
			total += c.Weight
		}
	}
	pick := classes[len(classes)-1]
	if total > 0 {
		r := rng.Float64() * total
		for _, c := range classes {
			if c.Weight <= 0 {
				continue
			}
			if r < c.Weight {
				pick = c
				break
			}
			r -= c.Weight
		}
	}
	return uniform(rng, pick.Min, pick.Max)
}

func samplePalette(rng *rand.Rand, palette []domain.Color) domain.Color {
	if len(palette) == 0 {
		return domain.RGB(255, 255, 255)
	}
	return palette[rng.IntN(len(palette))]
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}

// within keeps a sampled coordinate inside [0, limit) despite float rounding.
func within(v float64, limit int) float64 {
	if v >= float64(limit) {
		return math.Nextafter(float64(limit), 0)
	}
	return v
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
