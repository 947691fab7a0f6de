/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package starfield renders an animated field of twinkling stars onto a
// 2D surface. A Field owns its particle list exclusively; the particle list is
// regenerated on every resize and repainted once per scheduled frame.
package starfield

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"grimoire/internal/domain"
	applog "grimoire/internal/log"
)

// Surface is the immediate-mode raster the field paints on.
type Surface interface {
	Size() (w, h int)
	Clear(c domain.Color)
	Erase()
	FillCircle(x, y, r float64, c domain.Color, alpha float64)
	// FillRadialGradient paints c fading to transparent between the focal
	// point (fx, fy) and the circle of radius r around (cx, cy).
	FillRadialGradient(fx, fy, cx, cy, r float64, c domain.Color, alpha float64)
}

// Resizer is implemented by surfaces that can change their backing size.
type Resizer interface {
	Resize(w, h int)
}

// Scheduler delivers one-shot frame callbacks with a wall-clock timestamp in
// milliseconds. Handles are non-zero; Cancel of an unknown handle is a no-op.
type Scheduler interface {
	Request(cb func(t float64)) uint64
	Cancel(h uint64)
}

// State is the lifecycle state of a Field.
type State int

const (
	StateUninitialized State = iota
	StateInitialized
	StateRunning
	StateTornDown
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StateTornDown:
		return "torn-down"
	default:
		return "unknown"
	}
}

// Field is the particle field renderer.
type Field struct {
	mu sync.Mutex

	surface Surface
	sched   Scheduler
	opts    Options
	rng     *rand.Rand
	log     *slog.Logger

	particles []Particle
	nebulae   []Nebula
	state     State
	pending   uint64
	frames    uint64
	unbind    func()
}

// New creates a field. A nil surface yields a field on which every operation
// is a no-op; a nil rng is replaced by a time-seeded one.
func New(surface Surface, sched Scheduler, opts Options, rng *rand.Rand) *Field {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>17|1))
	}
	return &Field{
		surface: surface,
		sched:   sched,
		opts:    opts,
		rng:     rng,
		log:     applog.WithComponent("starfield").With(slog.String("preset", opts.Name)),
	}
}

// NewSeeded is New with a deterministic PCG source.
func NewSeeded(surface Surface, sched Scheduler, opts Options, seed uint64) *Field {
	return New(surface, sched, opts, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Initialize regenerates the particle list for a w×h surface.
func (f *Field) Initialize(w, h int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.surface == nil || f.state == StateTornDown {
		return
	}
	f.initializeLocked(w, h)
}

func (f *Field) initializeLocked(w, h int) {
	f.particles = generateParticles(f.rng, f.opts, w, h)
	f.nebulae = generateNebulae(f.rng, f.opts, w, h)
	if f.state == StateUninitialized {
		f.state = StateInitialized
	}
	f.log.Debug("particles regenerated", slog.Int("w", w), slog.Int("h", h), slog.Int("count", len(f.particles)))
}

// OnResize resizes the surface when possible and regenerates every particle.
func (f *Field) OnResize(w, h int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.surface == nil || f.state == StateTornDown {
		return
	}
	if r, ok := f.surface.(Resizer); ok {
		r.Resize(w, h)
	}
	f.initializeLocked(w, h)
}

// BindResize attaches the field to a resize event source. subscribe registers
// the listener and returns the function that removes it; Teardown calls it.
func (f *Field) BindResize(subscribe func(listener func(w, h int)) (unsubscribe func())) {
	if subscribe == nil {
		return
	}
	f.mu.Lock()
	if f.surface == nil || f.state == StateTornDown {
		f.mu.Unlock()
		return
	}
	prev := f.unbind
	f.unbind = nil
	f.mu.Unlock()
	if prev != nil {
		prev()
	}

	unsub := subscribe(f.OnResize)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateTornDown {
		// torn down while subscribing
		if unsub != nil {
			unsub()
		}
		return
	}
	f.unbind = unsub
}

// Start begins the frame loop. An uninitialized field is first initialized
// from the surface's current size.
func (f *Field) Start() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.surface == nil || f.sched == nil {
		return
	}
	switch f.state {
	case StateTornDown, StateRunning:
		return
	case StateUninitialized:
		w, h := f.surface.Size()
		f.initializeLocked(w, h)
	}
	f.state = StateRunning
	f.pending = f.sched.Request(f.frame)
	f.log.Debug("frame loop started")
}

func (f *Field) frame(t float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateRunning {
		return
	}
	f.renderLocked(t)
	f.pending = f.sched.Request(f.frame)
}

// RenderFrame paints one frame for timestamp t (milliseconds).
func (f *Field) RenderFrame(t float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.surface == nil || f.state == StateTornDown {
		return
	}
	f.renderLocked(t)
}

func (f *Field) renderLocked(t float64) {
	s := f.surface
	if f.opts.Background == BackgroundClear {
		s.Clear(f.opts.ClearColor)
	} else {
		s.Erase()
	}

	for _, n := range f.nebulae {
		phase := t*0.0001 + n.Offset
		s.FillRadialGradient(n.X+math.Sin(phase)*20, n.Y+math.Cos(phase)*20, n.X, n.Y, n.Radius, n.Color, n.Alpha)
	}

	o := f.opts
	for _, p := range f.particles {
		a := Opacity(p, t, o)
		s.FillCircle(p.X, p.Y, p.Size, p.Color, a)
		if p.Size > o.HaloThreshold {
			s.FillCircle(p.X, p.Y, p.Size*o.HaloScale, p.Color, a*o.HaloAlpha)
		}
		if p.Size > o.GlowThreshold {
			s.FillCircle(p.X, p.Y, p.Size*o.GlowScale, p.Color, a*o.GlowAlpha)
		}
	}
	f.frames++
}

// Teardown stops the frame loop and detaches the resize listener. It is
// idempotent; the field is unusable afterwards.
func (f *Field) Teardown() {
	f.mu.Lock()
	if f.state == StateTornDown {
		f.mu.Unlock()
		return
	}
	f.state = StateTornDown
	if f.pending != 0 && f.sched != nil {
		f.sched.Cancel(f.pending)
	}
	f.pending = 0
	unbind := f.unbind
	f.unbind = nil
	frames := f.frames
	f.mu.Unlock()

	if unbind != nil {
		unbind()
	}
	f.log.Debug("torn down", slog.Uint64("frames", frames))
}

// State returns the current lifecycle state.
func (f *Field) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Particles returns a copy of the current particle list.
func (f *Field) Particles() []Particle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Particle(nil), f.particles...)
}

// Nebulae returns a copy of the current nebula list.
func (f *Field) Nebulae() []Nebula {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Nebula(nil), f.nebulae...)
}

// Opacities computes the opacity of every particle at t without painting.
func (f *Field) Opacities(t float64) []float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]float64, len(f.particles))
	for i, p := range f.particles {
		out[i] = Opacity(p, t, f.opts)
	}
	return out
}

// Frames returns the number of frames painted so far.
func (f *Field) Frames() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frames
}

// Options returns the options the field was built with.
func (f *Field) Options() Options { return f.opts }
