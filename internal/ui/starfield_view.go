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
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"grimoire/internal/frameloop"
	"grimoire/internal/raster"
	"grimoire/internal/starfield"
)

// StarfieldView paints an animated starfield behind the rest of the window.
// Its renderer's Layout publishes size changes to the field bound through
// Field.BindResize; tearing the field down removes that listener.
type StarfieldView struct {
	widget.BaseWidget

	mu     sync.Mutex
	canvas *raster.Canvas
	ticker *frameloop.Ticker
	field  *starfield.Field
	opts   starfield.Options
	seed   uint64
	raster *canvas.Raster
	size   fyne.Size

	listener    func(w, h int)
	listenerGen uint64
}

// NewStarfieldView builds the view; the frame loop starts with Start.
func NewStarfieldView(opts starfield.Options, seed uint64, fps int) *StarfieldView {
	v := &StarfieldView{canvas: raster.New(0, 0), opts: opts, seed: seed}
	v.ticker = frameloop.NewTicker(frameloop.TickerOptions{FPS: fps, Dispatch: fyne.Do})
	v.raster = canvas.NewRaster(func(_, _ int) image.Image { return v.canvas.Snapshot() })
	v.field = v.newField(opts)
	v.ExtendBaseWidget(v)
	return v
}

// newField must be called without v.mu held; binding takes the lock.
func (v *StarfieldView) newField(opts starfield.Options) *starfield.Field {
	sched := refreshScheduler{ticker: v.ticker, refresh: v.raster.Refresh}
	var f *starfield.Field
	if v.seed != 0 {
		f = starfield.NewSeeded(v.canvas, sched, opts, v.seed)
	} else {
		f = starfield.New(v.canvas, sched, opts, nil)
	}
	f.BindResize(v.subscribeResize)
	return f
}

// subscribeResize installs the single resize listener. The returned func only
// removes the listener it installed, so a replaced field tearing down late
// leaves its successor attached.
func (v *StarfieldView) subscribeResize(l func(w, h int)) func() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.listenerGen++
	gen := v.listenerGen
	v.listener = l
	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if v.listenerGen == gen {
			v.listener = nil
		}
	}
}

func (v *StarfieldView) hasResizeListener() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.listener != nil
}

// refreshScheduler repaints the raster after every frame the field draws.
type refreshScheduler struct {
	ticker  *frameloop.Ticker
	refresh func()
}

func (s refreshScheduler) Request(cb func(t float64)) uint64 {
	return s.ticker.Request(func(t float64) {
		cb(t)
		s.refresh()
	})
}

func (s refreshScheduler) Cancel(h uint64) { s.ticker.Cancel(h) }

// Start begins animating.
func (v *StarfieldView) Start() {
	v.mu.Lock()
	f := v.field
	v.mu.Unlock()
	f.Start()
}

// SetOptions swaps the preset: the running field is torn down and a new one
// generated for the current size.
func (v *StarfieldView) SetOptions(opts starfield.Options) {
	f := v.newField(opts)
	v.mu.Lock()
	old := v.field
	v.opts = opts
	v.field = f
	size := v.size
	v.mu.Unlock()

	old.Teardown()
	if size.Width > 0 && size.Height > 0 {
		f.Initialize(int(size.Width), int(size.Height))
	}
	f.Start()
}

// Options returns the active starfield options.
func (v *StarfieldView) Options() starfield.Options {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.opts
}

// Canvas exposes the backing raster, e.g. for saving a still.
func (v *StarfieldView) Canvas() *raster.Canvas { return v.canvas }

// Stop tears the field down and ends the frame loop.
func (v *StarfieldView) Stop() {
	v.mu.Lock()
	f := v.field
	v.mu.Unlock()
	f.Teardown()
	v.ticker.Stop()
	_ = v.canvas.Close()
}

func (v *StarfieldView) resized(size fyne.Size) {
	v.mu.Lock()
	if size == v.size {
		v.mu.Unlock()
		return
	}
	v.size = size
	l := v.listener
	v.mu.Unlock()
	if l != nil {
		l(int(size.Width), int(size.Height))
	}
}

// CreateRenderer wires the raster into the widget tree.
func (v *StarfieldView) CreateRenderer() fyne.WidgetRenderer {
	return &starfieldRenderer{view: v, objects: []fyne.CanvasObject{v.raster}}
}

type starfieldRenderer struct {
	view    *StarfieldView
	objects []fyne.CanvasObject
}

func (r *starfieldRenderer) Destroy()                     {}
func (r *starfieldRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *starfieldRenderer) MinSize() fyne.Size           { return fyne.NewSize(0, 0) }
func (r *starfieldRenderer) Refresh()                     { canvas.Refresh(r.view.raster) }

func (r *starfieldRenderer) Layout(size fyne.Size) {
	r.view.raster.Resize(size)
	r.view.raster.Move(fyne.NewPos(0, 0))
	r.view.resized(size)
}
