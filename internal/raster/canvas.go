/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package raster implements the starfield drawing surface on a gg software
// context. Discs are filled as anti-aliased paths with solid brushes and the
// nebulae use gg's focal radial gradient brush.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"log/slog"
	"sync"

	"github.com/gogpu/gg"

	"grimoire/internal/domain"
	applog "grimoire/internal/log"
)

// Canvas is a resizable drawing surface. All methods are safe for concurrent
// use; drawing and Snapshot are serialized.
type Canvas struct {
	mu   sync.Mutex
	dc   *gg.Context // nil while the canvas has no area
	w, h int
}

// New returns a transparent w×h canvas. Non-positive sizes yield an empty canvas.
func New(w, h int) *Canvas {
	c := &Canvas{}
	c.resizeLocked(w, h)
	return c
}

func (c *Canvas) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.w, c.h
}

// Resize replaces the pixels with a transparent frame of the new size.
func (c *Canvas) Resize(w, h int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resizeLocked(w, h)
}

func (c *Canvas) resizeLocked(w, h int) {
	if w <= 0 || h <= 0 {
		_ = c.closeLocked()
		c.w, c.h = 0, 0
		return
	}
	c.w, c.h = w, h
	if c.dc == nil {
		c.dc = gg.NewContext(w, h)
		return
	}
	if err := c.dc.Resize(w, h); err != nil {
		applog.WithComponent("raster").Warn("resize failed", slog.Int("w", w), slog.Int("h", h), slog.Any("err", err))
		return
	}
	c.dc.Clear()
}

// Clear fills the whole canvas with an opaque colour.
func (c *Canvas) Clear(col domain.Color) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dc == nil {
		return
	}
	c.dc.ClearWithColor(toRGBA(col, 1))
}

// Erase resets every pixel to transparent.
func (c *Canvas) Erase() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dc == nil {
		return
	}
	c.dc.Clear()
}

// FillCircle composites an anti-aliased disc over the canvas.
func (c *Canvas) FillCircle(x, y, r float64, col domain.Color, alpha float64) {
	if r <= 0 || alpha <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dc == nil {
		return
	}
	c.dc.SetFillBrush(gg.Solid(toRGBA(col, alpha)))
	c.dc.DrawCircle(x, y, r)
	c.fillLocked()
}

// FillRadialGradient composites a two-stop gradient (col at the focal point,
// transparent on the outer circle) like a canvas radial gradient with an
// inner radius of zero. Only the outer circle is painted.
func (c *Canvas) FillRadialGradient(fx, fy, cx, cy, r float64, col domain.Color, alpha float64) {
	if r <= 0 || alpha <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dc == nil {
		return
	}
	inner := toRGBA(col, alpha)
	outer := inner
	outer.A = 0
	brush := gg.NewRadialGradientBrush(cx, cy, 0, r).
		SetFocus(fx, fy).
		AddColorStop(0, inner).
		AddColorStop(1, outer)
	c.dc.SetFillBrush(brush)
	c.dc.DrawCircle(cx, cy, r)
	c.fillLocked()
}

func (c *Canvas) fillLocked() {
	if err := c.dc.Fill(); err != nil {
		applog.WithComponent("raster").Debug("fill failed", slog.Any("err", err))
		c.dc.ClearPath()
	}
}

func toRGBA(col domain.Color, alpha float64) gg.RGBA {
	a := alpha * float64(col.A) / 255
	if a > 1 {
		a = 1
	}
	return gg.RGBA{R: float64(col.R) / 255, G: float64(col.G) / 255, B: float64(col.B) / 255, A: a}
}

// Snapshot returns a copy of the current frame.
func (c *Canvas) Snapshot() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Canvas) snapshotLocked() *image.RGBA {
	if c.dc == nil {
		return image.NewRGBA(image.Rectangle{})
	}
	src := c.dc.Image()
	if img, ok := src.(*image.RGBA); ok {
		return img
	}
	out := image.NewRGBA(src.Bounds())
	draw.Draw(out, out.Bounds(), src, src.Bounds().Min, draw.Src)
	return out
}

// At returns the colour of a single pixel.
func (c *Canvas) At(x, y int) color.RGBA {
	return c.Snapshot().RGBAAt(x, y)
}

// EncodePNG writes the current frame as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return png.Encode(w, c.Snapshot())
}

// Close releases the drawing context. The canvas is empty afterwards and can
// be brought back with Resize.
func (c *Canvas) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.closeLocked()
	c.w, c.h = 0, 0
	return err
}

func (c *Canvas) closeLocked() error {
	if c.dc == nil {
		return nil
	}
	err := c.dc.Close()
	c.dc = nil
	return err
}
