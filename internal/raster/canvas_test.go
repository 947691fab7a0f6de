/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package raster

import (
	"bytes"
	"image/png"
	"testing"

	"grimoire/internal/domain"
)

func TestFillCircleCoversCentreOnly(t *testing.T) {
	c := New(40, 40)
	c.FillCircle(20, 20, 5, domain.RGB(255, 255, 255), 1)

	if px := c.At(20, 20); px.A < 250 || px.R < 250 {
		t.Fatalf("centre pixel not filled: %#v", px)
	}
	if px := c.At(2, 2); px.A != 0 {
		t.Fatalf("far pixel touched: %#v", px)
	}
	if px := c.At(20, 27); px.A != 0 {
		t.Fatalf("pixel outside radius touched: %#v", px)
	}
}

func TestFillCircleRespectsAlpha(t *testing.T) {
	c := New(20, 20)
	c.FillCircle(10, 10, 4, domain.RGB(255, 0, 0), 0.5)
	px := c.At(10, 10)
	if px.A < 120 || px.A > 135 {
		t.Fatalf("expected roughly half alpha, got %d", px.A)
	}
	if px.G != 0 || px.B != 0 {
		t.Fatalf("unexpected channels: %#v", px)
	}
}

func TestFillCircleClipsAtEdges(t *testing.T) {
	c := New(10, 10)
	c.FillCircle(-2, -2, 5, domain.RGB(255, 255, 255), 1)
	c.FillCircle(50, 50, 5, domain.RGB(255, 255, 255), 1)
	if px := c.At(0, 0); px.A == 0 {
		t.Fatalf("corner pixel should be covered by clipped disc")
	}
}

func TestClearAndErase(t *testing.T) {
	c := New(4, 4)
	c.Clear(domain.RGB(5, 6, 15))
	if px := c.At(3, 3); !near(px.R, 5) || !near(px.G, 6) || !near(px.B, 15) || px.A < 254 {
		t.Fatalf("Clear() pixel = %#v", px)
	}
	c.Erase()
	if px := c.At(3, 3); px.A != 0 || px.R != 0 {
		t.Fatalf("Erase() pixel = %#v", px)
	}
}

func TestRadialGradientFadesOutwards(t *testing.T) {
	c := New(100, 100)
	c.FillRadialGradient(50, 50, 50, 50, 40, domain.RGB(255, 255, 255), 1)
	centre := c.At(50, 50).A
	mid := c.At(70, 50).A
	outside := c.At(95, 50).A
	if !(centre > mid && mid > outside) {
		t.Fatalf("gradient not fading: centre=%d mid=%d outside=%d", centre, mid, outside)
	}
	if outside != 0 {
		t.Fatalf("pixel beyond radius should be untouched, got %d", outside)
	}
}

func TestRadialGradientWithOffsetFocal(t *testing.T) {
	c := New(100, 100)
	c.FillRadialGradient(60, 50, 50, 50, 40, domain.RGB(255, 255, 255), 1)
	if c.At(60, 50).A <= c.At(40, 50).A {
		t.Fatalf("gradient should peak at the focal point")
	}
}

func TestResizeAndEncodePNG(t *testing.T) {
	c := New(8, 8)
	c.Resize(16, 12)
	if w, h := c.Size(); w != 16 || h != 12 {
		t.Fatalf("Size() = %dx%d", w, h)
	}
	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 12 {
		t.Fatalf("decoded bounds = %v", b)
	}
}

func TestEmptyCanvasIgnoresDrawing(t *testing.T) {
	c := New(0, 10)
	c.Clear(domain.RGB(1, 2, 3))
	c.FillCircle(1, 1, 3, domain.RGB(255, 255, 255), 1)
	c.FillRadialGradient(1, 1, 1, 1, 3, domain.RGB(255, 255, 255), 1)
	if w, h := c.Size(); w != 0 || h != 0 {
		t.Fatalf("Size() = %dx%d, want 0x0", w, h)
	}
	if b := c.Snapshot().Bounds(); !b.Empty() {
		t.Fatalf("Snapshot() bounds = %v, want empty", b)
	}
}

func TestCloseThenResize(t *testing.T) {
	c := New(8, 8)
	c.Clear(domain.RGB(255, 255, 255))
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if w, h := c.Size(); w != 0 || h != 0 {
		t.Fatalf("Size() after Close = %dx%d", w, h)
	}
	c.Resize(6, 4)
	if w, h := c.Size(); w != 6 || h != 4 {
		t.Fatalf("Size() after Resize = %dx%d", w, h)
	}
	if px := c.At(1, 1); px.A != 0 {
		t.Fatalf("reopened canvas should start transparent, got %#v", px)
	}
}

func near(got, want uint8) bool {
	d := int(got) - int(want)
	return d >= -1 && d <= 1
}
