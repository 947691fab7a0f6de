/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"grimoire/internal/domain"
	"grimoire/internal/starfield"
)

// svgSurface records starfield draw calls as SVG elements.
type svgSurface struct {
	w, h      int
	defs      bytes.Buffer
	body      bytes.Buffer
	gradients int
}

func (s *svgSurface) Size() (int, int) { return s.w, s.h }

func (s *svgSurface) Clear(c domain.Color) {
	s.Erase()
	fmt.Fprintf(&s.body, "  <rect x=\"0\" y=\"0\" width=\"%d\" height=\"%d\" fill=\"%s\"%s/>\n", s.w, s.h, svgColor(c), opacityAttr("fill-opacity", float64(c.A)/255))
}

func (s *svgSurface) Erase() {
	s.body.Reset()
	s.defs.Reset()
	s.gradients = 0
}

func (s *svgSurface) FillCircle(x, y, r float64, c domain.Color, alpha float64) {
	if r <= 0 || alpha <= 0 {
		return
	}
	fmt.Fprintf(&s.body, "  <circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"%s\"%s/>\n", x, y, r, svgColor(c), opacityAttr("fill-opacity", alpha*float64(c.A)/255))
}

func (s *svgSurface) FillRadialGradient(fx, fy, cx, cy, r float64, c domain.Color, alpha float64) {
	if r <= 0 || alpha <= 0 {
		return
	}
	s.gradients++
	id := fmt.Sprintf("nebula-%d", s.gradients)
	fmt.Fprintf(&s.defs, "    <radialGradient id=\"%s\" gradientUnits=\"userSpaceOnUse\" cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fx=\"%.2f\" fy=\"%.2f\">\n", id, cx, cy, r, fx, fy)
	fmt.Fprintf(&s.defs, "      <stop offset=\"0\" stop-color=\"%s\"%s/>\n", svgColor(c), opacityAttr("stop-opacity", alpha*float64(c.A)/255))
	fmt.Fprintf(&s.defs, "      <stop offset=\"1\" stop-color=\"%s\" stop-opacity=\"0\"/>\n", svgColor(c))
	s.defs.WriteString("    </radialGradient>\n")
	fmt.Fprintf(&s.body, "  <circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"url(#%s)\"/>\n", cx, cy, r, id)
}

func (s *svgSurface) writeTo(w io.Writer) error {
	var buf bytes.Buffer
	buf.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	fmt.Fprintf(&buf, "<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%dpx\" height=\"%dpx\" viewBox=\"0 0 %d %d\">\n", s.w, s.h, s.w, s.h)
	if s.defs.Len() > 0 {
		buf.WriteString("  <defs>\n")
		buf.Write(s.defs.Bytes())
		buf.WriteString("  </defs>\n")
	}
	buf.Write(s.body.Bytes())
	buf.WriteString("</svg>\n")
	_, err := w.Write(buf.Bytes())
	return err
}

// FrameSVG renders a starfield frame as vector SVG: one circle per disc and a
// radial gradient per nebula.
func FrameSVG(w io.Writer, opts starfield.Options, width, height int, t float64, seed uint64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("frame size must be positive, got %dx%d", width, height)
	}
	s := &svgSurface{w: width, h: height}
	renderAt(s, opts, seed, t)
	if err := s.writeTo(w); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

// FrameSVGFile writes FrameSVG output to path, creating parent directories.
func FrameSVGFile(path string, opts starfield.Options, width, height int, t float64, seed uint64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	var buf bytes.Buffer
	if err := FrameSVG(&buf, opts, width, height, t, seed); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func svgColor(c domain.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func opacityAttr(name string, a float64) string {
	if a >= 1 {
		return ""
	}
	return fmt.Sprintf(" %s=\"%.3f\"", name, a)
}
