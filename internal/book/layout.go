/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package book

import (
	"math"
	"time"

	"grimoire/internal/domain"
)

// DefaultCompactBreakpoint is the viewport width below which the book
// switches to the compact, single-sheet layout.
const DefaultCompactBreakpoint = 1024

const (
	openBookViewportShare = 0.75 // of viewport width, across two sheets
	pageAspect            = 0.74 // width / height
	maxHeightShare        = 0.9  // of viewport height
	compactMaxWidth       = 380
	compactWidthShare     = 0.9
	compactMaxHeight      = 540
	compactHeightShare    = 0.7
)

// Layout is the on-screen size of one sheet and the display mode.
type Layout struct {
	PageWidth  float64
	PageHeight float64
	Portrait   bool
}

// IsCompact reports whether a viewport width calls for the compact layout.
func IsCompact(viewportWidth float64, breakpoint int) bool {
	if breakpoint <= 0 {
		breakpoint = DefaultCompactBreakpoint
	}
	return viewportWidth < float64(breakpoint)
}

// ComputeLayout derives sheet dimensions from the viewport. The full layout
// targets 75% of the viewport width for the open two-sheet spread and derives
// height from the page aspect ratio, capped at 90% of the viewport height.
func ComputeLayout(viewport domain.Size, compact bool) Layout {
	if compact {
		return Layout{
			PageWidth:  math.Min(compactMaxWidth, viewport.W*compactWidthShare),
			PageHeight: math.Min(compactMaxHeight, viewport.H*compactHeightShare),
			Portrait:   true,
		}
	}
	w := math.Floor(viewport.W * openBookViewportShare / 2)
	h := math.Min(math.Floor(w/pageAspect), math.Floor(viewport.H*maxHeightShare))
	return Layout{PageWidth: w, PageHeight: h}
}

// WidgetConfig is what a turning widget is constructed with.
type WidgetConfig struct {
	Width, Height        float64
	SizeMode             string // "fixed" or "stretch"
	MinWidth, MaxWidth   float64
	MinHeight, MaxHeight float64
	ShowCover            bool
	MaxShadowOpacity     float64
	SwipeDistance        float64
	FlippingTime         time.Duration
	UsePortrait          bool
	DrawShadow           bool
	ShowPageCorners      bool
	ClickEventForward    bool
	UseMouseEvents       bool
	DisableFlipByClick   bool
	MobileScrollSupport  bool
	StartPage            int
}

// NewWidgetConfig returns the configuration the host uses for a layout.
func NewWidgetConfig(l Layout) WidgetConfig {
	return WidgetConfig{
		Width:             l.PageWidth,
		Height:            l.PageHeight,
		SizeMode:          "fixed",
		MinWidth:          350,
		MaxWidth:          1500,
		MinHeight:         500,
		MaxHeight:         1800,
		ShowCover:         true,
		MaxShadowOpacity:  0.35,
		SwipeDistance:     40,
		FlippingTime:      1200 * time.Millisecond,
		UsePortrait:       l.Portrait,
		DrawShadow:        true,
		ShowPageCorners:   true,
		ClickEventForward: true,
		UseMouseEvents:    true,
	}
}
