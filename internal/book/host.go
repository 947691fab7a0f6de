/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package book

import (
	"fmt"
	"log/slog"
	"sync"

	"grimoire/internal/domain"
	applog "grimoire/internal/log"
)

// Key names the host reacts to. They match fyne's KeyName values.
const (
	KeyRight = "Right"
	KeyLeft  = "Left"
)

// ClosedLabel is shown by the page indicator while the cover is closed.
const ClosedLabel = "Open the grimoire"

// Host owns the sheet sequence and session state of the book.
type Host struct {
	mu sync.Mutex

	artworks []domain.Artwork
	index    map[string]int
	sheets   []domain.Sheet
	factory  WidgetFactory
	log      *slog.Logger

	widget   Widget
	layout   Layout
	compact  bool
	current  int
	opened   bool
	alt      map[string]bool
	unbind   func()
	onChange func()
	closed   bool
}

// Option customises a Host.
type Option func(*Host)

// WithOnChange registers a callback run after every state change (turn,
// toggle, rebuild). It runs without the host lock held.
func WithOnChange(fn func()) Option { return func(h *Host) { h.onChange = fn } }

// NewHost prepares a host for the given artworks. No widget exists until
// AttachTurningWidget is called.
func NewHost(artworks []domain.Artwork, factory WidgetFactory, opts ...Option) *Host {
	h := &Host{
		artworks: append([]domain.Artwork(nil), artworks...),
		index:    make(map[string]int, len(artworks)),
		factory:  factory,
		alt:      make(map[string]bool),
		log:      applog.WithComponent("book"),
	}
	for i, a := range h.artworks {
		h.index[a.ID] = i
	}
	h.sheets = BuildPageSequence(h.artworks)
	for _, o := range opts {
		o(h)
	}
	return h
}

// AttachTurningWidget constructs the widget for the viewport. A widget that
// already exists in the same layout mode is kept; a mode change destroys it
// and builds a new one at the current page. It reports whether a widget is
// attached afterwards.
func (h *Host) AttachTurningWidget(viewport domain.Size, compact bool) bool {
	h.mu.Lock()
	if h.closed || h.factory == nil || len(h.sheets) == 0 {
		h.mu.Unlock()
		h.log.Debug("attach skipped", slog.Int("sheets", len(h.sheets)))
		return false
	}
	if h.widget != nil && h.compact == compact {
		h.mu.Unlock()
		return true
	}
	old := h.widget
	h.widget = nil
	layout := ComputeLayout(viewport, compact)
	cfg := NewWidgetConfig(layout)
	cfg.StartPage = h.current
	sheets := append([]domain.Sheet(nil), h.sheets...)
	h.mu.Unlock()

	if old != nil {
		old.Destroy()
	}
	w := h.factory(cfg)
	if w == nil {
		return false
	}
	w.OnFlip(func(index int) { h.turnFrom(w, index) })
	if !w.Load(sheets) {
		w.Destroy()
		h.log.Debug("widget found no sheets, construction skipped")
		return false
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		w.Destroy()
		return false
	}
	h.widget = w
	h.layout = layout
	h.compact = compact
	h.mu.Unlock()

	h.log.Debug("widget attached",
		slog.Bool("compact", compact),
		slog.Float64("page_w", layout.PageWidth),
		slog.Float64("page_h", layout.PageHeight),
		slog.Int("start", cfg.StartPage))
	h.changed()
	return true
}

// OnTurn records the page the widget turned to. Turning past the cover opens
// the book for the rest of the session.
func (h *Host) OnTurn(index int) {
	h.mu.Lock()
	h.current = index
	opening := index > 0 && !h.opened
	if index > 0 {
		h.opened = true
	}
	h.mu.Unlock()

	if opening {
		h.log.Info("book opened")
	}
	h.log.Debug("turned", slog.Int("page", index))
	h.changed()
}

// turnFrom drops flips from widgets that have since been replaced.
func (h *Host) turnFrom(w Widget, index int) {
	h.mu.Lock()
	stale := h.widget != w
	h.mu.Unlock()
	if stale {
		return
	}
	h.OnTurn(index)
}

// ToggleAlternateImage flips between an artwork's primary and blacklight
// image. It returns the new state; artworks without an alternate image are
// left untouched and report false.
func (h *Host) ToggleAlternateImage(id string) bool {
	h.mu.Lock()
	i, ok := h.index[id]
	if !ok || !h.artworks[i].HasAlternate() {
		h.mu.Unlock()
		return false
	}
	h.alt[id] = !h.alt[id]
	on := h.alt[id]
	h.mu.Unlock()

	h.log.Debug("blacklight toggled", slog.String("artwork", id), slog.Bool("on", on))
	h.changed()
	return on
}

// AlternateShown reports whether the blacklight image is selected for id.
func (h *Host) AlternateShown(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.alt[id]
}

// DisplayedImage returns the image reference currently selected for id.
func (h *Host) DisplayedImage(id string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	i, ok := h.index[id]
	if !ok {
		return ""
	}
	a := h.artworks[i]
	if h.alt[id] && a.HasAlternate() {
		return a.BlacklightImage
	}
	return a.Image
}

// NavigateNext asks the widget for the next spread.
func (h *Host) NavigateNext() {
	if w := h.currentWidget(); w != nil {
		w.Next()
	}
}

// NavigatePrev asks the widget for the previous spread.
func (h *Host) NavigatePrev() {
	if w := h.currentWidget(); w != nil {
		w.Prev()
	}
}

// TurnTo asks the widget to jump to a sheet.
func (h *Host) TurnTo(index int) {
	if w := h.currentWidget(); w != nil {
		w.TurnToPage(index)
	}
}

// HandleKey maps arrow keys to navigation and reports whether the key was used.
func (h *Host) HandleKey(key string) bool {
	switch key {
	case KeyRight:
		h.NavigateNext()
	case KeyLeft:
		h.NavigatePrev()
	default:
		return false
	}
	return true
}

// BindKeys attaches the keyboard handler through a host-provided
// subscription. Close detaches it.
func (h *Host) BindKeys(subscribe func(handler func(key string)) (unsubscribe func())) {
	if subscribe == nil {
		return
	}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	prev := h.unbind
	h.unbind = nil
	h.mu.Unlock()
	if prev != nil {
		prev()
	}

	unsub := subscribe(func(key string) { h.HandleKey(key) })

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		if unsub != nil {
			unsub()
		}
		return
	}
	h.unbind = unsub
	h.mu.Unlock()
}

// Close detaches the keyboard handler and destroys the widget. Safe to call twice.
func (h *Host) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	w, unbind := h.widget, h.unbind
	h.widget, h.unbind = nil, nil
	h.mu.Unlock()

	if unbind != nil {
		unbind()
	}
	if w != nil {
		w.Destroy()
	}
	h.log.Debug("host closed")
}

func (h *Host) currentWidget() Widget {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.widget
}

func (h *Host) changed() {
	h.mu.Lock()
	fn := h.onChange
	h.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// CurrentPage returns the last page index reported by the widget.
func (h *Host) CurrentPage() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Opened reports whether the book has been opened during this session.
func (h *Host) Opened() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.opened
}

// Sheets returns a copy of the sheet sequence.
func (h *Host) Sheets() []domain.Sheet {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]domain.Sheet(nil), h.sheets...)
}

// Layout returns the layout of the attached widget.
func (h *Host) Layout() Layout {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.layout
}

// Compact reports whether the attached widget uses the compact layout.
func (h *Host) Compact() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.compact
}

// Attached reports whether a widget is currently attached.
func (h *Host) Attached() bool { return h.currentWidget() != nil }

// Artwork returns the record for id.
func (h *Host) Artwork(id string) (domain.Artwork, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	i, ok := h.index[id]
	if !ok {
		return domain.Artwork{}, false
	}
	return h.artworks[i], true
}

// Spread returns the sheet indexes visible for the current page.
func (h *Host) Spread() []int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Spread(h.current, len(h.sheets), h.layout.Portrait)
}

// PageLabel is the page indicator text: an invitation on the closed cover,
// otherwise the artwork spread out of the total. The back cover counts as the
// last artwork.
func (h *Host) PageLabel() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current == 0 {
		return ClosedLabel
	}
	return fmt.Sprintf("%d / %d", min((h.current+1)/2, len(h.artworks)), len(h.artworks))
}

// VisibleSheets returns the sheets shown for the current page.
func (h *Host) VisibleSheets() []domain.Sheet {
	h.mu.Lock()
	defer h.mu.Unlock()
	idx := Spread(h.current, len(h.sheets), h.layout.Portrait)
	out := make([]domain.Sheet, 0, len(idx))
	for _, i := range idx {
		out = append(out, h.sheets[i])
	}
	return out
}
