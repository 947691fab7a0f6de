/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package book

import (
	"testing"

	"grimoire/internal/domain"
)

type fakeWidget struct {
	cfg       WidgetConfig
	sheets    []domain.Sheet
	index     int
	onFlip    func(int)
	destroyed bool
}

func (w *fakeWidget) Load(sheets []domain.Sheet) bool {
	if len(sheets) == 0 {
		return false
	}
	w.sheets = sheets
	w.index = SpreadStart(w.cfg.StartPage, len(sheets), w.cfg.UsePortrait)
	return true
}

func (w *fakeWidget) move(to int) {
	if to < 0 {
		return
	}
	w.index = to
	if w.onFlip != nil {
		w.onFlip(to)
	}
}

func (w *fakeWidget) Next() { w.move(NextSpread(w.index, len(w.sheets), w.cfg.UsePortrait)) }
func (w *fakeWidget) Prev() { w.move(PrevSpread(w.index, len(w.sheets), w.cfg.UsePortrait)) }
func (w *fakeWidget) TurnToPage(i int) {
	w.move(SpreadStart(i, len(w.sheets), w.cfg.UsePortrait))
}
func (w *fakeWidget) OnFlip(fn func(int)) { w.onFlip = fn }
func (w *fakeWidget) CurrentIndex() int   { return w.index }
func (w *fakeWidget) PageCount() int      { return len(w.sheets) }
func (w *fakeWidget) Destroy()            { w.destroyed = true }

type fakeFactory struct {
	built []*fakeWidget
}

func (f *fakeFactory) make(cfg WidgetConfig) Widget {
	w := &fakeWidget{cfg: cfg}
	f.built = append(f.built, w)
	return w
}

func (f *fakeFactory) last() *fakeWidget { return f.built[len(f.built)-1] }

var desktop = domain.Size{W: 1920, H: 1080}

func newTestHost(t *testing.T, n int) (*Host, *fakeFactory) {
	t.Helper()
	f := &fakeFactory{}
	h := NewHost(sampleArtworks(n), f.make)
	if !h.AttachTurningWidget(desktop, false) {
		t.Fatalf("expected widget to attach")
	}
	return h, f
}

func TestHost_OpenedFlagNeverReverts(t *testing.T) {
	h, _ := newTestHost(t, 8)
	if len(h.Sheets()) != 18 {
		t.Fatalf("want 18 sheets, got %d", len(h.Sheets()))
	}
	if h.Opened() || h.CurrentPage() != 0 {
		t.Fatalf("fresh host should be closed at page 0")
	}
	h.OnTurn(1)
	if !h.Opened() || h.CurrentPage() != 1 {
		t.Fatalf("turning to page 1 should open the book")
	}
	h.OnTurn(0)
	if !h.Opened() {
		t.Fatalf("opened flag must stay true after returning to the cover")
	}
	if h.CurrentPage() != 0 {
		t.Fatalf("current page should follow the widget, got %d", h.CurrentPage())
	}
}

func TestHost_NavigationThroughWidget(t *testing.T) {
	h, f := newTestHost(t, 8)
	w := f.last()
	if w.PageCount() != 18 {
		t.Fatalf("widget should receive all sheets, got %d", w.PageCount())
	}
	h.NavigateNext()
	if h.CurrentPage() != 1 || !h.Opened() {
		t.Fatalf("next from cover should land on 1, got %d", h.CurrentPage())
	}
	h.NavigateNext()
	if h.CurrentPage() != 3 {
		t.Fatalf("next spread should start at 3, got %d", h.CurrentPage())
	}
	h.NavigatePrev()
	if h.CurrentPage() != 1 {
		t.Fatalf("prev should return to 1, got %d", h.CurrentPage())
	}
	h.TurnTo(17)
	if h.CurrentPage() != 17 || len(h.Spread()) != 1 {
		t.Fatalf("back cover should be alone, page %d spread %v", h.CurrentPage(), h.Spread())
	}
	h.NavigateNext()
	if h.CurrentPage() != 17 {
		t.Fatalf("next at the end should be a no-op, got %d", h.CurrentPage())
	}
}

func TestHost_HandleKey(t *testing.T) {
	h, _ := newTestHost(t, 2)
	if !h.HandleKey(KeyRight) || h.CurrentPage() != 1 {
		t.Fatalf("Right should advance, got %d", h.CurrentPage())
	}
	if !h.HandleKey(KeyLeft) || h.CurrentPage() != 0 {
		t.Fatalf("Left should go back, got %d", h.CurrentPage())
	}
	if h.HandleKey("Space") {
		t.Fatalf("unrelated keys should be ignored")
	}
}

func TestHost_BindKeysAndClose(t *testing.T) {
	h, f := newTestHost(t, 2)
	var handler func(string)
	unsubscribed := 0
	h.BindKeys(func(fn func(string)) func() {
		handler = fn
		return func() { unsubscribed++ }
	})
	handler(KeyRight)
	if h.CurrentPage() != 1 {
		t.Fatalf("bound handler should navigate, got %d", h.CurrentPage())
	}
	h.Close()
	h.Close()
	if unsubscribed != 1 {
		t.Fatalf("Close should unsubscribe exactly once, got %d", unsubscribed)
	}
	if !f.last().destroyed || h.Attached() {
		t.Fatalf("Close should destroy the widget")
	}
	h.NavigateNext()
	if h.AttachTurningWidget(desktop, false) {
		t.Fatalf("closed host should not attach a widget")
	}
}

func TestHost_ToggleAlternateImage(t *testing.T) {
	arts := sampleArtworks(2)
	arts[1].HasBlacklight = true
	arts[1].BlacklightImage = "/artworks/art-1-uv.jpg"
	h := NewHost(arts, (&fakeFactory{}).make)

	if h.ToggleAlternateImage("art-0") || h.DisplayedImage("art-0") != arts[0].Image {
		t.Fatalf("artwork without alternate must be unaffected")
	}
	if !h.ToggleAlternateImage("art-1") || h.DisplayedImage("art-1") != arts[1].BlacklightImage {
		t.Fatalf("toggle should select the blacklight image")
	}
	if !h.AlternateShown("art-1") {
		t.Fatalf("AlternateShown should report the toggle")
	}
	if h.ToggleAlternateImage("art-1") || h.DisplayedImage("art-1") != arts[1].Image {
		t.Fatalf("second toggle should restore the primary image")
	}
	if h.ToggleAlternateImage("missing") || h.DisplayedImage("missing") != "" {
		t.Fatalf("unknown id should be ignored")
	}
}

func TestHost_RebuildOnLayoutModeChange(t *testing.T) {
	h, f := newTestHost(t, 8)
	first := f.last()
	h.TurnTo(5)

	if !h.AttachTurningWidget(domain.Size{W: 1280, H: 800}, false) || len(f.built) != 1 {
		t.Fatalf("same mode should keep the widget, built %d", len(f.built))
	}
	if !h.AttachTurningWidget(domain.Size{W: 390, H: 844}, true) {
		t.Fatalf("compact attach failed")
	}
	if len(f.built) != 2 || !first.destroyed {
		t.Fatalf("mode change should destroy and rebuild, built %d", len(f.built))
	}
	second := f.last()
	if !second.cfg.UsePortrait || second.cfg.StartPage != 5 || second.CurrentIndex() != 5 {
		t.Fatalf("rebuilt widget should be portrait at page 5: %+v", second.cfg)
	}
	if !h.Compact() || !h.Layout().Portrait {
		t.Fatalf("host should report the compact layout")
	}
	h.NavigateNext()
	if h.CurrentPage() != 6 {
		t.Fatalf("portrait next should move one sheet, got %d", h.CurrentPage())
	}
	first.Next()
	if h.CurrentPage() != 6 {
		t.Fatalf("destroyed widget must not drive the host")
	}
}

func TestHost_SkipsWithoutSheetsOrFactory(t *testing.T) {
	h := NewHost(nil, nil)
	if h.AttachTurningWidget(desktop, false) || h.Attached() {
		t.Fatalf("nil factory should skip construction")
	}
	h.NavigateNext()
	h.HandleKey(KeyRight)
	if h.CurrentPage() != 0 {
		t.Fatalf("navigation without widget should be a no-op")
	}
}

func TestHost_PageLabelAndOnChange(t *testing.T) {
	changes := 0
	f := &fakeFactory{}
	h := NewHost(sampleArtworks(8), f.make, WithOnChange(func() { changes++ }))
	if h.PageLabel() != ClosedLabel {
		t.Fatalf("closed label expected, got %q", h.PageLabel())
	}
	h.AttachTurningWidget(desktop, false)
	h.OnTurn(3)
	if got := h.PageLabel(); got != "2 / 8" {
		t.Fatalf("label at page 3 = %q", got)
	}
	if changes != 2 {
		t.Fatalf("attach and turn should notify twice, got %d", changes)
	}
	vis := h.VisibleSheets()
	if len(vis) != 2 || vis[0].Kind != domain.SheetArtwork || vis[1].Kind != domain.SheetDescription {
		t.Fatalf("spread at 3 should be image then description: %+v", vis)
	}
}

func TestHost_PageLabelClampedOnBackCover(t *testing.T) {
	f := &fakeFactory{}
	h := NewHost(sampleArtworks(8), f.make)
	h.AttachTurningWidget(desktop, false)

	last := len(h.Sheets()) - 1
	if h.Sheets()[last].Kind != domain.SheetBackCover {
		t.Fatalf("last sheet should be the back cover")
	}
	for _, tc := range []struct {
		page int
		want string
	}{
		{1, "1 / 8"},
		{last - 1, "8 / 8"},
		{last, "8 / 8"},
	} {
		h.OnTurn(tc.page)
		if got := h.PageLabel(); got != tc.want {
			t.Fatalf("label at page %d = %q, want %q", tc.page, got, tc.want)
		}
	}
}
