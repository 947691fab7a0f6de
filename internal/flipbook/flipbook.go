/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package flipbook is the in-process page-turning widget. It keeps the
// hard-cover page arithmetic of a page-flip engine: the cover stands alone,
// inner sheets pair up into spreads and portrait mode steps one sheet at a time.
package flipbook

import (
	"log/slog"
	"sync"

	"grimoire/internal/book"
	"grimoire/internal/domain"
	applog "grimoire/internal/log"
)

// Book implements book.Widget.
type Book struct {
	mu        sync.Mutex
	cfg       book.WidgetConfig
	sheets    []domain.Sheet
	index     int
	onFlip    func(int)
	destroyed bool
	log       *slog.Logger
}

var _ book.Widget = (*Book)(nil)

// New returns an unloaded book for cfg.
func New(cfg book.WidgetConfig) *Book {
	return &Book{cfg: cfg, log: applog.WithComponent("flipbook")}
}

// Factory adapts New to book.WidgetFactory.
func Factory() book.WidgetFactory {
	return func(cfg book.WidgetConfig) book.Widget { return New(cfg) }
}

// Load mounts sheets and opens at the configured start page.
func (b *Book) Load(sheets []domain.Sheet) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.destroyed || len(sheets) == 0 {
		return false
	}
	b.sheets = append([]domain.Sheet(nil), sheets...)
	b.index = book.SpreadStart(b.cfg.StartPage, len(b.sheets), b.cfg.UsePortrait)
	b.log.Debug("loaded", slog.Int("sheets", len(b.sheets)), slog.Int("start", b.index), slog.Bool("portrait", b.cfg.UsePortrait))
	return true
}

// Next turns to the following spread. At the back cover it does nothing.
func (b *Book) Next() {
	b.turn(func(i, n int, portrait bool) int { return book.NextSpread(i, n, portrait) })
}

// Prev turns to the preceding spread. At the front cover it does nothing.
func (b *Book) Prev() {
	b.turn(func(i, n int, portrait bool) int { return book.PrevSpread(i, n, portrait) })
}

// TurnToPage jumps to the spread containing index.
func (b *Book) TurnToPage(index int) {
	b.turn(func(_, n int, portrait bool) int { return book.SpreadStart(index, n, portrait) })
}

func (b *Book) turn(target func(index, count int, portrait bool) int) {
	b.mu.Lock()
	if b.destroyed || len(b.sheets) == 0 {
		b.mu.Unlock()
		return
	}
	to := target(b.index, len(b.sheets), b.cfg.UsePortrait)
	if to < 0 || to == b.index {
		b.mu.Unlock()
		return
	}
	b.index = to
	fn := b.onFlip
	b.mu.Unlock()

	if fn != nil {
		fn(to)
	}
}

// OnFlip registers the flip listener.
func (b *Book) OnFlip(fn func(index int)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.destroyed {
		b.onFlip = fn
	}
}

// CurrentIndex returns the first sheet of the visible spread.
func (b *Book) CurrentIndex() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.index
}

// PageCount returns the number of mounted sheets.
func (b *Book) PageCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sheets)
}

// Visible returns the sheets of the current spread.
func (b *Book) Visible() []domain.Sheet {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []domain.Sheet
	for _, i := range book.Spread(b.index, len(b.sheets), b.cfg.UsePortrait) {
		out = append(out, b.sheets[i])
	}
	return out
}

// Config returns the configuration the book was built with.
func (b *Book) Config() book.WidgetConfig { return b.cfg }

// Destroy unmounts the sheets and drops the listener.
func (b *Book) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.destroyed {
		return
	}
	b.destroyed = true
	b.sheets = nil
	b.onFlip = nil
	b.log.Debug("destroyed")
}
