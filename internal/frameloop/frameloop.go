/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package frameloop provides animation-frame schedulers: a real-time Ticker
// and a Manual scheduler that only fires when told to.
//
// Both hand out one-shot callbacks. A callback that wants the next frame must
// request it again, and timestamps are wall-clock milliseconds since the
// scheduler started, so animation speed does not depend on frame rate.
package frameloop

import (
	"log/slog"
	"sync"
	"time"

	applog "grimoire/internal/log"
)

// Ticker fires pending callbacks at a fixed rate from a single goroutine.
type Ticker struct {
	mu       sync.Mutex
	next     uint64
	pending  map[uint64]func(float64)
	start    time.Time
	interval time.Duration
	dispatch func(func())
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	log      *slog.Logger
	now      func() time.Time
}

// TickerOptions configures a Ticker.
type TickerOptions struct {
	FPS int // defaults to 60
	// Dispatch runs each frame callback; the UI passes a function that hops
	// onto its event thread. nil runs callbacks on the ticker goroutine.
	Dispatch func(func())
}

// NewTicker starts a ticker goroutine. Call Stop to end it.
func NewTicker(opts TickerOptions) *Ticker {
	fps := opts.FPS
	if fps <= 0 {
		fps = 60
	}
	t := &Ticker{
		pending:  make(map[uint64]func(float64)),
		interval: time.Second / time.Duration(fps),
		dispatch: opts.Dispatch,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		log:      applog.WithComponent("frameloop"),
		now:      time.Now,
	}
	t.start = t.now()
	go t.loop()
	return t
}

// Request schedules cb for the next tick.
func (t *Ticker) Request(cb func(ts float64)) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	t.pending[t.next] = cb
	return t.next
}

// Cancel removes a pending callback. Once Cancel returns, cb will not be
// handed to Dispatch.
func (t *Ticker) Cancel(h uint64) {
	t.mu.Lock()
	delete(t.pending, h)
	t.mu.Unlock()
}

// Stop ends the ticker goroutine and drops pending callbacks. Safe to call twice.
func (t *Ticker) Stop() {
	t.stopOnce.Do(func() {
		close(t.stop)
		<-t.done
		t.mu.Lock()
		n := len(t.pending)
		t.pending = make(map[uint64]func(float64))
		t.mu.Unlock()
		t.log.Debug("ticker stopped", slog.Int("dropped", n))
	})
}

// Pending reports how many callbacks are waiting for the next tick.
func (t *Ticker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

func (t *Ticker) loop() {
	defer close(t.done)
	tk := time.NewTicker(t.interval)
	defer tk.Stop()
	for {
		select {
		case <-t.stop:
			return
		case now := <-tk.C:
			t.fire(float64(now.Sub(t.start)) / float64(time.Millisecond))
		}
	}
}

func (t *Ticker) fire(ts float64) {
	t.mu.Lock()
	if len(t.pending) == 0 {
		t.mu.Unlock()
		return
	}
	batch := t.pending
	t.pending = make(map[uint64]func(float64))
	t.mu.Unlock()

	for _, cb := range batch {
		if t.dispatch != nil {
			t.dispatch(func() { cb(ts) })
		} else {
			cb(ts)
		}
	}
}

// Manual is a deterministic scheduler for tests and offscreen rendering.
type Manual struct {
	mu      sync.Mutex
	next    uint64
	pending map[uint64]func(float64)
	order   []uint64
}

// NewManual returns an empty manual scheduler.
func NewManual() *Manual {
	return &Manual{pending: make(map[uint64]func(float64))}
}

func (m *Manual) Request(cb func(ts float64)) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	m.pending[m.next] = cb
	m.order = append(m.order, m.next)
	return m.next
}

func (m *Manual) Cancel(h uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, h)
}

// Pending reports how many callbacks are waiting.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Advance fires every callback pending at call time with timestamp ts and
// returns how many ran. Callbacks requested while firing wait for the next Advance.
func (m *Manual) Advance(ts float64) int {
	m.mu.Lock()
	var batch []func(float64)
	for _, h := range m.order {
		if cb, ok := m.pending[h]; ok {
			batch = append(batch, cb)
			delete(m.pending, h)
		}
	}
	m.order = m.order[:0]
	m.mu.Unlock()

	for _, cb := range batch {
		cb(ts)
	}
	return len(batch)
}
