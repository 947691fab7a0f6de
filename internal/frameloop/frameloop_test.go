/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package frameloop

import (
	"sync"
	"testing"
	"time"
)

func TestManual_FiresOnceAndInOrder(t *testing.T) {
	m := NewManual()
	var got []int
	m.Request(func(float64) { got = append(got, 1) })
	m.Request(func(float64) { got = append(got, 2) })
	if n := m.Advance(16); n != 2 {
		t.Fatalf("Advance ran %d callbacks, want 2", n)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("callbacks out of order: %v", got)
	}
	if n := m.Advance(32); n != 0 {
		t.Fatalf("callbacks must be one-shot, second Advance ran %d", n)
	}
}

func TestManual_RescheduleFromCallbackWaitsForNextAdvance(t *testing.T) {
	m := NewManual()
	var stamps []float64
	var cb func(float64)
	cb = func(ts float64) {
		stamps = append(stamps, ts)
		m.Request(cb)
	}
	m.Request(cb)
	m.Advance(10)
	m.Advance(25)
	if len(stamps) != 2 || stamps[0] != 10 || stamps[1] != 25 {
		t.Fatalf("stamps = %v", stamps)
	}
	if m.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", m.Pending())
	}
}

func TestManual_Cancel(t *testing.T) {
	m := NewManual()
	fired := false
	h := m.Request(func(float64) { fired = true })
	m.Cancel(h)
	m.Cancel(h)
	m.Cancel(9999)
	if m.Advance(1) != 0 || fired {
		t.Fatalf("cancelled callback fired")
	}
}

func TestTicker_DeliversMonotonicTimestamps(t *testing.T) {
	tk := NewTicker(TickerOptions{FPS: 200})
	defer tk.Stop()

	var mu sync.Mutex
	var stamps []float64
	done := make(chan struct{})
	var cb func(float64)
	cb = func(ts float64) {
		mu.Lock()
		stamps = append(stamps, ts)
		n := len(stamps)
		mu.Unlock()
		if n == 3 {
			close(done)
			return
		}
		tk.Request(cb)
	}
	tk.Request(cb)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("ticker did not deliver 3 frames")
	}
	mu.Lock()
	defer mu.Unlock()
	for i := 1; i < len(stamps); i++ {
		if stamps[i] <= stamps[i-1] {
			t.Fatalf("timestamps not increasing: %v", stamps)
		}
	}
}

func TestTicker_DispatchAndCancel(t *testing.T) {
	var mu sync.Mutex
	dispatched := 0
	tk := NewTicker(TickerOptions{FPS: 200, Dispatch: func(fn func()) {
		mu.Lock()
		dispatched++
		mu.Unlock()
		fn()
	}})
	defer tk.Stop()

	cancelled := tk.Request(func(float64) { t.Errorf("cancelled callback fired") })
	tk.Cancel(cancelled)

	fired := make(chan struct{}, 1)
	tk.Request(func(float64) { fired <- struct{}{} })
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatalf("callback not fired")
	}
	mu.Lock()
	defer mu.Unlock()
	if dispatched != 1 {
		t.Fatalf("dispatched = %d, want 1", dispatched)
	}
}

func TestTicker_StopIsIdempotentAndDropsPending(t *testing.T) {
	tk := NewTicker(TickerOptions{FPS: 1})
	tk.Request(func(float64) {})
	tk.Stop()
	tk.Stop()
	if tk.Pending() != 0 {
		t.Fatalf("Pending() after Stop = %d", tk.Pending())
	}
}
