/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package book

import (
	"reflect"
	"testing"
	"time"

	"grimoire/internal/domain"
)

func TestIsCompact(t *testing.T) {
	cases := []struct {
		vw   float64
		bp   int
		want bool
	}{
		{1023, 0, true},
		{1024, 0, false},
		{1920, 1024, false},
		{700, 800, true},
		{900, 800, false},
	}
	for _, c := range cases {
		if got := IsCompact(c.vw, c.bp); got != c.want {
			t.Fatalf("IsCompact(%v, %d) = %v, want %v", c.vw, c.bp, got, c.want)
		}
	}
}

func TestComputeLayout_Full(t *testing.T) {
	l := ComputeLayout(domain.Size{W: 1920, H: 1080}, false)
	// width floor(1920*0.75/2)=720; height min(floor(720/0.74)=972, floor(972)=972)
	if l.PageWidth != 720 || l.PageHeight != 972 || l.Portrait {
		t.Fatalf("unexpected full layout: %+v", l)
	}
	l = ComputeLayout(domain.Size{W: 1920, H: 700}, false)
	if l.PageHeight != 630 {
		t.Fatalf("height should be capped at 90%% of the viewport, got %v", l.PageHeight)
	}
}

func TestComputeLayout_Compact(t *testing.T) {
	l := ComputeLayout(domain.Size{W: 390, H: 844}, true)
	if l.PageWidth != 351 || l.PageHeight != 540 || !l.Portrait {
		t.Fatalf("unexpected compact layout: %+v", l)
	}
	l = ComputeLayout(domain.Size{W: 800, H: 600}, true)
	if l.PageWidth != 380 || l.PageHeight != 420 {
		t.Fatalf("compact bounds not applied: %+v", l)
	}
}

func TestNewWidgetConfig(t *testing.T) {
	cfg := NewWidgetConfig(Layout{PageWidth: 500, PageHeight: 676})
	if cfg.Width != 500 || cfg.Height != 676 || cfg.SizeMode != "fixed" {
		t.Fatalf("dimensions not carried: %+v", cfg)
	}
	if cfg.MinWidth != 350 || cfg.MaxWidth != 1500 || cfg.MinHeight != 500 || cfg.MaxHeight != 1800 {
		t.Fatalf("unexpected bounds: %+v", cfg)
	}
	if !cfg.ShowCover || cfg.MaxShadowOpacity != 0.35 || cfg.SwipeDistance != 40 || cfg.FlippingTime != 1200*time.Millisecond {
		t.Fatalf("unexpected turning options: %+v", cfg)
	}
	if cfg.UsePortrait {
		t.Fatalf("full layout should not request portrait")
	}
	if !NewWidgetConfig(Layout{Portrait: true}).UsePortrait {
		t.Fatalf("portrait layout should request portrait")
	}
}

func TestSpreadArithmetic(t *testing.T) {
	const n = 18
	if got := Spread(0, n, false); !reflect.DeepEqual(got, []int{0}) {
		t.Fatalf("cover spread = %v", got)
	}
	if got := Spread(4, n, false); !reflect.DeepEqual(got, []int{3, 4}) {
		t.Fatalf("spread of 4 = %v", got)
	}
	if got := Spread(17, n, false); !reflect.DeepEqual(got, []int{17}) {
		t.Fatalf("back cover spread = %v", got)
	}
	if got := Spread(4, n, true); !reflect.DeepEqual(got, []int{4}) {
		t.Fatalf("portrait spread = %v", got)
	}
	if NextSpread(0, n, false) != 1 || NextSpread(1, n, false) != 3 || NextSpread(17, n, false) != -1 {
		t.Fatalf("unexpected landscape next spreads")
	}
	if PrevSpread(0, n, false) != -1 || PrevSpread(1, n, false) != 0 || PrevSpread(4, n, false) != 1 {
		t.Fatalf("unexpected landscape prev spreads")
	}
	if NextSpread(5, n, true) != 6 || PrevSpread(5, n, true) != 4 || NextSpread(17, n, true) != -1 {
		t.Fatalf("unexpected portrait steps")
	}
	if Spread(3, 0, false) != nil || SpreadStart(99, n, false) != 17 {
		t.Fatalf("empty or out-of-range input not handled")
	}
}
