/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import "testing"

func TestArtworkHasAlternate(t *testing.T) {
	cases := []struct {
		name string
		a    Artwork
		want bool
	}{
		{"plain", Artwork{ID: "moon", Image: "moon.jpg"}, false},
		{"flag without image", Artwork{ID: "x", HasBlacklight: true}, false},
		{"image without flag", Artwork{ID: "x", BlacklightImage: "uv.jpg"}, false},
		{"both", Artwork{ID: "glow", HasBlacklight: true, BlacklightImage: "uv.jpg"}, true},
	}
	for _, c := range cases {
		if got := c.a.HasAlternate(); got != c.want {
			t.Fatalf("%s: HasAlternate() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestRGBIsOpaque(t *testing.T) {
	if c := RGB(1, 2, 3); c.A != 255 || c.R != 1 || c.G != 2 || c.B != 3 {
		t.Fatalf("RGB() = %#v", c)
	}
}
