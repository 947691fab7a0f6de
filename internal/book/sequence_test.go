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
	"testing"

	"grimoire/internal/domain"
)

func sampleArtworks(n int) []domain.Artwork {
	out := make([]domain.Artwork, n)
	for i := range out {
		out[i] = domain.Artwork{
			ID:        fmt.Sprintf("art-%d", i),
			Title:     fmt.Sprintf("Art %d", i),
			Image:     fmt.Sprintf("/artworks/art-%d.jpg", i),
			Technique: "Acrylic",
		}
	}
	return out
}

func TestBuildPageSequence_Order(t *testing.T) {
	arts := sampleArtworks(3)
	sheets := BuildPageSequence(arts)
	if len(sheets) != 2*len(arts)+2 {
		t.Fatalf("want %d sheets, got %d", 2*len(arts)+2, len(sheets))
	}
	if sheets[0].Kind != domain.SheetFrontCover || !sheets[0].Hard {
		t.Fatalf("first sheet should be a hard front cover: %+v", sheets[0])
	}
	last := sheets[len(sheets)-1]
	if last.Kind != domain.SheetBackCover || !last.Hard {
		t.Fatalf("last sheet should be a hard back cover: %+v", last)
	}
	for i, a := range arts {
		img, desc := sheets[1+2*i], sheets[2+2*i]
		if img.Kind != domain.SheetArtwork || img.ArtworkID != a.ID || img.PageNumber != 2*i+1 {
			t.Fatalf("sheet %d: unexpected image sheet %+v", 1+2*i, img)
		}
		if desc.Kind != domain.SheetDescription || desc.ArtworkID != a.ID || desc.PageNumber != 2*i+2 {
			t.Fatalf("sheet %d: unexpected description sheet %+v", 2+2*i, desc)
		}
	}
	for i, s := range sheets {
		if s.Index != i {
			t.Fatalf("sheet %d carries index %d", i, s.Index)
		}
	}
}

func TestBuildPageSequence_DeterministicAndEmpty(t *testing.T) {
	arts := sampleArtworks(8)
	a, b := BuildPageSequence(arts), BuildPageSequence(arts)
	if len(a) != 18 || len(b) != 18 {
		t.Fatalf("8 artworks should give 18 sheets, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sheet %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
	if got := len(BuildPageSequence(nil)); got != 2 {
		t.Fatalf("no artworks should still give both covers, got %d", got)
	}
}

func TestBuildPageSequence_FollowsInputOrder(t *testing.T) {
	arts := sampleArtworks(4)
	arts[0], arts[3] = arts[3], arts[0]
	sheets := BuildPageSequence(arts)
	if sheets[1].ArtworkID != "art-3" || sheets[7].ArtworkID != "art-0" {
		t.Fatalf("reordering artworks should reorder the book: %+v", sheets)
	}
}
