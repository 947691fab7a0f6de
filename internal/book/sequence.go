/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package book hosts the page-turning portfolio. It owns the ordered sheet
// sequence and the session state around it (current page, whether the book
// has been opened, blacklight toggles) and delegates the turning itself to a
// Widget.
package book

import "grimoire/internal/domain"

// BuildPageSequence lays out a front cover, an image and a description sheet
// per artwork in order and a back cover: 2N+2 sheets. The contact block is
// printed on the inside of the back cover.
func BuildPageSequence(artworks []domain.Artwork) []domain.Sheet {
	sheets := make([]domain.Sheet, 0, 2*len(artworks)+2)
	add := func(s domain.Sheet) {
		s.Index = len(sheets)
		sheets = append(sheets, s)
	}
	add(domain.Sheet{Kind: domain.SheetFrontCover, Hard: true})
	for i, a := range artworks {
		add(domain.Sheet{Kind: domain.SheetArtwork, ArtworkID: a.ID, PageNumber: 2*i + 1})
		add(domain.Sheet{Kind: domain.SheetDescription, ArtworkID: a.ID, PageNumber: 2*i + 2})
	}
	add(domain.Sheet{Kind: domain.SheetBackCover, Hard: true})
	return sheets
}
