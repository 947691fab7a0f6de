/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the content model of the portfolio: artworks, the sheets
// they are laid out on, and a few small geometry and colour primitives shared
// by the renderer and the book host.

// Artwork is a single catalogue entry. Records are immutable once loaded.
type Artwork struct {
	ID              string `yaml:"id" json:"id"`
	Title           string `yaml:"title" json:"title"`
	Image           string `yaml:"image" json:"image"`
	BlacklightImage string `yaml:"blacklightImage,omitempty" json:"blacklightImage,omitempty"`
	Technique       string `yaml:"technique" json:"technique"`
	Size            string `yaml:"size,omitempty" json:"size,omitempty"`
	Description     string `yaml:"description,omitempty" json:"description,omitempty"`
	HasBlacklight   bool   `yaml:"hasBlacklight,omitempty" json:"hasBlacklight,omitempty"`
}

// HasAlternate reports whether the artwork carries a usable blacklight image.
func (a Artwork) HasAlternate() bool { return a.HasBlacklight && a.BlacklightImage != "" }

// SheetKind identifies what a sheet displays.
type SheetKind string

const (
	SheetFrontCover  SheetKind = "front-cover"
	SheetArtwork     SheetKind = "artwork-image"
	SheetDescription SheetKind = "artwork-description"
	SheetBackCover   SheetKind = "back-cover"
)

// Sheet is one page surface handed to the turning widget.
type Sheet struct {
	Index      int       `json:"index"`
	Kind       SheetKind `json:"kind"`
	ArtworkID  string    `json:"artworkId,omitempty"`
	PageNumber int       `json:"pageNumber,omitempty"` // printed folio; 0 for unnumbered sheets
	Hard       bool      `json:"hard,omitempty"`       // stiff cover board
}

// Contact is the closing contact block shown inside the back cover.
type Contact struct {
	Heading   string `yaml:"heading" json:"heading"`
	Text      string `yaml:"text" json:"text"`
	Site      string `yaml:"site" json:"site"`
	Copyright string `yaml:"copyright" json:"copyright"`
}

type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// RGB returns an opaque colour.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: 255} }
