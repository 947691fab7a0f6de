/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"fmt"

	"grimoire/internal/book"
	"grimoire/internal/config"
	"grimoire/internal/content"
	"grimoire/internal/domain"
)

// Options is what the desktop viewer starts with.
type Options struct {
	Config    config.AppConfig
	Catalogue content.Catalogue
	AssetsDir string
}

// WindowTitle is the title of the viewer window.
const WindowTitle = "Galaxtc | Cosmic Art Portfolio"

// sheetView is the text and image content of one sheet, independent of the
// toolkit that draws it.
type sheetView struct {
	Kind      domain.SheetKind
	Title     string
	Subtitle  string
	Body      string
	Note      string
	ImageRef  string
	Folio     string
	ArtworkID string
	CanToggle bool // artwork offers a blacklight image
	Toggled   bool
	Dark      bool // cover board rather than paper
}

func describeSheet(cat content.Catalogue, h *book.Host, s domain.Sheet) sheetView {
	v := sheetView{Kind: s.Kind, ArtworkID: s.ArtworkID}
	if s.PageNumber > 0 {
		v.Folio = fmt.Sprint(s.PageNumber)
	}
	switch s.Kind {
	case domain.SheetFrontCover:
		v.Dark = true
		v.Title = cat.Title
		v.Subtitle = cat.Tagline
		v.ImageRef = cat.Logo
	case domain.SheetArtwork:
		a, _ := h.Artwork(s.ArtworkID)
		v.Title = a.Title
		v.ImageRef = h.DisplayedImage(a.ID)
		v.CanToggle = a.HasAlternate()
		v.Toggled = h.AlternateShown(a.ID)
	case domain.SheetDescription:
		a, _ := h.Artwork(s.ArtworkID)
		v.Title = a.Title
		v.Subtitle = a.Technique
		if a.Size != "" {
			v.Subtitle += " | " + a.Size
		}
		v.Body = a.Description
		if a.HasAlternate() {
			v.Note = "Blacklight reactive: try the UV toggle on the facing page."
		}
	case domain.SheetBackCover:
		c := cat.Contact
		v.Dark = true
		v.Title = c.Heading
		v.Body = c.Text
		v.Subtitle = c.Site
		v.Note = c.Copyright
	}
	return v
}

// sessionState is written into crash reports.
func sessionState(h *book.Host, preset string) map[string]string {
	m := map[string]string{"preset": preset}
	if h == nil {
		return m
	}
	m["page"] = fmt.Sprint(h.CurrentPage())
	m["opened"] = fmt.Sprint(h.Opened())
	m["compact"] = fmt.Sprint(h.Compact())
	return m
}
