//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"grimoire/internal/book"
	"grimoire/internal/content"
	"grimoire/internal/domain"
)

var (
	coverColor = color.NRGBA{R: 0x1a, G: 0x10, B: 0x24, A: 0xf2}
	paperColor = color.NRGBA{R: 0xf4, G: 0xe9, B: 0xd8, A: 0xff}
	goldColor  = color.NRGBA{R: 0xe8, G: 0xd5, B: 0xa3, A: 0xff}
	inkColor   = color.NRGBA{R: 0x2b, G: 0x1d, B: 0x14, A: 0xff}
)

// BookStage shows the current spread of the book with navigation controls.
// Its renderer's Layout reports the viewport to the host so the turning
// widget is rebuilt when the layout mode changes.
type BookStage struct {
	widget.BaseWidget

	host       *book.Host
	cat        content.Catalogue
	breakpoint int
	images     map[string]image.Image

	spread    *fyne.Container
	pageLabel *widget.Label
	prev      *widget.Button
	next      *widget.Button
	root      *fyne.Container
	viewport  fyne.Size
}

// NewBookStage builds the stage for host. Call Render after state changes.
func NewBookStage(host *book.Host, cat content.Catalogue, breakpoint int) *BookStage {
	s := &BookStage{host: host, cat: cat, breakpoint: breakpoint, images: map[string]image.Image{}}
	s.spread = container.NewHBox()
	s.pageLabel = widget.NewLabelWithStyle(book.ClosedLabel, fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	s.prev = widget.NewButtonWithIcon("", theme.NavigateBackIcon(), host.NavigatePrev)
	s.next = widget.NewButtonWithIcon("", theme.NavigateNextIcon(), host.NavigateNext)
	controls := container.NewHBox(layout.NewSpacer(), s.prev, s.pageLabel, s.next, layout.NewSpacer())
	s.root = container.NewBorder(nil, controls, nil, nil, container.NewCenter(s.spread))
	s.ExtendBaseWidget(s)
	return s
}

// SetImages installs decoded assets and redraws.
func (s *BookStage) SetImages(images map[string]image.Image) {
	for k, v := range images {
		s.images[k] = v
	}
	s.Render()
}

// Render rebuilds the visible spread from the host state.
func (s *BookStage) Render() {
	l := s.host.Layout()
	size := fyne.NewSize(float32(l.PageWidth), float32(l.PageHeight))
	var cards []fyne.CanvasObject
	for _, sh := range s.host.VisibleSheets() {
		cards = append(cards, s.card(describeSheet(s.cat, s.host, sh), size))
	}
	s.spread.Objects = cards
	s.spread.Refresh()

	s.pageLabel.SetText(s.host.PageLabel())
	page, count := s.host.CurrentPage(), len(s.host.Sheets())
	setEnabled(s.prev, page > 0)
	setEnabled(s.next, book.NextSpread(page, count, l.Portrait) >= 0)
}

func setEnabled(b *widget.Button, on bool) {
	if on {
		b.Enable()
	} else {
		b.Disable()
	}
}

func (s *BookStage) card(v sheetView, size fyne.Size) fyne.CanvasObject {
	bg := canvas.NewRectangle(paperColor)
	fg := color.Color(inkColor)
	if v.Dark {
		bg.FillColor = coverColor
		bg.StrokeColor = goldColor
		bg.StrokeWidth = 2
		fg = goldColor
	}
	bg.CornerRadius = 4
	bg.SetMinSize(size)

	title := canvas.NewText(v.Title, fg)
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.TextSize = 20
	title.Alignment = fyne.TextAlignCenter

	var body []fyne.CanvasObject
	switch v.Kind {
	case domain.SheetFrontCover:
		body = append(body, layout.NewSpacer())
		if img := s.image(v.ImageRef, fyne.NewSize(size.Width/2, size.Width/2)); img != nil {
			body = append(body, img)
		}
		title.TextSize = 32
		body = append(body, title, centred(v.Subtitle, fg, true), layout.NewSpacer())
	case domain.SheetArtwork:
		pic := s.image(v.ImageRef, fyne.NewSize(size.Width-32, size.Height-96))
		if pic == nil {
			pic = container.NewCenter(centred(v.Title, fg, true))
		}
		body = append(body, pic, title)
		if v.CanToggle {
			id := v.ArtworkID
			label := "Blacklight"
			if v.Toggled {
				label = "Daylight"
			}
			body = append(body, container.NewCenter(widget.NewButton(label, func() { s.host.ToggleAlternateImage(id) })))
		}
		body = append(body, layout.NewSpacer(), centred(v.Folio, fg, false))
	case domain.SheetDescription:
		title.Alignment = fyne.TextAlignLeading
		desc := widget.NewLabel(v.Body)
		desc.Wrapping = fyne.TextWrapWord
		body = append(body, title, centred(v.Subtitle, fg, true), desc)
		if v.Note != "" {
			note := widget.NewLabelWithStyle(v.Note, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
			note.Wrapping = fyne.TextWrapWord
			body = append(body, note)
		}
		body = append(body, layout.NewSpacer(), centred(v.Folio, fg, false))
	case domain.SheetBackCover:
		text := widget.NewLabel(v.Body)
		text.Wrapping = fyne.TextWrapWord
		text.Alignment = fyne.TextAlignCenter
		body = append(body, layout.NewSpacer(), title, text, centred(v.Subtitle, fg, false), layout.NewSpacer(), centred(v.Note, fg, false))
	}
	return container.NewStack(bg, container.NewPadded(container.NewVBox(body...)))
}

func (s *BookStage) image(ref string, box fyne.Size) fyne.CanvasObject {
	img, ok := s.images[ref]
	if !ok || img == nil {
		return nil
	}
	ci := canvas.NewImageFromImage(img)
	ci.FillMode = canvas.ImageFillContain
	ci.SetMinSize(box)
	return ci
}

func centred(text string, c color.Color, italic bool) *canvas.Text {
	t := canvas.NewText(text, c)
	t.Alignment = fyne.TextAlignCenter
	t.TextStyle = fyne.TextStyle{Italic: italic}
	return t
}

func (s *BookStage) resized(size fyne.Size) {
	if size == s.viewport {
		return
	}
	s.viewport = size
	vw := float64(size.Width)
	s.host.AttachTurningWidget(domain.Size{W: vw, H: float64(size.Height)}, book.IsCompact(vw, s.breakpoint))
}

// CreateRenderer lays the stage out over the whole window.
func (s *BookStage) CreateRenderer() fyne.WidgetRenderer {
	return &bookStageRenderer{stage: s}
}

type bookStageRenderer struct {
	stage *BookStage
}

func (r *bookStageRenderer) Destroy()                     {}
func (r *bookStageRenderer) Objects() []fyne.CanvasObject { return []fyne.CanvasObject{r.stage.root} }
func (r *bookStageRenderer) MinSize() fyne.Size           { return fyne.NewSize(320, 480) }
func (r *bookStageRenderer) Refresh()                     { r.stage.root.Refresh() }

func (r *bookStageRenderer) Layout(size fyne.Size) {
	r.stage.root.Resize(size)
	r.stage.root.Move(fyne.NewPos(0, 0))
	r.stage.resized(size)
}
