/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"grimoire/internal/book"
	"grimoire/internal/content"
	"grimoire/internal/domain"
)

// PDFOptions controls the printed book.
// Units are points (pt). Zero sizes fall back to a 0.74 aspect sheet.
type PDFOptions struct {
	PageWidth     float64
	PageHeight    float64
	Margin        float64
	IncludeGuides bool // hairline trim box on every sheet
	Blacklight    bool // print blacklight images where an artwork has one
	CoverColor    domain.Color
	PaperColor    domain.Color
	InkColor      domain.Color
	GuideColor    domain.Color
}

func (o PDFOptions) withDefaults() PDFOptions {
	if o.PageWidth <= 0 {
		o.PageWidth = 420
	}
	if o.PageHeight <= 0 {
		o.PageHeight = math.Round(o.PageWidth / 0.74)
	}
	if o.Margin <= 0 {
		o.Margin = 36
	}
	if o.CoverColor == (domain.Color{}) {
		o.CoverColor = domain.RGB(0x1a, 0x10, 0x24)
	}
	if o.PaperColor == (domain.Color{}) {
		o.PaperColor = domain.RGB(0xf4, 0xe9, 0xd8)
	}
	if o.InkColor == (domain.Color{}) {
		o.InkColor = domain.RGB(0x2b, 0x1d, 0x14)
	}
	if o.GuideColor == (domain.Color{}) {
		o.GuideColor = domain.RGB(255, 0, 0)
	}
	return o
}

// BookPDF prints the page sequence of cat to a multi-page PDF at outPath.
// images holds decoded assets keyed by reference; missing entries print as a
// framed placeholder.
func BookPDF(outPath string, cat content.Catalogue, images map[string]image.Image, opt PDFOptions) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create pdf: %w", err)
	}
	if err := WriteBookPDF(f, cat, images, opt); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close pdf: %w", err)
	}
	return nil
}

// WriteBookPDF is BookPDF for an arbitrary writer.
func WriteBookPDF(w io.Writer, cat content.Catalogue, images map[string]image.Image, opt PDFOptions) error {
	opt = opt.withDefaults()
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: opt.PageWidth, Ht: opt.PageHeight},
	})
	pdf.SetTitle(cat.Title, true)
	pdf.SetAuthor(cat.Title, true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(opt.Margin, opt.Margin, opt.Margin)

	p := &pdfBook{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), cat: cat, images: images, opt: opt, registered: map[string]bool{}}
	for _, s := range book.BuildPageSequence(cat.Artworks) {
		pdf.AddPage()
		p.sheet(s)
		if opt.IncludeGuides {
			setDrawColor(pdf, opt.GuideColor)
			pdf.SetLineWidth(0.2)
			pdf.Rect(0, 0, opt.PageWidth, opt.PageHeight, "D")
		}
		if pdf.Err() {
			return fmt.Errorf("render sheet %d: %w", s.Index, pdf.Error())
		}
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

type pdfBook struct {
	pdf        *gofpdf.Fpdf
	tr         func(string) string
	cat        content.Catalogue
	images     map[string]image.Image
	opt        PDFOptions
	registered map[string]bool
}

func (p *pdfBook) sheet(s domain.Sheet) {
	switch s.Kind {
	case domain.SheetFrontCover:
		p.frontCover()
	case domain.SheetArtwork:
		a, _ := p.cat.Artwork(s.ArtworkID)
		p.fill(p.opt.PaperColor)
		p.picture(displayRef(a, p.opt.Blacklight), a.Title)
		p.folio(s.PageNumber, "L")
	case domain.SheetDescription:
		a, _ := p.cat.Artwork(s.ArtworkID)
		p.fill(p.opt.PaperColor)
		p.description(a)
		p.folio(s.PageNumber, "R")
	case domain.SheetBackCover:
		p.backCover()
	}
}

func (p *pdfBook) fill(c domain.Color) {
	setFillColor(p.pdf, c)
	p.pdf.Rect(0, 0, p.opt.PageWidth, p.opt.PageHeight, "F")
}

func (p *pdfBook) frontCover() {
	pdf, o := p.pdf, p.opt
	p.fill(o.CoverColor)
	inner := o.PageWidth - 2*o.Margin
	if p.placeImage(p.cat.Logo, o.Margin+inner/4, o.PageHeight*0.2, inner/2, inner/2) {
		pdf.SetY(o.PageHeight*0.2 + inner/2 + 24)
	} else {
		pdf.SetY(o.PageHeight * 0.4)
	}
	pdf.SetTextColor(0xe8, 0xd5, 0xa3)
	pdf.SetFont("Helvetica", "B", 32)
	pdf.SetX(o.Margin)
	pdf.CellFormat(inner, 40, p.tr(p.cat.Title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "I", 12)
	pdf.SetX(o.Margin)
	pdf.MultiCell(inner, 16, p.tr(p.cat.Tagline), "", "C", false)
}

func (p *pdfBook) backCover() {
	pdf, o, c := p.pdf, p.opt, p.cat.Contact
	p.fill(o.CoverColor)
	inner := o.PageWidth - 2*o.Margin
	pdf.SetTextColor(0xe8, 0xd5, 0xa3)
	pdf.SetY(o.PageHeight * 0.3)
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetX(o.Margin)
	pdf.CellFormat(inner, 30, p.tr(c.Heading), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetX(o.Margin)
	pdf.MultiCell(inner, 15, p.tr(c.Text), "", "C", false)
	if c.Site != "" {
		pdf.Ln(10)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetX(o.Margin)
		pdf.CellFormat(inner, 18, p.tr(c.Site), "", 1, "C", false, 0, "https://"+c.Site)
	}
	if c.Copyright != "" {
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetXY(o.Margin, o.PageHeight-o.Margin-12)
		pdf.CellFormat(inner, 12, p.tr(c.Copyright), "", 0, "C", false, 0, "")
	}
}

func (p *pdfBook) picture(ref, title string) {
	o := p.opt
	x, y := o.Margin, o.Margin
	w, h := o.PageWidth-2*o.Margin, o.PageHeight-2*o.Margin-24
	if p.placeImage(ref, x, y, w, h) {
		return
	}
	setDrawColor(p.pdf, o.InkColor)
	p.pdf.SetLineWidth(0.5)
	p.pdf.Rect(x, y, w, h, "D")
	p.pdf.SetTextColor(int(o.InkColor.R), int(o.InkColor.G), int(o.InkColor.B))
	p.pdf.SetFont("Helvetica", "I", 11)
	p.pdf.SetXY(x, y+h/2-8)
	p.pdf.CellFormat(w, 16, p.tr(title), "", 0, "C", false, 0, "")
}

// placeImage fits the decoded image for ref into the box, centred. It reports
// false when the image is not available.
func (p *pdfBook) placeImage(ref string, x, y, w, h float64) bool {
	img, ok := p.images[ref]
	if !ok || img == nil || ref == "" {
		return false
	}
	if !p.registered[ref] {
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return false
		}
		p.pdf.RegisterImageOptionsReader(ref, gofpdf.ImageOptions{ImageType: "PNG"}, &buf)
		if p.pdf.Err() {
			// a broken asset must not sink the whole book
			p.pdf.ClearError()
			return false
		}
		p.registered[ref] = true
	}
	b := img.Bounds()
	iw, ih := fitInside(float64(b.Dx()), float64(b.Dy()), w, h)
	p.pdf.ImageOptions(ref, x+(w-iw)/2, y+(h-ih)/2, iw, ih, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	return true
}

func (p *pdfBook) description(a domain.Artwork) {
	pdf, o := p.pdf, p.opt
	inner := o.PageWidth - 2*o.Margin
	pdf.SetTextColor(int(o.InkColor.R), int(o.InkColor.G), int(o.InkColor.B))
	pdf.SetXY(o.Margin, o.Margin+12)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.MultiCell(inner, 24, p.tr(a.Title), "", "L", false)
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 11)
	pdf.SetX(o.Margin)
	meta := a.Technique
	if a.Size != "" {
		meta += " | " + a.Size
	}
	pdf.MultiCell(inner, 14, p.tr(meta), "", "L", false)
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetX(o.Margin)
	pdf.MultiCell(inner, 15, p.tr(a.Description), "", "L", false)
	if a.HasAlternate() {
		pdf.Ln(10)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetX(o.Margin)
		pdf.MultiCell(inner, 14, p.tr("Blacklight reactive: the piece changes under UV light."), "", "L", false)
	}
}

func (p *pdfBook) folio(n int, align string) {
	if n <= 0 {
		return
	}
	o := p.opt
	p.pdf.SetFont("Helvetica", "", 9)
	p.pdf.SetTextColor(int(o.InkColor.R), int(o.InkColor.G), int(o.InkColor.B))
	p.pdf.SetXY(o.Margin, o.PageHeight-o.Margin+4)
	p.pdf.CellFormat(o.PageWidth-2*o.Margin, 12, fmt.Sprint(n), "", 0, align, false, 0, "")
}

// displayRef picks the image printed for an artwork.
func displayRef(a domain.Artwork, blacklight bool) string {
	if blacklight && a.HasAlternate() {
		return a.BlacklightImage
	}
	return a.Image
}

// ImageRefs lists every asset a book export may print.
func ImageRefs(cat content.Catalogue, blacklight bool) []string {
	refs := make([]string, 0, len(cat.Artworks)+1)
	if cat.Logo != "" {
		refs = append(refs, cat.Logo)
	}
	for _, a := range cat.Artworks {
		refs = append(refs, displayRef(a, blacklight))
	}
	return refs
}

func fitInside(iw, ih, w, h float64) (float64, float64) {
	if iw <= 0 || ih <= 0 {
		return w, h
	}
	s := math.Min(w/iw, h/ih)
	return iw * s, ih * s
}

func setDrawColor(pdf *gofpdf.Fpdf, c domain.Color) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c domain.Color) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}
