/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"grimoire/internal/book"
	"grimoire/internal/content"
	"grimoire/internal/domain"
)

// EPUBOptions controls EPUB export behavior.
type EPUBOptions struct {
	Title      string // defaults to the catalogue title
	Author     string
	Language   string // e.g. "en"
	Blacklight bool
	Modified   time.Time // dcterms:modified; zero means now
}

// BookEPUB writes the page sequence of cat as an EPUB 3 package: one XHTML
// document per sheet, artwork images re-encoded as PNG.
func BookEPUB(outPath string, cat content.Catalogue, images map[string]image.Image, opt EPUBOptions) error {
	if opt.Language == "" {
		opt.Language = "en"
	}
	if opt.Title == "" {
		opt.Title = cat.Title
	}
	if opt.Modified.IsZero() {
		opt.Modified = time.Now()
	}
	if !strings.HasSuffix(strings.ToLower(outPath), ".epub") {
		outPath += ".epub"
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create epub: %w", err)
	}
	defer func() { _ = f.Close() }()
	zw := zip.NewWriter(f)

	if err := addStoredZipFile(zw, "mimetype", []byte("application/epub+zip"), opt.Modified); err != nil {
		_ = zw.Close()
		return fmt.Errorf("write mimetype: %w", err)
	}
	containerXML := "" +
		"<?xml version=\"1.0\" encoding=\"utf-8\"?>\n" +
		"<container version=\"1.0\" xmlns=\"urn:oasis:names:tc:opendocument:xmlns:container\">\n" +
		"  <rootfiles>\n" +
		"    <rootfile full-path=\"OEBPS/content.opf\" media-type=\"application/oebps-package+xml\"/>\n" +
		"  </rootfiles>\n" +
		"</container>\n"
	if err := addZipFile(zw, "META-INF/container.xml", []byte(containerXML)); err != nil {
		_ = zw.Close()
		return fmt.Errorf("write container.xml: %w", err)
	}
	css := "body { margin:0; padding:1em; font-family:serif; background:#f4e9d8; color:#2b1d14; }\n" +
		".cover { background:#1a1024; color:#e8d5a3; text-align:center; min-height:100%; }\n" +
		"img { max-width:100%; max-height:90vh; display:block; margin:0 auto; }\n" +
		".folio { text-align:center; font-size:0.8em; }\n" +
		".missing { border:1px solid #2b1d14; padding:4em 1em; text-align:center; font-style:italic; }\n"
	if err := addZipFile(zw, "OEBPS/styles/book.css", []byte(css)); err != nil {
		_ = zw.Close()
		return fmt.Errorf("write css: %w", err)
	}

	e := &epubBook{cat: cat, images: images, opt: opt, zw: zw, imageFiles: map[string]string{}}
	sheets := book.BuildPageSequence(cat.Artworks)
	for _, s := range sheets {
		if err := e.sheet(s); err != nil {
			_ = zw.Close()
			return err
		}
	}
	if err := e.nav(); err != nil {
		_ = zw.Close()
		return err
	}
	if err := e.packageDoc(); err != nil {
		_ = zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close zip: %w", err)
	}
	return nil
}

type epubItem struct {
	id, href, mediaType, properties string
}

type epubBook struct {
	cat        content.Catalogue
	images     map[string]image.Image
	opt        EPUBOptions
	zw         *zip.Writer
	items      []epubItem
	spine      []string
	toc        []string
	imageFiles map[string]string // ref -> href
	coverID    string
}

func (e *epubBook) sheet(s domain.Sheet) error {
	var body strings.Builder
	class := ""
	title := ""
	switch s.Kind {
	case domain.SheetFrontCover:
		class, title = "cover", e.cat.Title
		href, err := e.image(e.cat.Logo)
		if err != nil {
			return err
		}
		if href != "" {
			fmt.Fprintf(&body, "<img src=\"%s\" alt=\"%s\"/>\n", href, xmlEsc(e.cat.Title))
		}
		fmt.Fprintf(&body, "<h1>%s</h1>\n<p><em>%s</em></p>\n", xmlEsc(e.cat.Title), xmlEsc(e.cat.Tagline))
	case domain.SheetArtwork:
		a, _ := e.cat.Artwork(s.ArtworkID)
		title = a.Title
		href, err := e.image(displayRef(a, e.opt.Blacklight))
		if err != nil {
			return err
		}
		if href != "" {
			fmt.Fprintf(&body, "<img src=\"%s\" alt=\"%s\"/>\n", href, xmlEsc(a.Title))
		} else {
			fmt.Fprintf(&body, "<div class=\"missing\">%s</div>\n", xmlEsc(a.Title))
		}
		fmt.Fprintf(&body, "<p class=\"folio\">%d</p>\n", s.PageNumber)
	case domain.SheetDescription:
		a, _ := e.cat.Artwork(s.ArtworkID)
		title = a.Title + " (notes)"
		fmt.Fprintf(&body, "<h2>%s</h2>\n", xmlEsc(a.Title))
		meta := a.Technique
		if a.Size != "" {
			meta += " | " + a.Size
		}
		fmt.Fprintf(&body, "<p><em>%s</em></p>\n", xmlEsc(meta))
		for _, para := range strings.Split(a.Description, "\n\n") {
			if strings.TrimSpace(para) != "" {
				fmt.Fprintf(&body, "<p>%s</p>\n", xmlEsc(strings.TrimSpace(para)))
			}
		}
		if a.HasAlternate() {
			body.WriteString("<p><strong>Blacklight reactive.</strong></p>\n")
		}
		fmt.Fprintf(&body, "<p class=\"folio\">%d</p>\n", s.PageNumber)
	case domain.SheetBackCover:
		c := e.cat.Contact
		class, title = "cover", c.Heading
		fmt.Fprintf(&body, "<h2>%s</h2>\n<p>%s</p>\n", xmlEsc(c.Heading), xmlEsc(c.Text))
		if c.Site != "" {
			fmt.Fprintf(&body, "<p><a href=\"https://%s\">%s</a></p>\n", xmlEsc(c.Site), xmlEsc(c.Site))
		}
		if c.Copyright != "" {
			fmt.Fprintf(&body, "<p><small>%s</small></p>\n", xmlEsc(c.Copyright))
		}
	}

	id := fmt.Sprintf("sheet-%02d", s.Index)
	href := id + ".xhtml"
	doc := fmt.Sprintf("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n"+
		"<html xmlns=\"http://www.w3.org/1999/xhtml\">\n<head>\n"+
		"<meta charset=\"utf-8\"/>\n"+
		"<title>%s</title>\n"+
		"<link rel=\"stylesheet\" type=\"text/css\" href=\"styles/book.css\"/>\n"+
		"</head>\n<body class=\"%s\">\n%s</body>\n</html>\n", xmlEsc(title), class, body.String())
	if err := addZipFile(e.zw, "OEBPS/"+href, []byte(doc)); err != nil {
		return fmt.Errorf("write %s: %w", href, err)
	}
	e.items = append(e.items, epubItem{id: id, href: href, mediaType: "application/xhtml+xml"})
	e.spine = append(e.spine, id)
	if s.Kind != domain.SheetDescription {
		e.toc = append(e.toc, fmt.Sprintf("<li><a href=\"%s\">%s</a></li>\n", href, xmlEsc(title)))
	}
	return nil
}

// image stores the PNG for ref once and returns its href, or "" when the
// asset is not available.
func (e *epubBook) image(ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	if href, ok := e.imageFiles[ref]; ok {
		return href, nil
	}
	img, ok := e.images[ref]
	if !ok || img == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	n := len(e.imageFiles) + 1
	id := fmt.Sprintf("img-%02d", n)
	href := fmt.Sprintf("images/%s.png", id)
	if err := addZipFile(e.zw, "OEBPS/"+href, buf.Bytes()); err != nil {
		return "", fmt.Errorf("zip add image: %w", err)
	}
	item := epubItem{id: id, href: href, mediaType: "image/png"}
	if ref == e.cat.Logo && e.coverID == "" {
		item.properties = "cover-image"
		e.coverID = id
	}
	e.items = append(e.items, item)
	e.imageFiles[ref] = href
	return href, nil
}

func (e *epubBook) nav() error {
	var b bytes.Buffer
	b.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n")
	b.WriteString("<html xmlns=\"http://www.w3.org/1999/xhtml\" xmlns:epub=\"http://www.idpf.org/2007/ops\">\n<head><title>Contents</title></head>\n<body>\n")
	b.WriteString("<nav epub:type=\"toc\" id=\"toc\"><ol>\n")
	for _, li := range e.toc {
		b.WriteString(li)
	}
	b.WriteString("</ol></nav>\n</body>\n</html>\n")
	if err := addZipFile(e.zw, "OEBPS/nav.xhtml", b.Bytes()); err != nil {
		return fmt.Errorf("write nav.xhtml: %w", err)
	}
	return nil
}

func (e *epubBook) packageDoc() error {
	var m bytes.Buffer
	m.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n")
	m.WriteString("<package version=\"3.0\" unique-identifier=\"pub-id\" xmlns=\"http://www.idpf.org/2007/opf\">\n")
	m.WriteString("  <metadata xmlns:dc=\"http://purl.org/dc/elements/1.1/\">\n")
	fmt.Fprintf(&m, "    <dc:identifier id=\"pub-id\">urn:uuid:%d</dc:identifier>\n", e.opt.Modified.UnixNano())
	fmt.Fprintf(&m, "    <dc:title>%s</dc:title>\n", xmlEsc(e.opt.Title))
	fmt.Fprintf(&m, "    <dc:language>%s</dc:language>\n", xmlEsc(e.opt.Language))
	if strings.TrimSpace(e.opt.Author) != "" {
		fmt.Fprintf(&m, "    <dc:creator>%s</dc:creator>\n", xmlEsc(e.opt.Author))
	}
	if strings.TrimSpace(e.cat.Tagline) != "" {
		fmt.Fprintf(&m, "    <dc:description>%s</dc:description>\n", xmlEsc(e.cat.Tagline))
	}
	fmt.Fprintf(&m, "    <meta property=\"dcterms:modified\">%s</meta>\n", e.opt.Modified.UTC().Format("2006-01-02T15:04:05Z"))
	m.WriteString("  </metadata>\n  <manifest>\n")
	m.WriteString("    <item id=\"nav\" href=\"nav.xhtml\" media-type=\"application/xhtml+xml\" properties=\"nav\"/>\n")
	m.WriteString("    <item id=\"css\" href=\"styles/book.css\" media-type=\"text/css\"/>\n")
	for _, it := range e.items {
		props := ""
		if it.properties != "" {
			props = fmt.Sprintf(" properties=\"%s\"", it.properties)
		}
		fmt.Fprintf(&m, "    <item id=\"%s\" href=\"%s\" media-type=\"%s\"%s/>\n", it.id, it.href, it.mediaType, props)
	}
	m.WriteString("  </manifest>\n  <spine>\n")
	for _, id := range e.spine {
		fmt.Fprintf(&m, "    <itemref idref=\"%s\"/>\n", id)
	}
	m.WriteString("  </spine>\n</package>\n")
	if err := addZipFile(e.zw, "OEBPS/content.opf", m.Bytes()); err != nil {
		return fmt.Errorf("write content.opf: %w", err)
	}
	return nil
}

// addStoredZipFile writes an entry with STORE method (no compression), required for EPUB mimetype.
func addStoredZipFile(zw *zip.Writer, name string, data []byte, mod time.Time) error {
	hdr := &zip.FileHeader{Name: name, Method: zip.Store, Modified: mod}
	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func addZipFile(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func xmlEsc(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			out = append(out, '&', 'a', 'm', 'p', ';')
		case '<':
			out = append(out, '&', 'l', 't', ';')
		case '>':
			out = append(out, '&', 'g', 't', ';')
		case '"':
			out = append(out, '&', 'q', 'u', 'o', 't', ';')
		case '\'':
			out = append(out, '&', 'a', 'p', 'o', 's', ';')
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}
