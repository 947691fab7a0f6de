/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package content

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadBuiltin(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(c.Artworks) != 8 {
		t.Fatalf("artworks = %d, want 8", len(c.Artworks))
	}
	if c.Artworks[0].ID != "red-conqueror" || c.Artworks[7].ID != "sofia" {
		t.Fatalf("catalogue order changed: first=%s last=%s", c.Artworks[0].ID, c.Artworks[7].ID)
	}
	alt := 0
	for _, a := range c.Artworks {
		if a.HasAlternate() {
			alt++
		}
	}
	if alt != 2 {
		t.Fatalf("artworks with blacklight image = %d, want 2", alt)
	}
	if len(c.Hero) != 4 || c.Contact.Site != "galaxtc.nl" {
		t.Fatalf("hero/contact not loaded: %+v %+v", c.Hero, c.Contact)
	}
	moon, ok := c.Artwork("moon")
	if !ok || moon.Size != "90x38 cm" || !strings.HasPrefix(moon.Description, "Earth's eternal companion") {
		t.Fatalf("Artwork(moon) = %+v, %v", moon, ok)
	}
}

func TestParseRejectsMissingRequiredFields(t *testing.T) {
	doc := []byte("artworks:\n  - id: moon\n    image: moon.jpg\n    technique: oil\n")
	_, err := Parse(doc)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(ve.Error(), "title") {
		t.Fatalf("error does not mention title: %v", ve)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	doc := []byte("artworks:\n  - id: moon\n    title: Moon\n    image: moon.jpg\n    technique: oil\n    price: 12\n")
	var ve *ValidationError
	if _, err := Parse(doc); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestParseRejectsDuplicateIDs(t *testing.T) {
	doc := []byte(`artworks:
  - {id: moon, title: A, image: a.jpg, technique: oil}
  - {id: moon, title: B, image: b.jpg, technique: oil}
`)
	if _, err := Parse(doc); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	var ve *ValidationError
	if _, err := Parse(nil); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for empty doc, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cat.yaml")
	doc := "title: Test\nartworks:\n  - {id: a, title: A, image: a.png, technique: ink}\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if c.Title != "Test" || len(c.Artworks) != 1 {
		t.Fatalf("unexpected catalogue: %+v", c)
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestPreloadToleratesFailures(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, AssetPath(dir, "/artwork/ok.png"))
	if err := os.WriteFile(AssetPath(dir, "/artwork/broken.jpg"), []byte("not an image"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := Preload(context.Background(), DirOpener(dir), []string{"/artwork/ok.png", "/artwork/broken.jpg", "/artwork/missing.jpg"})
	if err != nil {
		t.Fatalf("Preload error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("decoded %d images, want 1", len(got))
	}
	img, ok := got["/artwork/ok.png"]
	if !ok || img.Bounds().Dx() != 3 {
		t.Fatalf("ok.png not decoded: %v", got)
	}
}

func TestPreloadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dir := t.TempDir()
	writePNG(t, AssetPath(dir, "/a.png"))
	if _, err := Preload(ctx, DirOpener(dir), []string{"/a.png"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPreloadNothingToDo(t *testing.T) {
	got, err := Preload(context.Background(), nil, []string{"/a.png"})
	if err != nil || len(got) != 0 {
		t.Fatalf("Preload(nil opener) = %v, %v", got, err)
	}
}
