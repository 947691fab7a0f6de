/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"grimoire/internal/config"
	"grimoire/internal/domain"
)

func runCmd(t *testing.T, args ...string) (int, string) {
	t.Helper()
	var buf bytes.Buffer
	code := run(args, config.Defaults(), &buf)
	return code, buf.String()
}

func TestRun_VersionAndUsage(t *testing.T) {
	if code, out := runCmd(t, "version"); code != 0 || !strings.Contains(out, "Grimoire") {
		t.Fatalf("version: %d %q", code, out)
	}
	if code, out := runCmd(t); code != 0 || !strings.Contains(out, "Usage:") {
		t.Fatalf("usage: %d %q", code, out)
	}
	if code, _ := runCmd(t, "nope"); code != 2 {
		t.Fatalf("unknown command should exit 2, got %d", code)
	}
}

func TestRun_Sheets(t *testing.T) {
	code, out := runCmd(t, "sheets")
	if code != 0 || !strings.Contains(out, "18 sheets, 8 artworks") {
		t.Fatalf("sheets: %d\n%s", code, out)
	}
	code, out = runCmd(t, "sheets", "--json")
	if code != 0 {
		t.Fatalf("sheets --json exit %d", code)
	}
	var sheets []domain.Sheet
	if err := json.Unmarshal([]byte(out), &sheets); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(sheets) != 18 || sheets[17].Kind != domain.SheetBackCover {
		t.Fatalf("unexpected sheets %+v", sheets)
	}
}

func TestRun_FrameSVGAndPNG(t *testing.T) {
	dir := t.TempDir()
	svg := filepath.Join(dir, "f.svg")
	if code, out := runCmd(t, "frame", "--width", "80", "--height", "60", "--seed", "4", svg); code != 0 {
		t.Fatalf("frame svg: %d %s", code, out)
	}
	b, err := os.ReadFile(svg)
	if err != nil || !strings.Contains(string(b), "<svg") {
		t.Fatalf("svg not written: %v", err)
	}
	png := filepath.Join(dir, "f.png")
	if code, out := runCmd(t, "frame", "--preset", "deep", "--width", "80", "--height", "60", png); code != 0 {
		t.Fatalf("frame png: %d %s", code, out)
	}
	if code, _ := runCmd(t, "frame", "--preset", "nova", png); code != 1 {
		t.Fatalf("unknown preset should fail with 1")
	}
	if code, _ := runCmd(t, "frame"); code != 2 {
		t.Fatalf("missing output should be a usage error")
	}
}

func TestRun_BookExportsWithoutAssets(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "book.pdf")
	code, msg := runCmd(t, "pdf", "--assets", filepath.Join(dir, "none"), out)
	if code != 0 || !strings.Contains(msg, "0 of 9 images found") {
		t.Fatalf("pdf: %d %s", code, msg)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("pdf missing: %v", err)
	}
	if code, msg := runCmd(t, "epub", "--assets", dir, filepath.Join(dir, "book.epub")); code != 0 {
		t.Fatalf("epub: %d %s", code, msg)
	}
}

func TestRun_ValidateAndPreload(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("title: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if code, _ := runCmd(t, "validate", bad); code != 1 {
		t.Fatalf("catalogue without artworks should fail validation")
	}
	if code, _ := runCmd(t, "validate"); code != 2 {
		t.Fatalf("validate without path is a usage error")
	}
	code, out := runCmd(t, "preload", "--assets", dir)
	if code != 0 || !strings.Contains(out, "missing") {
		t.Fatalf("preload: %d %s", code, out)
	}
}
