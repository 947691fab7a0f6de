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
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	applog "grimoire/internal/log"
)

// Opener resolves an asset reference such as "/artwork/The moon.jpg".
type Opener func(ref string) (io.ReadCloser, error)

// DirOpener resolves references relative to a local asset directory.
func DirOpener(dir string) Opener {
	return func(ref string) (io.ReadCloser, error) {
		return os.Open(AssetPath(dir, ref))
	}
}

// AssetPath maps an asset reference onto dir.
func AssetPath(dir, ref string) string {
	return filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(ref, "/")))
}

// Preload decodes the given images concurrently and returns those that
// decoded. Failures are logged and skipped; a missing hero image never stops
// the book from opening. Only ctx cancellation is reported as an error.
func Preload(ctx context.Context, open Opener, refs []string) (map[string]image.Image, error) {
	l := applog.WithOperation(applog.WithComponent("content"), "preload")
	out := make(map[string]image.Image, len(refs))
	if open == nil || len(refs) == 0 {
		return out, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, ref := range refs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := decode(open, ref)
			if err != nil {
				l.Debug("preload skipped", slog.String("ref", ref), slog.Any("err", err))
				return nil
			}
			mu.Lock()
			out[ref] = img
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	l.Info("preload finished", slog.Int("requested", len(refs)), slog.Int("decoded", len(out)))
	return out, nil
}

func decode(open Opener, ref string) (image.Image, error) {
	rc, err := open(ref)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	img, _, err := image.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ref, err)
	}
	return img, nil
}
