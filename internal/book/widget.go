/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package book

import "grimoire/internal/domain"

// Widget is the page-turning engine the host drives. Implementations own
// turning geometry and input handling; the host only loads sheets, asks for
// navigation and listens for flips.
type Widget interface {
	// Load mounts the sheets. It reports false when there is nothing to mount.
	Load(sheets []domain.Sheet) bool
	Next()
	Prev()
	TurnToPage(index int)
	// OnFlip registers the listener called with the new page index after
	// every completed turn.
	OnFlip(fn func(index int))
	CurrentIndex() int
	PageCount() int
	Destroy()
}

// WidgetFactory constructs a widget for a configuration.
type WidgetFactory func(cfg WidgetConfig) Widget

// SpreadStart returns the first sheet of the spread that shows index. With a
// hard cover the first sheet stands alone and the rest pair up as (1,2), (3,4)...
// In portrait mode every sheet is its own spread.
func SpreadStart(index, count int, portrait bool) int {
	if count <= 0 {
		return 0
	}
	index = max(0, min(index, count-1))
	if portrait || index == 0 || index%2 == 1 {
		return index
	}
	return index - 1
}

// Spread returns the sheet indexes visible for index.
func Spread(index, count int, portrait bool) []int {
	if count <= 0 {
		return nil
	}
	start := SpreadStart(index, count, portrait)
	if portrait || start == 0 || start+1 >= count {
		return []int{start}
	}
	return []int{start, start + 1}
}

// NextSpread returns the start of the following spread, or -1 at the end.
func NextSpread(index, count int, portrait bool) int {
	start := SpreadStart(index, count, portrait)
	next := start + 2
	if portrait || start == 0 {
		next = start + 1
	}
	if next >= count {
		return -1
	}
	return next
}

// PrevSpread returns the start of the preceding spread, or -1 at the front.
func PrevSpread(index, count int, portrait bool) int {
	start := SpreadStart(index, count, portrait)
	switch {
	case start <= 0:
		return -1
	case portrait || start == 1:
		return start - 1
	default:
		return start - 2
	}
}
