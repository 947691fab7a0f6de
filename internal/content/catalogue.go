/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package content holds the portfolio catalogue: the ordered artwork records,
// the contact block and the short list of hero images shown first.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"grimoire/internal/domain"
)

//go:embed artworks.yaml
var builtin []byte

//go:embed catalogue.schema.json
var schemaJSON []byte

// ErrDuplicateID is returned when two artworks share an id.
var ErrDuplicateID = errors.New("duplicate artwork id")

// Catalogue is the whole static content of the book.
type Catalogue struct {
	Title    string           `yaml:"title"`
	Tagline  string           `yaml:"tagline"`
	Logo     string           `yaml:"logo"`
	Hero     []string         `yaml:"hero"`
	Artworks []domain.Artwork `yaml:"artworks"`
	Contact  domain.Contact   `yaml:"contact"`
}

// ValidationError lists every schema violation found in a catalogue document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "catalogue does not match schema: " + strings.Join(e.Problems, "; ")
}

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
})

// Load parses the built-in catalogue.
func Load() (Catalogue, error) { return Parse(builtin) }

// LoadFile parses a catalogue file from disk.
func LoadFile(path string) (Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalogue{}, fmt.Errorf("read catalogue: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return Catalogue{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse validates a YAML catalogue against the schema and decodes it.
func Parse(data []byte) (Catalogue, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Catalogue{}, fmt.Errorf("parse catalogue: %w", err)
	}
	if raw == nil {
		return Catalogue{}, &ValidationError{Problems: []string{"document is empty"}}
	}
	schema, err := compiledSchema()
	if err != nil {
		return Catalogue{}, fmt.Errorf("compile catalogue schema: %w", err)
	}
	res, err := schema.Validate(gojsonschema.NewGoLoader(raw))
	if err != nil {
		return Catalogue{}, fmt.Errorf("validate catalogue: %w", err)
	}
	if !res.Valid() {
		ve := &ValidationError{}
		for _, e := range res.Errors() {
			ve.Problems = append(ve.Problems, e.String())
		}
		return Catalogue{}, ve
	}

	var c Catalogue
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalogue{}, fmt.Errorf("decode catalogue: %w", err)
	}
	seen := make(map[string]struct{}, len(c.Artworks))
	for _, a := range c.Artworks {
		if _, dup := seen[a.ID]; dup {
			return Catalogue{}, fmt.Errorf("%w: %q", ErrDuplicateID, a.ID)
		}
		seen[a.ID] = struct{}{}
	}
	return c, nil
}

// Artwork returns the record with the given id.
func (c Catalogue) Artwork(id string) (domain.Artwork, bool) {
	for _, a := range c.Artworks {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Artwork{}, false
}
