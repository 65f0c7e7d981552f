// Package store reads and writes the hierarchical link catalogs. A store
// file is a YAML sequence of categories in publisher page order; writes
// replace the whole document atomically so a crash never leaves a
// half-written file behind.
package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hagtolur/talnaefni/models"
)

// Document is the full content of a link store file: an ordered list of
// categories, kept in the order the publisher lists them.
type Document []*models.Category

// Match pairs a subcategory with the category it belongs to. Subcategory
// names repeat across categories, so lookups return every match.
type Match struct {
	Category    string
	Subcategory *models.Subcategory
}

// Load reads and validates a store file. Subcategories whose next_update
// precedes last_update are normalized by dropping the next_update, with a
// warning; anything structurally broken rejects the whole document.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read store file: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode store file %s: %w", path, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("validate store file %s: %w", path, err)
	}
	doc.normalize()
	return doc, nil
}

// Save writes doc to path atomically: encode to a temp file in the same
// directory, then rename over the target. Readers see either the old
// document or the new one, never a partial write.
func Save(path string, doc Document) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	enc := yaml.NewEncoder(tmp)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode store file: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("flush store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp store file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace store file %s: %w", path, err)
	}
	return nil
}

// Validate checks the structural invariants: every category is named,
// every subcategory has a name and URL, and names are unique within their
// category.
func (d Document) Validate() error {
	for i, cat := range d {
		if cat == nil {
			return fmt.Errorf("category %d: empty entry", i)
		}
		if cat.Name == "" {
			return fmt.Errorf("category %d: missing name", i)
		}
		seen := make(map[string]bool, len(cat.Subcategories))
		for j, sub := range cat.Subcategories {
			if sub == nil {
				return fmt.Errorf("category %q: subcategory %d: empty entry", cat.Name, j)
			}
			if sub.Name == "" {
				return fmt.Errorf("category %q: subcategory %d: missing name", cat.Name, j)
			}
			if sub.URL == "" {
				return fmt.Errorf("category %q: subcategory %q: missing url", cat.Name, sub.Name)
			}
			if seen[sub.Name] {
				return fmt.Errorf("category %q: duplicate subcategory %q", cat.Name, sub.Name)
			}
			seen[sub.Name] = true
		}
	}
	return nil
}

// normalize drops next_update values that precede last_update and folds
// out-of-vocabulary frequencies to unknown. An inverted date pair violates
// the ordering the staleness policy relies on, so the safer read is "next
// update unknown".
func (d Document) normalize() {
	for _, cat := range d {
		for _, sub := range cat.Subcategories {
			if !sub.UpdateFrequency.Valid() {
				if sub.UpdateFrequency != "" {
					slog.Warn("unknown update_frequency value",
						slog.String("subcategory", sub.Name),
						slog.String("value", string(sub.UpdateFrequency)),
					)
				}
				sub.UpdateFrequency = models.FreqUnknown
			}

			if sub.LastUpdate == nil || sub.NextUpdate == nil {
				continue
			}
			if sub.NextUpdate.Time.Before(sub.LastUpdate.Time) {
				slog.Warn("dropping inverted next_update",
					slog.String("category", cat.Name),
					slog.String("subcategory", sub.Name),
					slog.String("last_update", sub.LastUpdate.String()),
					slog.String("next_update", sub.NextUpdate.String()),
				)
				sub.NextUpdate = nil
			}
		}
	}
}

// FindSubcategories returns every subcategory whose name equals name,
// across all categories, in document order.
func (d Document) FindSubcategories(name string) []Match {
	var matches []Match
	for _, cat := range d {
		for _, sub := range cat.Subcategories {
			if sub.Name == name {
				matches = append(matches, Match{Category: cat.Name, Subcategory: sub})
			}
		}
	}
	return matches
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
