// Package models defines the records of the hierarchical link store.
package models

// DataLink is one downloadable dataset reference. Field order is a contract
// of the persisted form: label first, then URL, then metadata.
type DataLink struct {
	Name        string `yaml:"name"`
	URL         string `yaml:"url"`
	ContentType string `yaml:"content_type,omitempty"`
}

// Subcategory is a leaf topic page. The publisher-declared dates are
// nullable; Links is replaced wholesale on refresh, never appended.
type Subcategory struct {
	Name            string      `yaml:"name"`
	URL             string      `yaml:"url"`
	LastUpdate      *Date       `yaml:"last_update"`
	NextUpdate      *Date       `yaml:"next_update"`
	UpdateFrequency Frequency   `yaml:"update_frequency"`
	Links           []*DataLink `yaml:"links,omitempty"`
}

// HasLinks reports whether a link sequence has ever been recorded.
func (s *Subcategory) HasLinks() bool {
	return len(s.Links) > 0
}

// Category is a top-level grouping of subcategories.
type Category struct {
	Name          string         `yaml:"category"`
	Subcategories []*Subcategory `yaml:"subcategories"`
}

// Find returns the named subcategory, or nil. Names are compared exactly.
func (c *Category) Find(name string) *Subcategory {
	for _, sub := range c.Subcategories {
		if sub.Name == name {
			return sub
		}
	}
	return nil
}
