// Package catalog loads the read-only game reference data: bloodlines,
// origins, posts, edges, skills, languages, aspects by source, ship
// parts by category, and starting resources by source. It is loaded
// once at startup and never mutated by the core.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/driftcrew/wildsea-api/internal/errors"
)

//go:embed data/*.yaml
var dataFS embed.FS

// AspectDef is an aspect as defined in reference data.
type AspectDef struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Type        string `yaml:"type"`
	Track       int    `yaml:"track"`
}

// PartDef is a ship part, fitting, or undercrew entry as defined in
// reference data.
type PartDef struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Stakes      int        `yaml:"stakes"`
	Bonuses     []BonusDef `yaml:"bonuses"`
}

// BonusDef is one rating bonus on a part definition.
type BonusDef struct {
	Rating string `yaml:"rating"`
	Value  int    `yaml:"value"`
}

// StartingResource is one resource granted by a core trait at creation.
type StartingResource struct {
	Bucket string `yaml:"bucket"`
	Name   string `yaml:"name"`
}

// Catalog is the full reference-data set.
type Catalog struct {
	Bloodlines []string `yaml:"bloodlines"`
	Origins    []string `yaml:"origins"`
	Posts      []string `yaml:"posts"`
	Edges      []string `yaml:"edges"`
	Skills     []string `yaml:"skills"`
	Languages  []string `yaml:"languages"`

	// Aspects are keyed by source (a bloodline, origin, or post name).
	Aspects map[string][]AspectDef `yaml:"aspects"`

	// Parts are keyed by category: size, frame, hull, bite, engine.
	Parts map[string][]PartDef `yaml:"parts"`

	// Fittings are keyed by category: motif, general, bounteous, room,
	// armament.
	Fittings map[string][]PartDef `yaml:"fittings"`

	// Undercrew are keyed by category: officer, gang, pack.
	Undercrew map[string][]PartDef `yaml:"undercrew"`

	// StartingResources are keyed by source.
	StartingResources map[string][]StartingResource `yaml:"startingResources"`
}

// Load parses the embedded reference data.
func Load() (*Catalog, error) {
	cat := &Catalog{
		Aspects:           map[string][]AspectDef{},
		Parts:             map[string][]PartDef{},
		Fittings:          map[string][]PartDef{},
		Undercrew:         map[string][]PartDef{},
		StartingResources: map[string][]StartingResource{},
	}

	err := fs.WalkDir(dataFS, "data", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		raw, err := dataFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		// Each file carries a partial Catalog; maps and lists merge.
		var partial Catalog
		if err := yaml.Unmarshal(raw, &partial); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		cat.merge(&partial)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load reference data")
	}

	return cat, nil
}

func (c *Catalog) merge(other *Catalog) {
	c.Bloodlines = append(c.Bloodlines, other.Bloodlines...)
	c.Origins = append(c.Origins, other.Origins...)
	c.Posts = append(c.Posts, other.Posts...)
	c.Edges = append(c.Edges, other.Edges...)
	c.Skills = append(c.Skills, other.Skills...)
	c.Languages = append(c.Languages, other.Languages...)
	for k, v := range other.Aspects {
		c.Aspects[k] = append(c.Aspects[k], v...)
	}
	for k, v := range other.Parts {
		c.Parts[k] = append(c.Parts[k], v...)
	}
	for k, v := range other.Fittings {
		c.Fittings[k] = append(c.Fittings[k], v...)
	}
	for k, v := range other.Undercrew {
		c.Undercrew[k] = append(c.Undercrew[k], v...)
	}
	for k, v := range other.StartingResources {
		c.StartingResources[k] = append(c.StartingResources[k], v...)
	}
}

// AspectsFor returns the aspects granted by a source, in catalog order.
// Unknown sources return an empty list, not an error: selecting a new
// bloodline legitimately has no aspects loaded for an old one.
func (c *Catalog) AspectsFor(source string) []AspectDef {
	return c.Aspects[source]
}

// Aspect finds one aspect by source and name.
func (c *Catalog) Aspect(source, name string) (*AspectDef, error) {
	for i := range c.Aspects[source] {
		if c.Aspects[source][i].Name == name {
			return &c.Aspects[source][i], nil
		}
	}
	return nil, errors.NotFoundf("aspect %q not found for source %q", name, source)
}

// Part finds one ship part by category and name.
func (c *Catalog) Part(category, name string) (*PartDef, error) {
	return findPart(c.Parts, category, name)
}

// Fitting finds one fitting by category and name.
func (c *Catalog) Fitting(category, name string) (*PartDef, error) {
	return findPart(c.Fittings, category, name)
}

// UndercrewMember finds one undercrew entry by category and name.
func (c *Catalog) UndercrewMember(category, name string) (*PartDef, error) {
	return findPart(c.Undercrew, category, name)
}

// HasEdge reports whether the edge name exists in reference data.
func (c *Catalog) HasEdge(name string) bool {
	return contains(c.Edges, name)
}

// HasSkill reports whether the skill name exists in reference data.
func (c *Catalog) HasSkill(name string) bool {
	return contains(c.Skills, name)
}

// HasLanguage reports whether the language name exists in reference data.
func (c *Catalog) HasLanguage(name string) bool {
	return contains(c.Languages, name)
}

func findPart(byCategory map[string][]PartDef, category, name string) (*PartDef, error) {
	defs, ok := byCategory[category]
	if !ok {
		return nil, errors.NotFoundf("unknown category %q", category)
	}
	for i := range defs {
		if defs[i].Name == name {
			return &defs[i], nil
		}
	}
	return nil, errors.NotFoundf("%q not found in category %q", name, category)
}

func contains(list []string, name string) bool {
	for _, v := range list {
		if v == name {
			return true
		}
	}
	return false
}
