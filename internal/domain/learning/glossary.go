// Package learning holds the learning-hub glossary and per-user reading progress.
package learning

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/keystone/backend/internal/domain/shared"
)

//go:embed glossary.yaml
var defaultGlossaryYAML []byte

// ErrTermNotFound is returned for an unknown glossary slug
var ErrTermNotFound = shared.NewDomainError("TERM_NOT_FOUND", "Glossary term not found")

// Title casing keeps acronyms such as LTV intact
var titleCaser = cases.Title(language.English, cases.NoLower)

// Term is a glossary entry
type Term struct {
	Slug       string   `yaml:"slug"`
	Term       string   `yaml:"term"`
	Category   string   `yaml:"category"`
	Definition string   `yaml:"definition"`
	Related    []string `yaml:"related"`
}

// Title returns the display form of the term
func (t Term) Title() string {
	return titleCaser.String(t.Term)
}

// Category is a glossary category with the number of terms in it
type Category struct {
	Key   string
	Title string
	Count int
}

// Glossary is an immutable, slug-indexed set of terms
type Glossary struct {
	terms  []Term
	bySlug map[string]int
}

type glossaryFile struct {
	Terms []Term `yaml:"terms"`
}

// DefaultGlossary parses the glossary bundled with the binary
func DefaultGlossary() (*Glossary, error) {
	return ParseGlossary(defaultGlossaryYAML)
}

// ParseGlossary decodes a YAML glossary. Slugs must be unique and related
// slugs must point at terms of the same glossary.
func ParseGlossary(data []byte) (*Glossary, error) {
	var f glossaryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode glossary: %w", err)
	}

	g := &Glossary{
		terms:  make([]Term, 0, len(f.Terms)),
		bySlug: make(map[string]int, len(f.Terms)),
	}
	for _, t := range f.Terms {
		t.Slug = strings.TrimSpace(t.Slug)
		t.Category = strings.ToLower(strings.TrimSpace(t.Category))
		t.Definition = strings.TrimSpace(t.Definition)
		if t.Slug == "" || t.Term == "" || t.Category == "" {
			return nil, fmt.Errorf("glossary term %q: slug, term and category are required", t.Slug)
		}
		if _, dup := g.bySlug[t.Slug]; dup {
			return nil, fmt.Errorf("glossary term %q: duplicate slug", t.Slug)
		}
		g.bySlug[t.Slug] = len(g.terms)
		g.terms = append(g.terms, t)
	}
	for _, t := range g.terms {
		for _, r := range t.Related {
			if _, ok := g.bySlug[r]; !ok {
				return nil, fmt.Errorf("glossary term %q: unknown related slug %q", t.Slug, r)
			}
		}
	}
	sort.SliceStable(g.terms, func(i, j int) bool {
		return strings.ToLower(g.terms[i].Term) < strings.ToLower(g.terms[j].Term)
	})
	for i, t := range g.terms {
		g.bySlug[t.Slug] = i
	}
	return g, nil
}

// Len returns the number of terms
func (g *Glossary) Len() int {
	return len(g.terms)
}

// Has reports whether slug names a term
func (g *Glossary) Has(slug string) bool {
	_, ok := g.bySlug[slug]
	return ok
}

// Get returns the term with the given slug
func (g *Glossary) Get(slug string) (Term, error) {
	i, ok := g.bySlug[slug]
	if !ok {
		return Term{}, ErrTermNotFound
	}
	return g.terms[i], nil
}

// List returns terms in alphabetical order. search matches term and
// definition case-insensitively; category filters exactly.
func (g *Glossary) List(search, category string) []Term {
	search = strings.ToLower(strings.TrimSpace(search))
	category = strings.ToLower(strings.TrimSpace(category))

	out := make([]Term, 0, len(g.terms))
	for _, t := range g.terms {
		if category != "" && t.Category != category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Term), search) &&
			!strings.Contains(strings.ToLower(t.Definition), search) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Categories returns every category sorted by key
func (g *Glossary) Categories() []Category {
	counts := make(map[string]int)
	for _, t := range g.terms {
		counts[t.Category]++
	}
	out := make([]Category, 0, len(counts))
	for key, n := range counts {
		out = append(out, Category{Key: key, Title: titleCaser.String(key), Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
