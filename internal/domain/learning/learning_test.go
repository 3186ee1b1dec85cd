package learning

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultGlossary(t *testing.T) {
	g, err := DefaultGlossary()
	require.NoError(t, err)
	assert.Greater(t, g.Len(), 10)

	term, err := g.Get("loan-to-value")
	require.NoError(t, err)
	assert.Equal(t, "financing", term.Category)
	assert.Contains(t, term.Title(), "(LTV)")

	capRate, err := g.Get("cap-rate")
	require.NoError(t, err)
	assert.Equal(t, "Capitalization Rate", capRate.Title())

	_, err = g.Get("nope")
	assert.ErrorIs(t, err, ErrTermNotFound)
}

func TestGlossary_List(t *testing.T) {
	g, err := DefaultGlossary()
	require.NoError(t, err)

	all := g.List("", "")
	require.Len(t, all, g.Len())
	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, strings.ToLower(all[i-1].Term), strings.ToLower(all[i].Term))
	}

	tax := g.List("", "TAX")
	require.Len(t, tax, 2)
	for _, term := range tax {
		assert.Equal(t, "tax", term.Category)
	}

	hits := g.List("mortgage balance", "")
	slugs := make([]string, 0, len(hits))
	for _, h := range hits {
		slugs = append(slugs, h.Slug)
	}
	assert.Contains(t, slugs, "equity")
	assert.Contains(t, slugs, "loan-to-value")

	assert.Empty(t, g.List("zzz", ""))
}

func TestGlossary_Categories(t *testing.T) {
	g, err := DefaultGlossary()
	require.NoError(t, err)

	cats := g.Categories()
	require.NotEmpty(t, cats)
	total := 0
	for _, c := range cats {
		total += c.Count
	}
	assert.Equal(t, g.Len(), total)
	assert.Equal(t, "financing", cats[0].Key)
	assert.Equal(t, "Financing", cats[0].Title)
}

func TestParseGlossary_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"malformed", "terms: [", "decode glossary"},
		{"missing fields", "terms:\n  - slug: a\n", "required"},
		{"duplicate", "terms:\n  - {slug: a, term: A, category: c}\n  - {slug: a, term: B, category: c}\n", "duplicate slug"},
		{"dangling related", "terms:\n  - {slug: a, term: A, category: c, related: [b]}\n", "unknown related slug"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGlossary([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSummarize(t *testing.T) {
	g, err := ParseGlossary([]byte("terms:\n  - {slug: a, term: A, category: c}\n  - {slug: b, term: B, category: c}\n  - {slug: c, term: C, category: c}\n"))
	require.NoError(t, err)

	now := time.Now()
	s := Summarize(g, []Progress{
		{UserID: "u", Slug: "a", ReadAt: now},
		{UserID: "u", Slug: "removed", ReadAt: now},
	})
	assert.Equal(t, 1, s.ReadCount)
	assert.Equal(t, 3, s.TotalTerms)
	assert.InDelta(t, 0.3333, s.Completion, 1e-9)

	empty := Summarize(g, nil)
	assert.Zero(t, empty.Completion)
	assert.NotNil(t, empty.Read)
}
