package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "modion/internal/errors"
	"modion/internal/model"
)

func TestNormalizeArticle_FormFields(t *testing.T) {
	p, err := NormalizeArticle(map[string]any{
		"title":    "Hello",
		"category": "design",
		"featured": "true",
		"tags":     `["go","web"]`,
		"sections": `[{"id":"intro","title":"Intro","content":"Some words","type":"paragraph"}]`,
		"status":   "",
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello", *p.Title)
	assert.Equal(t, "design", *p.Category)
	assert.True(t, *p.Featured)
	assert.Equal(t, []string{"go", "web"}, *p.Tags)
	require.Len(t, *p.Sections, 1)
	assert.Equal(t, "intro", (*p.Sections)[0].Key)
	assert.Equal(t, "Some words", (*p.Sections)[0].Content)
	assert.Nil(t, p.Status)
	assert.Nil(t, p.ID)
}

func TestNormalizeArticle_JSONFields(t *testing.T) {
	p, err := NormalizeArticle(map[string]any{
		"featured": false,
		"tags":     []any{"a"},
		"sections": []any{map[string]any{"content": "x"}},
	})
	require.NoError(t, err)

	assert.False(t, *p.Featured)
	assert.Equal(t, []string{"a"}, *p.Tags)
	assert.Equal(t, "x", (*p.Sections)[0].Content)
}

func TestNormalizeArticle_FeaturedOtherStringIsFalse(t *testing.T) {
	p, err := NormalizeArticle(map[string]any{"featured": "yes"})
	require.NoError(t, err)
	assert.False(t, *p.Featured)
}

func TestNormalizeArticle_Errors(t *testing.T) {
	_, err := NormalizeArticle(map[string]any{"tags": "go,web"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidTags)

	_, err = NormalizeArticle(map[string]any{"sections": "{not json"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidSections)

	_, err = NormalizeArticle(map[string]any{"title": 42.0})
	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestReadingTime(t *testing.T) {
	words := func(n int) string {
		return strings.TrimSpace(strings.Repeat("word ", n))
	}

	tests := []struct {
		name     string
		sections []model.ArticleSection
		want     string
	}{
		{"no sections", nil, "1 min read"},
		{"empty content", []model.ArticleSection{{Content: "   "}}, "1 min read"},
		{"exactly 200", []model.ArticleSection{{Content: words(200)}}, "1 min read"},
		{"201 words", []model.ArticleSection{{Content: words(200)}, {Title: "one"}}, "2 min read"},
		{"titles count", []model.ArticleSection{{Title: words(150), Content: words(250)}}, "2 min read"},
		{"many sections", []model.ArticleSection{{Content: words(300)}, {Content: words(300)}, {Content: words(1)}}, "4 min read"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReadingTime(tt.sections)
			assert.Equal(t, tt.want, got)
			assert.Regexp(t, readingTimePattern, got)
		})
	}
}
