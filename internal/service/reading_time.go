package service

import (
	"fmt"
	"strings"

	"modion/internal/model"
)

const wordsPerMinute = 200

// ReadingTime estimates how long the sections take to read at 200 words per
// minute, counting every section's content and title. It never reports less
// than one minute.
func ReadingTime(sections []model.ArticleSection) string {
	words := 0
	for _, s := range sections {
		words += len(strings.Fields(s.Content))
		words += len(strings.Fields(s.Title))
	}

	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}
