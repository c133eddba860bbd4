package handler

import (
	"time"

	"modion/internal/media"
	"modion/internal/model"
)

// ArticleResponse is the public view of an article. The author's id and the
// image host id are never exposed.
type ArticleResponse struct {
	ID              string                 `json:"id"`
	Title           string                 `json:"title"`
	Category        string                 `json:"category"`
	Image           string                 `json:"image"`
	Author          string                 `json:"author"`
	AuthorImage     string                 `json:"author_image"`
	ReadingTime     string                 `json:"reading_time"`
	Sections        []model.ArticleSection `json:"sections"`
	Tags            []string               `json:"tags"`
	MetaDescription string                 `json:"meta_description"`
	Featured        bool                   `json:"featured"`
	Status          model.ArticleStatus    `json:"status"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

func toArticleResponse(a *model.Article) ArticleResponse {
	sections := a.Sections
	if sections == nil {
		sections = []model.ArticleSection{}
	}
	return ArticleResponse{
		ID:              a.ID,
		Title:           a.Title,
		Category:        a.Category,
		Image:           a.Image,
		Author:          a.Author.Name,
		AuthorImage:     media.AvatarURL(a.Author.Name, media.DefaultAvatarSize),
		ReadingTime:     a.ReadingTime,
		Sections:        sections,
		Tags:            a.TagNames(),
		MetaDescription: a.MetaDescription,
		Featured:        a.Featured,
		Status:          a.Status,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func toArticleResponses(articles []model.Article) []ArticleResponse {
	out := make([]ArticleResponse, 0, len(articles))
	for i := range articles {
		out = append(out, toArticleResponse(&articles[i]))
	}
	return out
}
