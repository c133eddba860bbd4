package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "modion/internal/errors"
	"modion/internal/media"
	"modion/internal/model"
	"modion/internal/repository"
)

const featuredLimit = 3

// ArticleService handles article reads and author-gated writes.
type ArticleService interface {
	ListPublished(ctx context.Context) ([]model.Article, error)
	ListFeatured(ctx context.Context) ([]model.Article, error)
	ListByCategory(ctx context.Context, category string) ([]model.Article, error)
	Search(ctx context.Context, query string) ([]model.Article, error)
	Categories(ctx context.Context) ([]repository.CategoryCount, error)
	Get(ctx context.Context, id string) (*model.Article, error)
	Create(ctx context.Context, actor *model.User, payload ArticlePayload, image *media.Source) (*model.Article, error)
	Update(ctx context.Context, actor *model.User, id string, payload ArticlePayload, image *media.Source) (*model.Article, error)
	Delete(ctx context.Context, actor *model.User, id string) error
}

type articleService struct {
	repo   repository.ArticleRepository
	store  media.Store
	folder string
}

// NewArticleService creates a new article service. Images are stored under folder.
func NewArticleService(repo repository.ArticleRepository, store media.Store, folder string) ArticleService {
	return &articleService{repo: repo, store: store, folder: folder}
}

func (s *articleService) ListPublished(ctx context.Context) ([]model.Article, error) {
	return s.repo.ListPublished(ctx, repository.ArticleFilter{})
}

func (s *articleService) ListFeatured(ctx context.Context) ([]model.Article, error) {
	return s.repo.ListPublished(ctx, repository.ArticleFilter{Featured: true, Limit: featuredLimit})
}

func (s *articleService) ListByCategory(ctx context.Context, category string) ([]model.Article, error) {
	return s.repo.ListPublished(ctx, repository.ArticleFilter{Category: category})
}

// Search matches query case-insensitively against titles, section content and tags.
func (s *articleService) Search(ctx context.Context, query string) ([]model.Article, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.ErrSearchQueryRequired
	}
	return s.repo.ListPublished(ctx, repository.ArticleFilter{Query: query})
}

func (s *articleService) Categories(ctx context.Context) ([]repository.CategoryCount, error) {
	return s.repo.CategoryCounts(ctx)
}

// Get returns a published article. Drafts and archived articles are not found.
func (s *articleService) Get(ctx context.Context, id string) (*model.Article, error) {
	article, err := s.repo.FindPublished(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrArticleNotFound
		}
		return nil, err
	}
	return article, nil
}

// Create stores a new article authored by actor. The image is uploaded only
// once the rest of the article is known to be valid.
func (s *articleService) Create(ctx context.Context, actor *model.User, payload ArticlePayload, image *media.Source) (*model.Article, error) {
	if image == nil {
		return nil, apperrors.ErrImageRequired
	}

	article := &model.Article{Status: model.ArticleStatusPublished}
	if payload.ID != nil {
		exists, err := s.repo.Exists(ctx, *payload.ID)
		if err != nil {
			return nil, fmt.Errorf("check article id: %w", err)
		}
		if exists {
			return nil, apperrors.ErrArticleIDExists
		}
		article.ID = *payload.ID
	} else {
		article.ID = uuid.NewString()
	}
	article.AuthorID = actor.ID

	applyPayload(article, payload)
	if payload.ReadingTime == nil {
		article.ReadingTime = ReadingTime(article.Sections)
	}

	if err := validateArticle(article, "Image"); err != nil {
		return nil, err
	}

	asset, err := s.store.Upload(ctx, *image, s.folder, "")
	if err != nil {
		return nil, &apperrors.UploadError{Summary: "Failed to upload image", Message: err.Error()}
	}
	article.Image = asset.URL
	article.ImagePublicID = asset.PublicID

	if err := s.repo.Create(ctx, article); err != nil {
		s.discardImage(ctx, asset.PublicID)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if exists, existsErr := s.repo.Exists(ctx, article.ID); existsErr == nil && exists {
				return nil, apperrors.ErrArticleIDExists
			}
		}
		return nil, fmt.Errorf("create article: %w", err)
	}

	return s.reload(ctx, article)
}

// Update changes an article owned by actor, or any article when actor is an
// admin. The id and author never change.
func (s *articleService) Update(ctx context.Context, actor *model.User, id string, payload ArticlePayload, image *media.Source) (*model.Article, error) {
	article, err := s.findForWrite(ctx, actor, id, apperrors.ErrUpdateForbidden)
	if err != nil {
		return nil, err
	}

	applyPayload(article, payload)
	if payload.Sections != nil {
		article.ReadingTime = ReadingTime(article.Sections)
	}

	if err := validateArticle(article); err != nil {
		return nil, err
	}

	if image != nil {
		asset, err := media.Replace(ctx, s.store, s.imagePublicID(article), *image, s.folder)
		if err != nil {
			return nil, &apperrors.UploadError{Summary: "Failed to update image", Message: err.Error()}
		}
		article.Image = asset.URL
		article.ImagePublicID = asset.PublicID
	}

	if err := s.repo.Update(ctx, article, payload.Sections != nil, payload.Tags != nil); err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}

	return s.reload(ctx, article)
}

// Delete removes the article. Failing to remove its image is only logged.
func (s *articleService) Delete(ctx context.Context, actor *model.User, id string) error {
	article, err := s.findForWrite(ctx, actor, id, apperrors.ErrDeleteForbidden)
	if err != nil {
		return err
	}

	if publicID := s.imagePublicID(article); publicID != "" {
		if err := s.store.Delete(ctx, publicID); err != nil {
			slog.Warn("failed to delete article image", "article_id", id, "public_id", publicID, "error", err)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrArticleNotFound
		}
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}

func (s *articleService) findForWrite(ctx context.Context, actor *model.User, id string, forbidden error) (*model.Article, error) {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrArticleNotFound
		}
		return nil, err
	}
	if !actor.IsAdmin() && article.AuthorID != actor.ID {
		return nil, forbidden
	}
	return article, nil
}

// imagePublicID prefers the stored host id and falls back to the URL.
func (s *articleService) imagePublicID(article *model.Article) string {
	if article.ImagePublicID != "" {
		return article.ImagePublicID
	}
	return s.store.PublicIDFromURL(article.Image)
}

func (s *articleService) discardImage(ctx context.Context, publicID string) {
	if err := s.store.Delete(ctx, publicID); err != nil {
		slog.Warn("failed to discard uploaded image", "public_id", publicID, "error", err)
	}
}

func (s *articleService) reload(ctx context.Context, article *model.Article) (*model.Article, error) {
	saved, err := s.repo.FindByID(ctx, article.ID)
	if err != nil {
		return nil, fmt.Errorf("reload article: %w", err)
	}
	return saved, nil
}

func applyPayload(article *model.Article, p ArticlePayload) {
	if p.Title != nil {
		article.Title = *p.Title
	}
	if p.Category != nil {
		article.Category = *p.Category
	}
	if p.ReadingTime != nil {
		article.ReadingTime = *p.ReadingTime
	}
	if p.MetaDescription != nil {
		article.MetaDescription = *p.MetaDescription
	}
	if p.Status != nil {
		article.Status = model.ArticleStatus(*p.Status)
	}
	if p.Featured != nil {
		article.Featured = *p.Featured
	}
	if p.Sections != nil {
		article.SetSections(*p.Sections)
	}
	if p.Tags != nil {
		article.SetTags(*p.Tags)
	}
}
