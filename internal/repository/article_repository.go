package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"modion/internal/model"
)

// ArticleFilter narrows the published article listing. Zero values do not filter.
type ArticleFilter struct {
	Category string
	Featured bool
	Query    string
	Limit    int
}

// CategoryCount is the number of published articles in a category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// ArticleRepository defines article persistence operations.
type ArticleRepository interface {
	Create(ctx context.Context, article *model.Article) error
	// Update saves the article's scalar fields and, when requested, replaces
	// its sections and tags in the same transaction.
	Update(ctx context.Context, article *model.Article, replaceSections, replaceTags bool) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Article, error)
	FindPublished(ctx context.Context, id string) (*model.Article, error)
	ListPublished(ctx context.Context, filter ArticleFilter) ([]model.Article, error)
	CategoryCounts(ctx context.Context) ([]CategoryCount, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository creates a new article repository.
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

// withRelations preloads sections and tags in order, and the author's name only.
func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name")
		}).
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
}

// Create inserts the article together with its sections and tags.
func (r *articleRepository) Create(ctx context.Context, article *model.Article) error {
	return r.db.WithContext(ctx).Omit("Author").Create(article).Error
}

// Update saves an existing article.
func (r *articleRepository) Update(ctx context.Context, article *model.Article, replaceSections, replaceTags bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(article).Error; err != nil {
			return err
		}

		if replaceSections {
			if err := tx.Where("article_id = ?", article.ID).Delete(&model.ArticleSection{}).Error; err != nil {
				return err
			}
			if len(article.Sections) > 0 {
				if err := tx.Create(&article.Sections).Error; err != nil {
					return err
				}
			}
		}

		if replaceTags {
			if err := tx.Where("article_id = ?", article.ID).Delete(&model.ArticleTag{}).Error; err != nil {
				return err
			}
			if len(article.Tags) > 0 {
				if err := tx.Create(&article.Tags).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Delete removes an article and its sections and tags.
func (r *articleRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", id).Delete(&model.ArticleSection{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", id).Delete(&model.ArticleTag{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Article{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// FindByID finds an article by external id regardless of status.
func (r *articleRepository) FindByID(ctx context.Context, id string) (*model.Article, error) {
	var article model.Article
	if err := withRelations(r.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// FindPublished finds a published article by external id.
func (r *articleRepository) FindPublished(ctx context.Context, id string) (*model.Article, error) {
	var article model.Article
	if err := withRelations(r.db.WithContext(ctx)).
		Where("id = ? AND status = ?", id, model.ArticleStatusPublished).
		First(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// ListPublished lists published articles newest first.
func (r *articleRepository) ListPublished(ctx context.Context, filter ArticleFilter) ([]model.Article, error) {
	q := withRelations(r.db.WithContext(ctx)).
		Where("articles.status = ?", model.ArticleStatusPublished)

	if filter.Category != "" {
		q = q.Where("articles.category = ?", filter.Category)
	}
	if filter.Featured {
		q = q.Where("articles.featured = ?", true)
	}
	if filter.Query != "" {
		like := "%" + escapeLike(strings.ToLower(filter.Query)) + "%"
		q = q.Where(r.db.
			Where("LOWER(articles.title) LIKE ? ESCAPE '!'", like).
			Or("EXISTS (SELECT 1 FROM article_sections s WHERE s.article_id = articles.id AND LOWER(s.content) LIKE ? ESCAPE '!')", like).
			Or("EXISTS (SELECT 1 FROM article_tags t WHERE t.article_id = articles.id AND LOWER(t.name) LIKE ? ESCAPE '!')", like))
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var articles []model.Article
	if err := q.Order("articles.created_at DESC").Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

// CategoryCounts groups published articles by category, most populated first.
func (r *articleRepository) CategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	counts := make([]CategoryCount, 0)
	if err := r.db.WithContext(ctx).
		Model(&model.Article{}).
		Select("category, COUNT(*) AS count").
		Where("status = ?", model.ArticleStatusPublished).
		Group("category").
		Order("count DESC, category ASC").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

// Exists reports whether any article, in any status, uses id.
func (r *articleRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Article{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// escapeLike escapes LIKE wildcards using '!' as the escape character.
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
