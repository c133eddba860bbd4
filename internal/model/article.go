package model

import (
	"time"

	"github.com/google/uuid"
)

// Categories an article may be filed under.
var Categories = []string{
	"business",
	"fashion",
	"ideas",
	"lifestyle",
	"design",
	"Technology",
	"creative",
	"story",
}

// ArticleStatus represents the publication state of an article.
type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusPublished ArticleStatus = "published"
	ArticleStatusArchived  ArticleStatus = "archived"
)

// Article is a blog post. ID is the external identifier clients address it by.
type Article struct {
	ID              string        `json:"id" gorm:"primaryKey;size:64"`
	Title           string        `json:"title" gorm:"size:512;not null" validate:"required"`
	Category        string        `json:"category" gorm:"size:32;not null;index" validate:"required,oneof=business fashion ideas lifestyle design Technology creative story"`
	Image           string        `json:"image" gorm:"size:1024;not null" validate:"required"`
	ImagePublicID   string        `json:"-" gorm:"column:image_public_id;size:512"`
	AuthorID        uuid.UUID     `json:"-" gorm:"type:char(36);not null;index"`
	ReadingTime     string        `json:"reading_time" gorm:"column:reading_time;size:32;not null" validate:"required,reading_time"`
	MetaDescription string        `json:"meta_description,omitempty" gorm:"column:meta_description;type:text" validate:"max=10000"`
	Featured        bool          `json:"featured" gorm:"not null;default:false;index"`
	Status          ArticleStatus `json:"status" gorm:"type:varchar(20);not null;default:'published';index" validate:"required,oneof=draft published archived"`
	CreatedAt       time.Time     `json:"createdAt" gorm:"index"`
	UpdatedAt       time.Time     `json:"updatedAt"`

	// Relations
	Author   User             `json:"-" gorm:"foreignKey:AuthorID" validate:"-"`
	Sections []ArticleSection `json:"sections" gorm:"foreignKey:ArticleID;constraint:OnDelete:CASCADE" validate:"required,min=1,dive"`
	Tags     []ArticleTag     `json:"-" gorm:"foreignKey:ArticleID;constraint:OnDelete:CASCADE" validate:"-"`
}

// TagNames returns the article's tags in their stored order.
func (a *Article) TagNames() []string {
	names := make([]string, 0, len(a.Tags))
	for _, t := range a.Tags {
		names = append(names, t.Name)
	}
	return names
}

// SetTags replaces the article's tags, dropping blanks and duplicates.
func (a *Article) SetTags(names []string) {
	seen := make(map[string]struct{}, len(names))
	tags := make([]ArticleTag, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		tags = append(tags, ArticleTag{ArticleID: a.ID, Name: n, Position: len(tags)})
	}
	a.Tags = tags
}

// SetSections replaces the article's sections, keeping their order.
func (a *Article) SetSections(sections []ArticleSection) {
	out := make([]ArticleSection, len(sections))
	for i, s := range sections {
		s.RowID = 0
		s.ArticleID = a.ID
		s.Position = i
		out[i] = s
	}
	a.Sections = out
}

// ArticleSection is one ordered block of an article body.
type ArticleSection struct {
	RowID     uint   `json:"-" gorm:"column:id;primaryKey;autoIncrement"`
	ArticleID string `json:"-" gorm:"size:64;not null;index"`
	Position  int    `json:"-" gorm:"not null"`
	Key       string `json:"id,omitempty" gorm:"column:section_key;size:128"`
	Title     string `json:"title,omitempty" gorm:"size:512"`
	Content   string `json:"content" gorm:"type:text;not null" validate:"required"`
	Type      string `json:"type,omitempty" gorm:"size:16" validate:"omitempty,oneof=paragraph heading list quote code"`
}

// ArticleTag is a single tag attached to an article. Names are not unique per
// article; SetTags drops exact duplicates only.
type ArticleTag struct {
	RowID     uint   `gorm:"column:id;primaryKey;autoIncrement"`
	ArticleID string `gorm:"size:64;not null;index"`
	Name      string `gorm:"size:191;not null;index"`
	Position  int    `gorm:"not null"`
}
