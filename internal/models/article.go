package models

import (
	"time"

	"gorm.io/gorm"
)

// ArticleCategory is a blog category. Color is a hex string used by the
// storefront for the category badge.
type ArticleCategory struct {
	ID    string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name  string `json:"name" validate:"required,max=100"`
	Slug  string `json:"slug" gorm:"uniqueIndex;type:varchar(100)" validate:"required"`
	Color string `json:"color"`
	gorm.Model
}

// ArticleTag is a free-form blog tag.
type ArticleTag struct {
	ID   string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name string `json:"name" validate:"required,max=100"`
	Slug string `json:"slug" gorm:"uniqueIndex;type:varchar(100)" validate:"required"`
	gorm.Model
}

// Author is a blog author with their own landing page.
type Author struct {
	ID      string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name    string `json:"name" validate:"required,max=100"`
	Slug    string `json:"slug" gorm:"uniqueIndex;type:varchar(100)" validate:"required"`
	Bio     string `json:"bio"`
	Avatar  string `json:"avatar"`
	Twitter string `json:"twitter"`
	gorm.Model
}

// Article is a blog post. Related articles are ranked by shared category
// and tags, so both associations are preloaded by the repository.
type Article struct {
	ID            string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title         string           `json:"title" validate:"required,max=200"`
	Slug          string           `json:"slug" gorm:"uniqueIndex;type:varchar(200)" validate:"required"`
	Excerpt       string           `json:"excerpt" validate:"omitempty,max=500"`
	Content       string           `json:"content"`
	FeaturedImage string           `json:"featured_image"`
	AuthorID      string           `json:"author_id" gorm:"type:varchar(36);index"`
	Author        *Author          `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	CategoryID    string           `json:"category_id" gorm:"type:varchar(36);index"`
	Category      *ArticleCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Tags          []ArticleTag     `json:"tags" gorm:"many2many:article_tag_links"`
	Featured      bool             `json:"featured"`
	PublishedAt   time.Time        `json:"published_at"`
	gorm.Model
}

// TagIDs returns the ids of the article's tags.
func (a *Article) TagIDs() []string {
	ids := make([]string, 0, len(a.Tags))
	for _, t := range a.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}
