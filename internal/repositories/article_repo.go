package repositories

import (
	"swagstore/internal/models"
)

// ArticleFilter narrows an article listing. Zero values mean "no filter".
type ArticleFilter struct {
	CategorySlug string
	TagSlug      string
	AuthorSlug   string
	Featured     *bool
	Page         int
	PageSize     int
}

// ArticleRepository defines the interface for blog article data access.
type ArticleRepository interface {
	List(filter ArticleFilter) ([]models.Article, int64, error)
	GetBySlug(slug string) (*models.Article, error)
	// GetRelatedCandidates returns published articles sharing the category
	// or at least one tag with the given article, excluding the article
	// itself. Ranking is done by the caller.
	GetRelatedCandidates(excludeID, categoryID string, tagIDs []string) ([]models.Article, error)
	GetCategories() ([]models.ArticleCategory, error)
	GetAuthor(slug string) (*models.Author, error)
	Create(article *models.Article) error
}
