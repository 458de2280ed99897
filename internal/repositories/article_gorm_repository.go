package repositories

import (
	"errors"
	"fmt"

	"swagstore/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMArticleRepository is a GORM implementation of ArticleRepository.
type GORMArticleRepository struct {
	db *gorm.DB
}

// NewGORMArticleRepository creates a new instance of GORMArticleRepository.
func NewGORMArticleRepository(db *gorm.DB) *GORMArticleRepository {
	return &GORMArticleRepository{
		db: db,
	}
}

// List retrieves articles matching the filter, newest first, plus the
// unpaginated count.
func (r *GORMArticleRepository) List(filter ArticleFilter) ([]models.Article, int64, error) {
	query := r.db.Model(&models.Article{})
	if filter.Featured != nil {
		query = query.Where("featured = ?", *filter.Featured)
	}
	if filter.CategorySlug != "" {
		query = query.Joins("JOIN article_categories ON article_categories.id = articles.category_id").
			Where("article_categories.slug = ?", filter.CategorySlug)
	}
	if filter.TagSlug != "" {
		query = query.Joins("JOIN article_tag_links ON article_tag_links.article_id = articles.id").
			Joins("JOIN article_tags ON article_tags.id = article_tag_links.article_tag_id").
			Where("article_tags.slug = ?", filter.TagSlug)
	}
	if filter.AuthorSlug != "" {
		query = query.Joins("JOIN authors ON authors.id = articles.author_id").
			Where("authors.slug = ?", filter.AuthorSlug)
	}

	var total int64
	if err := query.Distinct("articles.id").Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count articles: %w", err)
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var articles []models.Article
	err := query.Distinct("articles.*").
		Preload("Category").Preload("Tags").Preload("Author").
		Order("published_at DESC").
		Find(&articles).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list articles: %w", err)
	}
	return articles, total, nil
}

// GetBySlug retrieves an article by its URL slug with category and tags.
func (r *GORMArticleRepository) GetBySlug(slug string) (*models.Article, error) {
	var article models.Article
	err := r.db.Preload("Category").Preload("Tags").Preload("Author").First(&article, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("article %s: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get article by slug %s: %w", slug, err)
	}
	return &article, nil
}

// GetRelatedCandidates retrieves articles sharing the category or a tag,
// excluding the article itself.
func (r *GORMArticleRepository) GetRelatedCandidates(excludeID, categoryID string, tagIDs []string) ([]models.Article, error) {
	query := r.db.Model(&models.Article{}).Where("articles.id <> ?", excludeID)
	if len(tagIDs) > 0 {
		query = query.Where(
			"articles.category_id = ? OR articles.id IN (?)",
			categoryID,
			r.db.Table("article_tag_links").Select("article_id").Where("article_tag_id IN ?", tagIDs),
		)
	} else {
		query = query.Where("articles.category_id = ?", categoryID)
	}

	var articles []models.Article
	if err := query.Preload("Category").Preload("Tags").Preload("Author").Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("failed to get related articles for %s: %w", excludeID, err)
	}
	return articles, nil
}

// GetAuthor retrieves an author by their URL slug.
func (r *GORMArticleRepository) GetAuthor(slug string) (*models.Author, error) {
	var author models.Author
	if err := r.db.First(&author, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("author %s: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get author by slug %s: %w", slug, err)
	}
	return &author, nil
}

// GetCategories retrieves all blog categories.
func (r *GORMArticleRepository) GetCategories() ([]models.ArticleCategory, error) {
	var categories []models.ArticleCategory
	if err := r.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get article categories: %w", err)
	}
	return categories, nil
}

// Create creates a new article with its tag associations.
func (r *GORMArticleRepository) Create(article *models.Article) error {
	if article.ID == "" {
		article.ID = uuid.New().String()
	}
	if err := r.db.Create(article).Error; err != nil {
		return fmt.Errorf("failed to create article: %w", err)
	}
	return nil
}
