package services

import (
	"sort"

	"swagstore/internal/models"
	"swagstore/internal/repositories"
)

// How many related articles accompany an article page.
const relatedArticleLimit = 3

// ArticlePage is one page of a paginated article listing.
type ArticlePage struct {
	Articles   []models.Article `json:"articles"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
}

// BlogService handles article listings, lookups and related-article
// ranking.
type BlogService struct {
	articleRepo repositories.ArticleRepository
}

// NewBlogService creates a new BlogService.
func NewBlogService(articleRepo repositories.ArticleRepository) *BlogService {
	return &BlogService{
		articleRepo: articleRepo,
	}
}

// ListArticles retrieves one page of articles matching the filter.
func (s *BlogService) ListArticles(filter repositories.ArticleFilter) (*ArticlePage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	articles, total, err := s.articleRepo.List(filter)
	if err != nil {
		return nil, err
	}

	totalPages := 1
	if filter.PageSize > 0 {
		totalPages = int((total + int64(filter.PageSize) - 1) / int64(filter.PageSize))
		if totalPages < 1 {
			totalPages = 1
		}
	}
	return &ArticlePage{
		Articles:   articles,
		Total:      total,
		Page:       filter.Page,
		TotalPages: totalPages,
	}, nil
}

// GetArticle retrieves an article by slug.
func (s *BlogService) GetArticle(slug string) (*models.Article, error) {
	return s.articleRepo.GetBySlug(slug)
}

// Categories retrieves all blog categories.
func (s *BlogService) Categories() ([]models.ArticleCategory, error) {
	return s.articleRepo.GetCategories()
}

// GetAuthor retrieves an author by slug.
func (s *BlogService) GetAuthor(slug string) (*models.Author, error) {
	return s.articleRepo.GetAuthor(slug)
}

// RelatedArticles ranks articles related to the given one. Sharing the
// category scores 2, each shared tag scores 1; ties break on recency.
// The article itself is excluded and at most relatedArticleLimit results
// are returned.
func (s *BlogService) RelatedArticles(article *models.Article) ([]models.Article, error) {
	tagIDs := article.TagIDs()
	candidates, err := s.articleRepo.GetRelatedCandidates(article.ID, article.CategoryID, tagIDs)
	if err != nil {
		return nil, err
	}

	tagSet := make(map[string]bool, len(tagIDs))
	for _, id := range tagIDs {
		tagSet[id] = true
	}

	scores := make(map[string]int, len(candidates))
	for _, c := range candidates {
		score := 0
		if c.CategoryID != "" && c.CategoryID == article.CategoryID {
			score += 2
		}
		for _, t := range c.Tags {
			if tagSet[t.ID] {
				score++
			}
		}
		scores[c.ID] = score
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		si, sj := scores[candidates[i].ID], scores[candidates[j].ID]
		if si != sj {
			return si > sj
		}
		return candidates[i].PublishedAt.After(candidates[j].PublishedAt)
	})

	if len(candidates) > relatedArticleLimit {
		candidates = candidates[:relatedArticleLimit]
	}
	return candidates, nil
}
