package services_test

import (
	"testing"

	"swagstore/internal/models"
	"swagstore/internal/repositories"
	"swagstore/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogFixture(t *testing.T) (*services.CatalogService, *repositories.MockProductRepository) {
	t.Helper()
	productRepo := repositories.NewMockProductRepository()
	return services.NewCatalogService(productRepo, nil, nil), productRepo
}

func TestCatalogService_RelatedProductsRanking(t *testing.T) {
	svc, productRepo := newCatalogFixture(t)

	subject := &models.Product{ID: "prod-subject", Name: "Subject Tee", Slug: "subject-tee", Price: 25.00, CollectionID: "col-apparel"}
	seed := []models.Product{
		*subject,
		// Same collection and featured: score 15, should rank first.
		{ID: "prod-both", Name: "Featured Hoodie", Slug: "featured-hoodie", Price: 55.00, Featured: true, CollectionID: "col-apparel"},
		// Same collection only: score 10.
		{ID: "prod-collection", Name: "Plain Cap", Slug: "plain-cap", Price: 20.00, CollectionID: "col-apparel"},
		// Featured in another collection: score 5.
		{ID: "prod-featured", Name: "Featured Mug", Slug: "featured-mug", Price: 18.00, Featured: true, CollectionID: "col-accessories"},
		// Unrelated: score 0, still fills the fourth slot.
		{ID: "prod-plain", Name: "Plain Sticker", Slug: "plain-sticker", Price: 5.00, CollectionID: "col-accessories"},
		// Unrelated: score 0, pushed out by the limit.
		{ID: "prod-overflow", Name: "Plain Poster", Slug: "plain-poster", Price: 12.00, CollectionID: "col-accessories"},
	}
	for i := range seed {
		require.NoError(t, productRepo.Create(&seed[i]))
	}

	related, err := svc.RelatedProducts(subject)
	require.NoError(t, err)
	require.Len(t, related, 4)
	assert.Equal(t, "prod-both", related[0].ID)
	assert.Equal(t, "prod-collection", related[1].ID)
	assert.Equal(t, "prod-featured", related[2].ID)
	// Equal scores keep the catalog's listing order.
	assert.Equal(t, "prod-plain", related[3].ID)

	for _, p := range related {
		assert.NotEqual(t, subject.ID, p.ID)
	}
}

func TestCatalogService_RelatedProductsNoCandidates(t *testing.T) {
	svc, productRepo := newCatalogFixture(t)

	subject := &models.Product{ID: "prod-lonely", Name: "Lonely Tee", Slug: "lonely-tee", Price: 25.00}
	require.NoError(t, productRepo.Create(subject))

	related, err := svc.RelatedProducts(subject)
	require.NoError(t, err)
	assert.Empty(t, related)
}
