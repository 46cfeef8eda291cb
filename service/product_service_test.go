// file: service/product_service_test.go

package service

import (
	"context"
	"encoding/json"
	"go-shop-api/model"
	"net/url"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockProductRepo struct{ mock.Mock }

func (m *mockProductRepo) GetAllFiltered(filter *model.ProductFilter) ([]*model.Product, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Product), args.Error(1)
}

// fakeCache is an in-memory ICacheClient.
type fakeCache struct {
	values map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}}
}

func (c *fakeCache) Get(ctx context.Context, key string) *redis.StringCmd {
	if value, ok := c.values[key]; ok {
		return redis.NewStringResult(value, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		c.values[key] = string(v)
	case string:
		c.values[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var count int64
	for _, key := range keys {
		if _, ok := c.values[key]; ok {
			delete(c.values, key)
			count++
		}
	}
	return redis.NewIntResult(count, nil)
}

func TestProductService_ParseFilter(t *testing.T) {
	svc := NewProductService(nil, nil)

	t.Run("empty query means nil filter", func(t *testing.T) {
		filter, err := svc.ParseFilter(url.Values{})
		assert.NoError(t, err)
		assert.Nil(t, filter)
	})

	t.Run("full option set", func(t *testing.T) {
		params := url.Values{}
		params.Set("cursor", "10")
		params.Set("limit", "5")
		params.Set("sort", "-price,label")
		params.Set("category", "category1")
		params.Set("price-lte", "50")
		params.Set("fields", "id,label,price")
		params.Set("include", "category")

		filter, err := svc.ParseFilter(params)
		assert.NoError(t, err)
		assert.Equal(t, 10, filter.Cursor)
		assert.Equal(t, 5, filter.Limit)
		assert.Equal(t, []model.SortParam{
			{Field: "price", Direction: "DESC"},
			{Field: "label", Direction: "ASC"},
		}, filter.Sort)
		assert.Equal(t, map[string]string{"category": "category1", "price-lte": "50"}, filter.Filters)
		assert.Equal(t, []string{"id", "label", "price"}, filter.ProjectedFields)
		assert.True(t, filter.IncludeCategory)
	})

	t.Run("non numeric cursor", func(t *testing.T) {
		params := url.Values{}
		params.Set("cursor", "abc")
		_, err := svc.ParseFilter(params)
		assert.Error(t, err)
	})

	t.Run("non numeric limit", func(t *testing.T) {
		params := url.Values{}
		params.Set("limit", "ten")
		_, err := svc.ParseFilter(params)
		assert.Error(t, err)
	})

	t.Run("unknown projected field", func(t *testing.T) {
		params := url.Values{}
		params.Set("fields", "id,secret")
		_, err := svc.ParseFilter(params)
		assert.Error(t, err)
	})

	t.Run("unknown relation", func(t *testing.T) {
		params := url.Values{}
		params.Set("include", "supplier")
		_, err := svc.ParseFilter(params)
		assert.Error(t, err)
	})
}

func TestProductService_Serialize(t *testing.T) {
	svc := NewProductService(nil, nil)
	products := []*model.Product{
		{
			ID:    1,
			Label: "walnut desk organizer",
			Price: 24.9,
			Stock: 1200,
			Category: model.Category{
				Label:       "category1",
				Description: "this is the first category",
			},
		},
	}

	t.Run("no filter returns all base fields", func(t *testing.T) {
		items := svc.Serialize(products, nil)
		assert.Len(t, items, 1)
		assert.Equal(t, 1, items[0]["id"])
		assert.Equal(t, "walnut desk organizer", items[0]["label"])
		assert.Contains(t, items[0], "price")
		assert.Contains(t, items[0], "stock")
		assert.Contains(t, items[0], "createdAt")
		assert.NotContains(t, items[0], "category")
	})

	t.Run("projection keeps only requested fields", func(t *testing.T) {
		filter := &model.ProductFilter{ProjectedFields: []string{"id", "price"}}
		items := svc.Serialize(products, filter)
		assert.Equal(t, 1, items[0]["id"])
		assert.Contains(t, items[0], "price")
		assert.NotContains(t, items[0], "label")
		assert.NotContains(t, items[0], "stock")
		assert.NotContains(t, items[0], "createdAt")
	})

	t.Run("include category adds the relation", func(t *testing.T) {
		filter := &model.ProductFilter{IncludeCategory: true}
		items := svc.Serialize(products, filter)
		category, ok := items[0]["category"].(map[string]interface{})
		assert.True(t, ok)
		assert.Equal(t, "category1", category["label"])
		assert.Equal(t, "this is the first category", category["description"])
	})
}

func TestProductService_List_Caching(t *testing.T) {
	products := []*model.Product{{ID: 1, Label: "walnut desk organizer", Price: 24.9, Stock: 1200}}

	t.Run("unfiltered listing is cached", func(t *testing.T) {
		mockRepo := new(mockProductRepo)
		mockRepo.On("GetAllFiltered", (*model.ProductFilter)(nil)).Return(products, nil).Once()

		cache := newFakeCache()
		svc := NewProductService(mockRepo, cache)

		// First call misses the cache and hits the repository.
		got, err := svc.List(nil)
		assert.NoError(t, err)
		assert.Len(t, got, 1)

		cached, ok := cache.values[productCacheKey]
		assert.True(t, ok)
		var fromCache []*model.Product
		assert.NoError(t, json.Unmarshal([]byte(cached), &fromCache))

		// Second call is served from the cache; the mock allows only one
		// repository hit.
		got, err = svc.List(nil)
		assert.NoError(t, err)
		assert.Len(t, got, 1)
		mockRepo.AssertExpectations(t)
	})

	t.Run("filtered listing bypasses the cache", func(t *testing.T) {
		filter := &model.ProductFilter{Limit: 5}
		mockRepo := new(mockProductRepo)
		mockRepo.On("GetAllFiltered", filter).Return(products, nil).Twice()

		cache := newFakeCache()
		svc := NewProductService(mockRepo, cache)

		for i := 0; i < 2; i++ {
			_, err := svc.List(filter)
			assert.NoError(t, err)
		}
		assert.Empty(t, cache.values)
		mockRepo.AssertExpectations(t)
	})
}
