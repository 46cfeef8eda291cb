// file: service/product_service.go

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"go-shop-api/model"
	"go-shop-api/repository"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const productCacheKey = "products:all"

// ProductService parses listing options, queries the repository and shapes
// the response. The unfiltered listing goes through a cache-aside path.
type ProductService struct {
	repo        repository.IProductRepository
	cacheClient ICacheClient
}

func NewProductService(repo repository.IProductRepository, cacheClient ICacheClient) *ProductService {
	return &ProductService{
		repo:        repo,
		cacheClient: cacheClient,
	}
}

// ParseFilter turns raw query parameters into a ProductFilter.
// An empty query returns a nil filter.
func (s *ProductService) ParseFilter(params url.Values) (*model.ProductFilter, error) {
	if len(params) == 0 {
		return nil, nil
	}

	filter := &model.ProductFilter{}

	if cursor := params.Get("cursor"); cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil {
			return nil, fmt.Errorf("cursor param must be a number")
		}
		filter.Cursor = n
	}

	if limit := params.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			return nil, fmt.Errorf("limit param must be a number")
		}
		filter.Limit = n
	}

	if sort := params.Get("sort"); sort != "" {
		for _, item := range strings.Split(strings.TrimSpace(sort), ",") {
			if strings.HasPrefix(item, "-") {
				filter.Sort = append(filter.Sort, model.SortParam{Field: item[1:], Direction: "DESC"})
			} else {
				filter.Sort = append(filter.Sort, model.SortParam{Field: item, Direction: "ASC"})
			}
		}
	}

	for _, label := range model.FilterLabels {
		if value := params.Get(label); value != "" {
			if filter.Filters == nil {
				filter.Filters = map[string]string{}
			}
			filter.Filters[label] = value
		}
	}

	if fields := params.Get("fields"); fields != "" {
		for _, field := range strings.Split(strings.ToLower(strings.TrimSpace(fields)), ",") {
			if !contains(model.ProjectableFields, field) {
				return nil, fmt.Errorf("this field is invalid: %s", field)
			}
			filter.ProjectedFields = append(filter.ProjectedFields, field)
		}
	}

	if include := params.Get("include"); include != "" {
		relations := strings.Split(strings.ToLower(strings.TrimSpace(include)), ",")
		if !contains(relations, "category") {
			return nil, fmt.Errorf("this relation is invalid: %s", include)
		}
		filter.IncludeCategory = true
	}

	return filter, nil
}

// List returns the filtered product set. The unfiltered listing is cached
// for ten minutes; filtered queries always hit the database.
func (s *ProductService) List(filter *model.ProductFilter) ([]*model.Product, error) {
	if filter != nil {
		return s.repo.GetAllFiltered(filter)
	}

	ctx := context.Background()
	if cached, err := s.cacheClient.Get(ctx, productCacheKey).Result(); err == nil {
		var products []*model.Product
		if err := json.Unmarshal([]byte(cached), &products); err == nil {
			return products, nil
		}
	}

	products, err := s.repo.GetAllFiltered(nil)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(products); err == nil {
		s.cacheClient.Set(ctx, productCacheKey, data, 10*time.Minute)
	}

	return products, nil
}

// Serialize shapes products for the response: all base fields when no
// projection was requested, otherwise only the projected ones, plus the
// category relation on demand.
func (s *ProductService) Serialize(products []*model.Product, filter *model.ProductFilter) []map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(products))
	for _, p := range products {
		items = append(items, s.serializeProduct(p, filter))
	}
	return items
}

func (s *ProductService) serializeProduct(p *model.Product, filter *model.ProductFilter) map[string]interface{} {
	item := map[string]interface{}{}

	if filter == nil || len(filter.ProjectedFields) == 0 {
		item["id"] = p.ID
		item["label"] = p.Label
		item["price"] = p.Price
		item["stock"] = p.Stock
		item["createdAt"] = p.CreatedAt
	} else {
		fields := filter.ProjectedFields
		if contains(fields, "id") {
			item["id"] = p.ID
		}
		if contains(fields, "label") {
			item["label"] = p.Label
		}
		if contains(fields, "price") {
			item["price"] = p.Price
		}
		if contains(fields, "stock") {
			item["stock"] = p.Stock
		}
		if contains(fields, "createdat") {
			item["createdAt"] = p.CreatedAt
		}
	}

	if filter != nil && filter.IncludeCategory {
		item["category"] = map[string]interface{}{
			"label":       p.Category.Label,
			"description": p.Category.Description,
		}
	}

	return item
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
