// file: model/filter.go

package model

// ProductFilter carries the parsed listing options of GET /products.
// A nil filter means "no options at all" and allows the listing to be cached.
type ProductFilter struct {
	Cursor          int
	Limit           int
	Sort            []SortParam
	Filters         map[string]string
	ProjectedFields []string
	IncludeCategory bool
}

type SortParam struct {
	Field     string
	Direction string // "ASC" or "DESC"
}

// ProjectableFields whitelists what a client may project (field names are
// lowercased before matching). FilterLabels lists the recognised filter
// query parameters. Sortable fields are whitelisted by the repository.
var (
	ProjectableFields = []string{"id", "label", "price", "stock", "createdat"}
	FilterLabels      = []string{"category", "price-lte", "price-gte", "price-lt", "price-gt"}
)
