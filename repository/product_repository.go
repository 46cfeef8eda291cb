package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"go-shop-api/logger"
	"go-shop-api/model"
	"strings"
)

// ErrInvalidSortField is returned when a sort refers to a field outside the
// whitelist.
var ErrInvalidSortField = errors.New("invalid sort field")

// IProductRepository defines the contract for product database operations.
type IProductRepository interface {
	GetAllFiltered(filter *model.ProductFilter) ([]*model.Product, error)
}

type ProductRepository struct {
	DB *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{DB: db}
}

// sortColumns maps the public sort field names onto real columns.
var sortColumns = map[string]string{
	"id":        "p.id",
	"label":     "p.label",
	"price":     "p.price",
	"stock":     "p.stock",
	"createdAt": "p.created_at",
}

// GetAllFiltered retrieves products with the category joined in, applying
// the cursor, limit, sort and filter options when a filter is present.
func (r *ProductRepository) GetAllFiltered(filter *model.ProductFilter) ([]*model.Product, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT p.id, p.label, p.price, p.stock, p.created_at, p.updated_at, c.id, c.label, COALESCE(c.description, '') FROM products p JOIN categories c ON c.id = p.category_id`)

	var conditions []string
	var args []interface{}

	if filter != nil {
		if filter.Cursor > 0 {
			args = append(args, filter.Cursor)
			conditions = append(conditions, fmt.Sprintf("p.id >= $%d", len(args)))
		}

		for field, value := range filter.Filters {
			switch field {
			case "category":
				args = append(args, value)
				conditions = append(conditions, fmt.Sprintf("c.label = $%d", len(args)))
			case "price-lte":
				args = append(args, value)
				conditions = append(conditions, fmt.Sprintf("p.price <= $%d", len(args)))
			case "price-gte":
				args = append(args, value)
				conditions = append(conditions, fmt.Sprintf("p.price >= $%d", len(args)))
			case "price-lt":
				args = append(args, value)
				conditions = append(conditions, fmt.Sprintf("p.price < $%d", len(args)))
			case "price-gt":
				args = append(args, value)
				conditions = append(conditions, fmt.Sprintf("p.price > $%d", len(args)))
			}
		}
	}

	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}

	if filter != nil && len(filter.Sort) > 0 {
		var orders []string
		for _, s := range filter.Sort {
			column, ok := sortColumns[s.Field]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrInvalidSortField, s.Field)
			}
			orders = append(orders, column+" "+s.Direction)
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(orders, ", "))
	} else {
		sb.WriteString(" ORDER BY p.id ASC")
	}

	if filter != nil && filter.Limit > 0 {
		args = append(args, filter.Limit)
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}

	rows, err := r.DB.Query(sb.String(), args...)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute filtered products query")
		return nil, err
	}
	defer rows.Close()

	var products []*model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Label, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt,
			&p.Category.ID, &p.Category.Label, &p.Category.Description); err != nil {
			logger.Log.WithError(err).Error("Failed to scan product row")
			return nil, err
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}
