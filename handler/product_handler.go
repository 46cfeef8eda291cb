// file: handler/product_handler.go

package handler

import (
	"go-shop-api/common"
	"go-shop-api/service"
	"net/http"
)

type ProductHandler struct {
	Service *service.ProductService
}

func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{Service: productService}
}

// List godoc
// @Summary      List products
// @Description  Supports cursor, limit, sort (e.g. sort=-price,label), category and price filters, field projection and include=category.
// @Tags         products
// @Produce      json
// @Param        cursor  query int    false "Minimum product id"
// @Param        limit   query int    false "Maximum number of items"
// @Param        sort    query string false "Comma separated sort fields, - prefix for descending"
// @Param        fields  query string false "Comma separated projected fields"
// @Param        include query string false "Relations to include (category)"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} common.AppError
// @Failure      404 {object} common.AppError
// @Router       /products [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) *common.AppError {
	filter, err := h.Service.ParseFilter(r.URL.Query())
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, err.Error(), nil)
	}

	products, err := h.Service.List(filter)
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Could not list products", err)
	}

	if len(products) == 0 {
		return common.NewAppError(http.StatusNotFound, "No products found", nil)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": h.Service.Serialize(products, filter),
	})
	return nil
}
