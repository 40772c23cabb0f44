package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/swagshop/internal/domain"
	"github.com/utafrali/swagshop/internal/service"
	"github.com/utafrali/swagshop/pkg/httputil"
)

// Client-facing failure messages. Storefront clients match on these, so
// they are kept verbatim.
const (
	msgCreateProductFailed = "Could not save product"
	msgListProductsFailed  = "Couldnt fetch products"
)

// ProductHandler handles HTTP requests for product endpoints.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateProduct handles POST /product
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := decodeRequest(w, r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), domain.CreateProductInput{
		Title: req.Title,
		Price: req.Price,
	})
	if err != nil {
		httputil.WriteFailure(w, r, http.StatusInternalServerError, msgCreateProductFailed, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, product)
}

// ListProducts handles GET /product
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		httputil.WriteFailure(w, r, http.StatusInternalServerError, msgListProductsFailed, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, products)
}
