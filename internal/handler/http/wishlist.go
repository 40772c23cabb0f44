package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/swagshop/internal/domain"
	"github.com/utafrali/swagshop/internal/service"
	"github.com/utafrali/swagshop/pkg/httputil"
)

const (
	msgListWishListsFailed  = "Could not fetch wishlists"
	msgCreateWishListFailed = "Couldn't create wishlist"
	msgAddProductFailed     = "Could not add item to wishlist"

	msgAddProductSucceeded = "Successfully added to wish list"
)

// WishListHandler handles HTTP requests for wishlist endpoints.
type WishListHandler struct {
	service *service.WishListService
	logger  *slog.Logger
}

// NewWishListHandler creates a new wishlist HTTP handler.
func NewWishListHandler(svc *service.WishListService, logger *slog.Logger) *WishListHandler {
	return &WishListHandler{
		service: svc,
		logger:  logger,
	}
}

// ListWishLists handles GET /wishlist
func (h *WishListHandler) ListWishLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.service.ListWishLists(r.Context())
	if err != nil {
		httputil.WriteFailure(w, r, http.StatusInternalServerError, msgListWishListsFailed, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, lists)
}

// CreateWishList handles POST /wishlist
func (h *WishListHandler) CreateWishList(w http.ResponseWriter, r *http.Request) {
	var req CreateWishListRequest
	if err := decodeRequest(w, r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	wishList, err := h.service.CreateWishList(r.Context(), domain.CreateWishListInput{Title: req.Title})
	if err != nil {
		httputil.WriteFailure(w, r, http.StatusInternalServerError, msgCreateWishListFailed, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, wishList)
}

// AddProduct handles PUT /wishlist/product/add
//
// Every failure, including an unknown product, is a 500 with the same
// message; the cause only goes to the log.
func (h *WishListHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req AddProductRequest
	if err := decodeRequest(w, r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.service.AddProductToWishList(r.Context(), req.ProductID, req.WishListID); err != nil {
		httputil.WriteFailure(w, r, http.StatusInternalServerError, msgAddProductFailed, err, h.logger)
		return
	}

	httputil.WriteText(w, http.StatusOK, msgAddProductSucceeded)
}
