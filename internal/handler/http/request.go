package http

import (
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/utafrali/swagshop/pkg/validator"
)

// formDecoder is implemented by request bodies that can also be sent as
// application/x-www-form-urlencoded, which older storefront clients use.
type formDecoder interface {
	decodeForm(values url.Values) error
}

// decodeRequest decodes a JSON or form body into dst and validates it.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) error {
	fd, ok := dst.(formDecoder)
	if !ok || !isForm(r) {
		return validator.DecodeAndValidate(w, r, dst)
	}

	r.Body = http.MaxBytesReader(w, r.Body, validator.MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("parse form body: %w", err)
	}
	if err := fd.decodeForm(r.PostForm); err != nil {
		return fmt.Errorf("decode form body: %w", err)
	}
	return validator.Validate(dst)
}

func isForm(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/x-www-form-urlencoded"
}

// CreateProductRequest is the request body for creating a product. Absent
// fields are stored as their zero value.
type CreateProductRequest struct {
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

func (req *CreateProductRequest) decodeForm(values url.Values) error {
	req.Title = values.Get("title")
	if v := values.Get("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("price: %w", err)
		}
		req.Price = price
	}
	return nil
}

// CreateWishListRequest is the request body for creating a wishlist.
type CreateWishListRequest struct {
	Title string `json:"title"`
}

func (req *CreateWishListRequest) decodeForm(values url.Values) error {
	req.Title = values.Get("title")
	return nil
}

// AddProductRequest is the request body for adding a product to a wishlist.
// Ids are passed to the store as sent; an absent productId never matches a
// product and an absent wishListId never matches a wishlist.
type AddProductRequest struct {
	ProductID  string `json:"productId"`
	WishListID string `json:"wishListId"`
}

func (req *AddProductRequest) decodeForm(values url.Values) error {
	req.ProductID = values.Get("productId")
	req.WishListID = values.Get("wishListId")
	return nil
}
