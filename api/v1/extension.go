package v1

import (
	"github.com/packagingcountry/stockroom/internal/models"
	srvErrors "github.com/packagingcountry/stockroom/pkg/errors"
)

// ToCart converts a checkout request into a cart. Products are referenced
// by id only; checkout reads names and prices from the store.
func (r CheckoutRequest) ToCart() (models.Cart, error) {
	var cart models.Cart
	for _, item := range r.Items {
		if item.Quantity <= 0 {
			return models.Cart{}, srvErrors.NewInvalidArgumentError("quantity for product %d must be positive, got %d", item.ProductID, item.Quantity)
		}
		cart.Add(models.Product{ID: item.ProductID}, item.Quantity)
	}
	return cart, nil
}

// NewHealthResponseFromModel converts a store status to its API form.
func NewHealthResponseFromModel(status models.StoreStatus, schemaVersion int) HealthResponse {
	h := HealthResponse{
		Status: "ok",
		State:  string(status.State),
	}
	if status.State != models.StoreStateReady {
		h.Status = "unavailable"
	} else {
		h.SchemaVersion = schemaVersion
	}
	if status.Error != nil {
		h.Error = status.Error.Error()
	}
	return h
}

func NewErrorResponse(err error) ErrorResponse {
	return ErrorResponse{Error: err.Error()}
}
