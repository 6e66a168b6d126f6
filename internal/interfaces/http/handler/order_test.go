package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	salesapp "github.com/livesale/backend/internal/application/sales"
	"github.com/livesale/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newOrderRouter(orders OrderQuery) *gin.Engine {
	h := NewOrderHandler(orders)
	r := gin.New()
	r.GET("/orders", h.ListOrders)
	r.GET("/orders/:id", h.GetOrder)
	return r
}

func get(r *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestOrderHandler_GetOrder(t *testing.T) {
	id := uuid.New()

	t.Run("found", func(t *testing.T) {
		orders := new(mockOrderQuery)
		orders.On("GetOrder", mock.Anything, id).Return(&salesapp.OrderResponse{
			ID:          id,
			Channel:     "LIVE",
			BusinessDay: "2026-03-14",
			TotalAmount: decimal.RequireFromString("149.70"),
		}, nil)

		w := get(newOrderRouter(orders), "/orders/"+id.String())

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]any)
		assert.Equal(t, id.String(), data["id"])
		assert.Equal(t, "149.7", data["total_amount"])
	})

	t.Run("not found", func(t *testing.T) {
		orders := new(mockOrderQuery)
		orders.On("GetOrder", mock.Anything, id).
			Return(nil, shared.NewNotFoundError("ORDER_NOT_FOUND", "Order not found"))

		w := get(newOrderRouter(orders), "/orders/"+id.String())

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "ORDER_NOT_FOUND", decodeResponse(t, w).Error.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		orders := new(mockOrderQuery)

		w := get(newOrderRouter(orders), "/orders/42")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		orders.AssertNotCalled(t, "GetOrder", mock.Anything, mock.Anything)
	})
}

func TestOrderHandler_ListOrders(t *testing.T) {
	t.Run("passes filters through", func(t *testing.T) {
		orders := new(mockOrderQuery)
		orders.On("ListOrders", mock.Anything, mock.MatchedBy(func(req salesapp.ListOrdersRequest) bool {
			return req.BusinessDay == "2026-03-14" &&
				req.Phone == "11987654321" &&
				req.Paid != nil && !*req.Paid &&
				req.Page == 2 && req.PageSize == 10
		})).Return(&shared.Paginated[salesapp.OrderResponse]{
			Items:      []salesapp.OrderResponse{{ID: uuid.New()}},
			Total:      11,
			Page:       2,
			PageSize:   10,
			TotalPages: 2,
		}, nil)

		w := get(newOrderRouter(orders), "/orders?business_day=2026-03-14&phone=11987654321&paid=false&page=2&page_size=10")

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(11), resp.Meta.Total)
		assert.Equal(t, 2, resp.Meta.TotalPages)
		assert.Len(t, resp.Data, 1)
		orders.AssertExpectations(t)
	})

	t.Run("rejects bad query", func(t *testing.T) {
		for _, q := range []string{"business_day=14/03/2026", "page_size=500", "page=0&page_size=-1"} {
			orders := new(mockOrderQuery)
			w := get(newOrderRouter(orders), "/orders?"+q)
			assert.Equal(t, http.StatusBadRequest, w.Code, q)
			orders.AssertNotCalled(t, "ListOrders", mock.Anything, mock.Anything)
		}
	})

	t.Run("service validation error", func(t *testing.T) {
		orders := new(mockOrderQuery)
		orders.On("ListOrders", mock.Anything, mock.Anything).
			Return(nil, shared.NewValidationError("INVALID_PHONE", "Phone must have 10 or 11 digits"))

		w := get(newOrderRouter(orders), "/orders?phone=123")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_PHONE", decodeResponse(t, w).Error.Code)
	})
}
