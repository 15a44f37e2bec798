package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/vendora/api/responses"
	"github.com/angelmondragon/vendora/api/validators"
	"github.com/angelmondragon/vendora/internal/catalog"
	"github.com/angelmondragon/vendora/internal/orders"
	"github.com/angelmondragon/vendora/pkg/db/models"
	"github.com/angelmondragon/vendora/pkg/enums"
	"github.com/angelmondragon/vendora/pkg/logger"
)

func orderSummary(o *models.Order) *orders.OrderDTO {
	return orders.FromModel(o, nil)
}

func ListOrders(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter := catalog.OrderFilter{
			PaymentMethod: enums.PaymentMethod(strings.TrimSpace(r.URL.Query().Get("payment_method"))),
			Params:        page,
		}
		if filter.UserID, err = validators.ParseQueryUUID(r, "user_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filter.From, err = validators.ParseQueryTime(r, "from"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filter.To, err = validators.ParseQueryTime(r, "to"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Orders(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pageOf(result, orderSummary))
	}
}

func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// ListOrderItems returns an order's lines, optionally narrowed by status.
func ListOrderItems(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.OrderProducts(r.Context(), catalog.OrderProductFilter{
			OrderID: &id,
			Status:  enums.OrderProductStatus(strings.TrimSpace(r.URL.Query().Get("status"))),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items := make([]orders.ItemDTO, 0, len(rows))
		for i := range rows {
			items = append(items, orders.ItemFromModel(&rows[i]))
		}
		responses.WriteSuccess(w, items)
	}
}
