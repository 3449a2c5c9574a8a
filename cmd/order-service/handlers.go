package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vanshh13/GreenCart-sub000/internal/catalog"
	"github.com/vanshh13/GreenCart-sub000/internal/customer"
	"github.com/vanshh13/GreenCart-sub000/internal/httpx"
	ord "github.com/vanshh13/GreenCart-sub000/internal/order"
)

// orderPlacer and statusMover are the slices of the coordinator and the status
// machine the handlers need; tests stub them.
type orderPlacer interface {
	PlaceOrder(ctx context.Context, customerID string, req ord.CreateOrderRequest) (*ord.Order, error)
}

type statusMover interface {
	Transition(ctx context.Context, orderID string, requested ord.Status, actorID string) (*ord.Order, error)
}

func newRouter(placer orderPlacer, machine statusMover, repo ord.Reader) *gin.Engine {
	r := gin.New()
	r.Use(httpx.RequestID(), httpx.Logger(), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	r.POST("/orders", createOrderHandler(placer))
	r.PUT("/orders/:id", updateOrderStatusHandler(machine))
	r.GET("/orders/:id", getOrderHandler(repo))
	r.GET("/orders/:id/items", getOrderItemsHandler(repo))
	r.GET("/orders/tracking/:id", trackOrderHandler(repo))
	r.GET("/orders/customer/:customer_id", listOrdersByCustomerHandler(repo))
	return r
}

// createOrderHandler runs a checkout.
//
//	POST /orders
func createOrderHandler(placer orderPlacer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Customer string `json:"customer"`
			ord.CreateOrderRequest
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
			return
		}
		o, err := placer.PlaceOrder(c.Request.Context(), body.Customer, body.CreateOrderRequest)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, o)
	}
}

// updateOrderStatusHandler advances an order through the status machine.
//
//	PUT /orders/:id
func updateOrderStatusHandler(machine statusMover) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body ord.UpdateStatusRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
			return
		}
		requested, err := ord.ParseStatus(body.Status)
		if err != nil {
			writeError(c, err)
			return
		}
		o, err := machine.Transition(c.Request.Context(), c.Param("id"), requested, body.Actor)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func getOrderHandler(repo ord.Reader) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func getOrderItemsHandler(repo ord.Reader) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": o.Items})
	}
}

// trackOrderHandler projects status plus the per-status timestamp history.
//
//	GET /orders/tracking/:id
func trackOrderHandler(repo ord.Reader) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"id":         o.ID,
			"status":     o.Status,
			"timestamps": o.Timestamps,
		})
	}
}

func listOrdersByCustomerHandler(repo ord.Reader) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		offset, _ := strconv.Atoi(c.Query("offset"))
		orders, err := repo.ListByCustomer(c.Request.Context(), c.Param("customer_id"), limit, offset)
		if err != nil {
			writeError(c, err)
			return
		}
		if orders == nil {
			orders = []ord.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

func writeError(c *gin.Context, err error) {
	var stock *catalog.InsufficientStockError
	var trans *ord.InvalidTransitionError
	switch {
	case errors.As(err, &stock):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      stock.Error(),
			"product_id": stock.ProductID,
			"available":  stock.Available,
		})
	case errors.Is(err, ord.ErrValidation),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, customer.ErrAddressNotFound),
		errors.Is(err, ord.ErrTerminalState),
		errors.As(err, &trans):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ord.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
