package server

import (
	"math"

	"github.com/gofiber/fiber/v2"

	"food-ordering/api/models"
)

type createOrderRequest struct {
	DeliveryAddress models.DeliveryAddress `json:"delivery_address"`
	PaymentMethod   models.PaymentMethod   `json:"payment_method"`
	Instructions    string                 `json:"instructions"`
}

// @Summary Place an order from the caller's cart
// @Tags Orders
// @Accept json
// @Produce json
// @Router /api/orders [post]
func (s *Server) createOrder(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	order, err := s.orders.Create(c.Context(), callerID(c), req.DeliveryAddress, req.PaymentMethod, req.Instructions)
	if err != nil {
		return err
	}
	ordersPlaced.Inc()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Order placed successfully",
		"data":    order,
	})
}

// @Summary List the caller's orders
// @Tags Orders
// @Produce json
// @Router /api/orders/my-orders [get]
func (s *Server) getMyOrders(c *fiber.Ctx) error {
	status := models.OrderStatus(c.Query("status"))
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	orders, count, err := s.orders.ListMine(c.Context(), callerID(c), status, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":      true,
		"count":        len(orders),
		"total_pages":  int(math.Ceil(float64(count) / float64(limit))),
		"current_page": page,
		"data":         orders,
	})
}

// @Summary Order statistics for the caller
// @Tags Orders
// @Produce json
// @Router /api/orders/statistics [get]
func (s *Server) getOrderStatistics(c *fiber.Ctx) error {
	stats, err := s.orders.Statistics(c.Context(), callerID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}

// @Summary Get a single order
// @Tags Orders
// @Produce json
// @Router /api/orders/{id} [get]
func (s *Server) getOrder(c *fiber.Ctx) error {
	order, err := s.orders.Get(c.Context(), callerID(c), callerRole(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    order,
	})
}

// @Summary Cancel an order
// @Tags Orders
// @Accept json
// @Produce json
// @Router /api/orders/{id}/cancel [put]
func (s *Server) cancelOrder(c *fiber.Ctx) error {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	order, err := s.orders.Cancel(c.Context(), callerID(c), c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	ordersCancelled.Inc()

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order cancelled successfully",
		"data":    order,
	})
}

// @Summary Rate a delivered order
// @Tags Orders
// @Accept json
// @Produce json
// @Router /api/orders/{id}/rate [put]
func (s *Server) rateOrder(c *fiber.Ctx) error {
	var req struct {
		FoodRating     int    `json:"food_rating"`
		DeliveryRating int    `json:"delivery_rating"`
		Comment        string `json:"comment"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	order, err := s.orders.Rate(c.Context(), callerID(c), c.Params("id"), req.FoodRating, req.DeliveryRating, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Rating submitted successfully",
		"data":    order,
	})
}
