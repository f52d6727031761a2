package server

import (
	"math"

	"github.com/gofiber/fiber/v2"

	"food-ordering/api/models"
)

// @Summary List the owner's restaurant orders
// @Tags Owner
// @Produce json
// @Router /api/owner/orders [get]
func (s *Server) getRestaurantOrders(c *fiber.Ctx) error {
	status := models.OrderStatus(c.Query("status"))
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	orders, count, err := s.orders.ListRestaurantOrders(c.Context(), callerID(c), status, page, limit)
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

// @Summary Advance an order's status
// @Tags Owner
// @Accept json
// @Produce json
// @Router /api/owner/orders/{id}/status [put]
func (s *Server) updateOrderStatus(c *fiber.Ctx) error {
	var req struct {
		Status models.OrderStatus `json:"status"`
		Note   string             `json:"note"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	order, err := s.orders.UpdateStatus(c.Context(), callerID(c), c.Params("id"), req.Status, req.Note)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order status updated",
		"data":    order,
	})
}

// @Summary Restaurant dashboard statistics
// @Tags Owner
// @Produce json
// @Router /api/owner/dashboard [get]
func (s *Server) ownerDashboard(c *fiber.Ctx) error {
	dashboard, err := s.orders.RestaurantDashboard(c.Context(), callerID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    dashboard,
	})
}
