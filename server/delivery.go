package server

import (
	"github.com/gofiber/fiber/v2"

	"food-ordering/api/models"
)

// @Summary List ready orders waiting for a courier
// @Tags Delivery
// @Produce json
// @Router /api/delivery/available-orders [get]
func (s *Server) getAvailableOrders(c *fiber.Ctx) error {
	orders, err := s.delivery.AvailableOrders(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(orders),
		"data":    orders,
	})
}

// @Summary Accept an order for delivery
// @Tags Delivery
// @Produce json
// @Router /api/delivery/accept-order/{orderId} [put]
func (s *Server) acceptOrder(c *fiber.Ctx) error {
	order, err := s.delivery.Accept(c.Context(), callerID(c), c.Params("orderId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order accepted for delivery",
		"data":    order,
	})
}

// @Summary List the courier's orders
// @Tags Delivery
// @Produce json
// @Router /api/delivery/my-orders [get]
func (s *Server) getMyDeliveryOrders(c *fiber.Ctx) error {
	status := models.OrderStatus(c.Query("status"))
	orders, err := s.delivery.MyOrders(c.Context(), callerID(c), status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(orders),
		"data":    orders,
	})
}

// @Summary Get the courier's current delivery, if any
// @Tags Delivery
// @Produce json
// @Router /api/delivery/active-delivery [get]
func (s *Server) getActiveDelivery(c *fiber.Ctx) error {
	order, err := s.delivery.ActiveDelivery(c.Context(), callerID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    order,
	})
}

// @Summary Mark an order on the way
// @Tags Delivery
// @Produce json
// @Router /api/delivery/orders/{orderId}/on-the-way [put]
func (s *Server) markOnTheWay(c *fiber.Ctx) error {
	order, err := s.delivery.MarkOnTheWay(c.Context(), callerID(c), c.Params("orderId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order is on the way",
		"data":    order,
	})
}

// @Summary Mark an order delivered
// @Tags Delivery
// @Produce json
// @Router /api/delivery/orders/{orderId}/delivered [put]
func (s *Server) markDelivered(c *fiber.Ctx) error {
	order, err := s.delivery.MarkDelivered(c.Context(), callerID(c), c.Params("orderId"))
	if err != nil {
		return err
	}
	ordersDelivered.Inc()
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order delivered successfully",
		"data":    order,
	})
}

// @Summary Toggle the courier's availability
// @Tags Delivery
// @Produce json
// @Router /api/delivery/toggle-availability [put]
func (s *Server) toggleAvailability(c *fiber.Ctx) error {
	available, err := s.delivery.ToggleAvailability(c.Context(), callerID(c))
	if err != nil {
		return err
	}
	message := "You are now unavailable"
	if available {
		message = "You are now available"
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    fiber.Map{"is_available": available},
	})
}

// @Summary Update the courier's location
// @Tags Delivery
// @Accept json
// @Produce json
// @Router /api/delivery/update-location [put]
func (s *Server) updateLocation(c *fiber.Ctx) error {
	var req struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Latitude == nil || req.Longitude == nil {
		return fiber.NewError(fiber.StatusBadRequest, "latitude and longitude are required")
	}

	if err := s.delivery.UpdateLocation(c.Context(), callerID(c), *req.Latitude, *req.Longitude); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Location updated",
	})
}

// @Summary Courier dashboard statistics
// @Tags Delivery
// @Produce json
// @Router /api/delivery/dashboard [get]
func (s *Server) deliveryDashboard(c *fiber.Ctx) error {
	dashboard, err := s.delivery.Dashboard(c.Context(), callerID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    dashboard,
	})
}
