package server

import (
	"github.com/gofiber/fiber/v2"

	"food-ordering/api/models"
)

type addToCartRequest struct {
	MenuItemID     string                 `json:"menu_item_id"`
	Quantity       int                    `json:"quantity"`
	Customizations []models.Customization `json:"customizations"`
}

// @Summary Get the caller's cart
// @Tags Cart
// @Produce json
// @Router /api/cart [get]
func (s *Server) getCart(c *fiber.Ctx) error {
	cart, err := s.carts.GetOrCreate(c.Context(), callerID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    cart,
	})
}

// @Summary Add a menu item to the cart
// @Tags Cart
// @Accept json
// @Produce json
// @Router /api/cart/add [post]
func (s *Server) addToCart(c *fiber.Ctx) error {
	var req addToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := s.carts.AddItem(c.Context(), callerID(c), req.MenuItemID, req.Quantity, req.Customizations)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Item added to cart",
		"data":    cart,
	})
}

// @Summary Update a cart item's quantity
// @Tags Cart
// @Accept json
// @Produce json
// @Router /api/cart/update/{itemId} [put]
func (s *Server) updateCartItem(c *fiber.Ctx) error {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	cart, err := s.carts.UpdateItemQuantity(c.Context(), callerID(c), c.Params("itemId"), req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Cart updated",
		"data":    cart,
	})
}

// @Summary Remove an item from the cart
// @Tags Cart
// @Produce json
// @Router /api/cart/remove/{itemId} [delete]
func (s *Server) removeFromCart(c *fiber.Ctx) error {
	cart, err := s.carts.RemoveItem(c.Context(), callerID(c), c.Params("itemId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Item removed from cart",
		"data":    cart,
	})
}

// @Summary Clear the cart
// @Tags Cart
// @Produce json
// @Router /api/cart/clear [delete]
func (s *Server) clearCart(c *fiber.Ctx) error {
	cart, err := s.carts.Clear(c.Context(), callerID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Cart cleared",
		"data":    cart,
	})
}
