package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"food-ordering/api/config"
	"food-ordering/api/models"
	"food-ordering/api/service"
)

type Server struct {
	config   *config.Config
	app      *fiber.App
	carts    *service.CartService
	orders   *service.OrderService
	delivery *service.DeliveryService
}

func New(cfg *config.Config, carts *service.CartService, orders *service.OrderService, delivery *service.DeliveryService) *Server {
	s := &Server{
		config:   cfg,
		carts:    carts,
		orders:   orders,
		delivery: delivery,
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: errorHandler,
	})

	// Middlewares
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())
	app.Use(metricsMiddleware())

	app.Get("/health", healthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/swagger/*", swagger.HandlerDefault)

	s.app = app
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.app.Group("/api", s.authRequired)

	cart := api.Group("/cart", requireRole(models.RoleCustomer))
	cart.Get("/", s.getCart)
	cart.Post("/add", s.addToCart)
	cart.Put("/update/:itemId", s.updateCartItem)
	cart.Delete("/remove/:itemId", s.removeFromCart)
	cart.Delete("/clear", s.clearCart)

	orders := api.Group("/orders")
	orders.Post("/", requireRole(models.RoleCustomer), s.createOrder)
	orders.Get("/my-orders", requireRole(models.RoleCustomer), s.getMyOrders)
	orders.Get("/statistics", requireRole(models.RoleCustomer), s.getOrderStatistics)
	orders.Get("/:id", s.getOrder)
	orders.Put("/:id/cancel", requireRole(models.RoleCustomer), s.cancelOrder)
	orders.Put("/:id/rate", requireRole(models.RoleCustomer), s.rateOrder)

	owner := api.Group("/owner", requireRole(models.RoleOwner))
	owner.Get("/orders", s.getRestaurantOrders)
	owner.Put("/orders/:id/status", s.updateOrderStatus)
	owner.Get("/dashboard", s.ownerDashboard)

	delivery := api.Group("/delivery", requireRole(models.RoleDelivery))
	delivery.Get("/available-orders", s.getAvailableOrders)
	delivery.Put("/accept-order/:orderId", s.acceptOrder)
	delivery.Get("/my-orders", s.getMyDeliveryOrders)
	delivery.Get("/active-delivery", s.getActiveDelivery)
	delivery.Put("/orders/:orderId/on-the-way", s.markOnTheWay)
	delivery.Put("/orders/:orderId/delivered", s.markDelivered)
	delivery.Put("/toggle-availability", s.toggleAvailability)
	delivery.Put("/update-location", s.updateLocation)
	delivery.Get("/dashboard", s.deliveryDashboard)
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App { return s.app }

func (s *Server) Listen() error {
	return s.app.Listen(":" + s.config.Server.Port)
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()

	switch {
	case errors.Is(err, service.ErrNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		code = fiber.StatusForbidden
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrItemUnavailable),
		errors.Is(err, service.ErrCrossRestaurant),
		errors.Is(err, service.ErrAlreadyAssigned),
		errors.Is(err, service.ErrCourierUnavailable),
		errors.Is(err, service.ErrActiveDelivery),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrNotDelivered):
		code = fiber.StatusBadRequest
	}

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	if code == fiber.StatusInternalServerError {
		message = "internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func healthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"time":   time.Now(),
	})
}
