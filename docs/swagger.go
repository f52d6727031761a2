package docs

import "github.com/swaggo/swag"

// @title Food Ordering API
// @version 1.0
// @description Order lifecycle API: cart, checkout, restaurant workflow, delivery
// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
var SwaggerInfo = &swag.Spec{
	Version:     "1.0",
	Host:        "localhost:8080",
	BasePath:    "/api",
	Title:       "Food Ordering API",
	Description: "Order lifecycle API: cart, checkout, restaurant workflow, delivery",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
