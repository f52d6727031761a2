package main

import (
	"context"
	"log"

	"github.com/go-redis/redis/v8"

	"food-ordering/api/config"
	_ "food-ordering/api/docs"
	"food-ordering/api/events"
	"food-ordering/api/server"
	"food-ordering/api/service"
	"food-ordering/api/store"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	ctx := context.Background()

	db, err := store.Connect(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal("Failed to connect to Postgres:", err)
	}
	defer db.Close()

	if err := store.Migrate(ctx, db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	publisher, err := events.NewPublisher(cfg)
	if err != nil {
		log.Fatal("Failed to initialize event publisher:", err)
	}
	defer publisher.Close()

	carts := store.NewCarts(db)
	orders := store.NewOrders(db)
	users := store.NewUsers(db)
	restaurants := store.NewRestaurants(db)
	menu := store.NewMenu(db)
	presence := store.NewRedisPresence(rdb)

	cartService := service.NewCartService(carts, menu)
	orderService := service.NewOrderService(orders, carts, menu, restaurants, users, publisher)
	deliveryService := service.NewDeliveryService(orders, users, publisher, presence)

	srv := server.New(cfg, cartService, orderService, deliveryService)

	log.Printf("Server starting on port %s", cfg.Server.Port)
	log.Fatal(srv.Listen())
}
