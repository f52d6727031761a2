package service

import "errors"

// Business-rule errors. Every guard failure maps to one of these so the HTTP
// layer can translate them to status codes without string matching.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("not authorized")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrInvalidInput       = errors.New("invalid input")
	ErrItemUnavailable    = errors.New("item is currently unavailable")
	ErrCrossRestaurant    = errors.New("you can only order from one restaurant at a time")
	ErrAlreadyAssigned    = errors.New("order already assigned to another delivery boy")
	ErrCourierUnavailable = errors.New("you are currently unavailable")
	ErrActiveDelivery     = errors.New("cannot change availability while on active delivery")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrNotDelivered       = errors.New("can only rate delivered orders")
)
