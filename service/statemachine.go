package service

import "food-ordering/api/models"

// The order state machine. Every legal transition is declared once, together
// with the role allowed to request it; handlers never check statuses ad hoc.
//
//	pending → confirmed → preparing → ready → picked-up → on-the-way → delivered
//
// cancelled is reachable from pending, confirmed, preparing and ready only.

type transition struct {
	From models.OrderStatus
	To   models.OrderStatus
}

var transitions = map[transition]models.Role{
	{models.OrderStatusPending, models.OrderStatusConfirmed}:   models.RoleOwner,
	{models.OrderStatusConfirmed, models.OrderStatusPreparing}: models.RoleOwner,
	{models.OrderStatusPreparing, models.OrderStatusReady}:     models.RoleOwner,
	{models.OrderStatusReady, models.OrderStatusPickedUp}:      models.RoleDelivery,
	{models.OrderStatusPickedUp, models.OrderStatusOnTheWay}:   models.RoleDelivery,
	{models.OrderStatusOnTheWay, models.OrderStatusDelivered}:  models.RoleDelivery,

	{models.OrderStatusPending, models.OrderStatusCancelled}:   models.RoleCustomer,
	{models.OrderStatusConfirmed, models.OrderStatusCancelled}: models.RoleCustomer,
	{models.OrderStatusPreparing, models.OrderStatusCancelled}: models.RoleCustomer,
	{models.OrderStatusReady, models.OrderStatusCancelled}:     models.RoleCustomer,
}

// CanTransition reports whether role may move an order from one status to
// another. Undefined edges fail with ErrInvalidTransition; defined edges
// requested by the wrong role fail with ErrForbidden.
func CanTransition(from, to models.OrderStatus, role models.Role) error {
	actor, ok := transitions[transition{from, to}]
	if !ok {
		return ErrInvalidTransition
	}
	if actor != role {
		return ErrForbidden
	}
	return nil
}

// ValidStatus reports whether s is one of the defined order statuses.
func ValidStatus(s models.OrderStatus) bool {
	switch s {
	case models.OrderStatusPending, models.OrderStatusConfirmed,
		models.OrderStatusPreparing, models.OrderStatusReady,
		models.OrderStatusPickedUp, models.OrderStatusOnTheWay,
		models.OrderStatusDelivered, models.OrderStatusCancelled:
		return true
	}
	return false
}
