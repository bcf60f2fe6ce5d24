// Package orders drives the per-role order boards: which status changes each
// role is offered, keeping the lists fresh and printing receipts.
package orders

import "github.com/yeremiapane/steakz-restaurant/models"

// Action is one status change a board offers for an order.
type Action struct {
	Label  string
	Target models.OrderStatus
}

var (
	actionConfirm   = Action{Label: "Confirm", Target: models.OrderConfirmed}
	actionPrepare   = Action{Label: "Start Preparing", Target: models.OrderPreparing}
	actionReady     = Action{Label: "Mark as Ready", Target: models.OrderReady}
	actionDelivered = Action{Label: "Mark as Delivered", Target: models.OrderDelivered}
	actionCancel    = Action{Label: "Cancel Order", Target: models.OrderCancelled}
)

var nextLabel = map[models.OrderStatus]Action{
	models.OrderConfirmed: actionConfirm,
	models.OrderPreparing: actionPrepare,
	models.OrderReady:     actionReady,
	models.OrderDelivered: actionDelivered,
}

// Actions lists the changes role may request for order, in display order.
// Every target is forward of the current status or CANCELLED.
func Actions(role models.Role, order models.Order) []Action {
	status := order.Status
	if status.Terminal() || !status.Valid() {
		return nil
	}

	switch role {
	case models.RoleCustomer:
		if models.CustomerMayCancel(status) {
			return []Action{actionCancel}
		}
	case models.RoleCashier:
		if status == models.OrderPending {
			return []Action{actionConfirm}
		}
	case models.RoleChef:
		switch status {
		case models.OrderPending, models.OrderConfirmed:
			return []Action{actionPrepare}
		case models.OrderPreparing:
			return []Action{actionReady}
		case models.OrderReady:
			return []Action{actionDelivered}
		}
	case models.RoleBranchManager, models.RoleHeadquarterManager, models.RoleAdmin:
		out := make([]Action, 0, 2)
		if next, ok := status.Next(); ok {
			out = append(out, nextLabel[next])
		}
		return append(out, actionCancel)
	}
	return nil
}

// Offers reports whether Actions(role, order) includes target.
func Offers(role models.Role, order models.Order, target models.OrderStatus) bool {
	for _, a := range Actions(role, order) {
		if a.Target == target {
			return true
		}
	}
	return false
}
