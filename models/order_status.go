package models

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderPreparing OrderStatus = "PREPARING"
	OrderReady     OrderStatus = "READY"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// orderFlow is the fixed forward path. CANCELLED sits outside it.
var orderFlow = []OrderStatus{OrderPending, OrderConfirmed, OrderPreparing, OrderReady, OrderDelivered}

// OrderStatuses lists every status, forward path first.
var OrderStatuses = append(append([]OrderStatus{}, orderFlow...), OrderCancelled)

func (s OrderStatus) Valid() bool {
	return s == OrderCancelled || s.rank() >= 0
}

func (s OrderStatus) rank() int {
	for i, st := range orderFlow {
		if st == s {
			return i
		}
	}
	return -1
}

// Terminal reports whether no further transition can leave s.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// Next returns the status that directly follows s on the forward path.
func (s OrderStatus) Next() (OrderStatus, bool) {
	r := s.rank()
	if r < 0 || r+1 >= len(orderFlow) {
		return "", false
	}
	return orderFlow[r+1], true
}

// CanTransition reports whether moving from one status to another is forward.
// Skipping ahead is allowed; CANCELLED is reachable from any non-terminal status.
func CanTransition(from, to OrderStatus) bool {
	if !from.Valid() || !to.Valid() || from.Terminal() {
		return false
	}
	if to == OrderCancelled {
		return true
	}
	return to.rank() > from.rank()
}

// RoleMayTransition reports whether role is allowed to request a move to target
// through the status endpoint. Forward-ness is checked separately by CanTransition.
func RoleMayTransition(role Role, target OrderStatus) bool {
	switch role {
	case RoleAdmin, RoleHeadquarterManager, RoleBranchManager:
		return target.Valid()
	case RoleCashier:
		return target == OrderConfirmed || target == OrderCancelled
	case RoleChef:
		return target == OrderPreparing || target == OrderReady || target == OrderDelivered
	}
	return false
}

// CustomerMayCancel reports whether the owner of an order can still cancel it.
func CustomerMayCancel(s OrderStatus) bool {
	return s == OrderPending || s == OrderConfirmed
}
