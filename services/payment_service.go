package services

import (
	"github.com/yeremiapane/steakz-restaurant/models"
	"github.com/yeremiapane/steakz-restaurant/utils"
	"gorm.io/gorm"
)

// PaymentService settles order payments. There is no gateway: cashiers mark
// payments as received.
type PaymentService struct {
	orders *OrderService
}

func NewPaymentService(orders *OrderService) *PaymentService {
	return &PaymentService{orders: orders}
}

// CompleteOrderPayment records that a pending payment was settled at the counter.
func (s *PaymentService) CompleteOrderPayment(viewer models.Viewer, id uint) (*models.Order, error) {
	if !takesCounterOrders(viewer.Role) {
		return nil, utils.ErrNoPermission
	}

	err := s.orders.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, id).Error; err != nil {
			return lookup(err, "Order")
		}
		if !viewer.CanSeeOrder(order.UserID, order.BranchID) {
			return utils.ErrNoPermission
		}
		if order.Status == models.OrderCancelled {
			return conflict("Order is cancelled")
		}
		if order.PaymentStatus != models.PaymentPending {
			return conflict("Payment is already %s", order.PaymentStatus)
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND payment_status = ?", id, models.PaymentPending).
			Update("payment_status", models.PaymentCompleted)
		if res.Error != nil {
			return utils.WrapAppError(utils.CodeInternal, res.Error, "update payment status")
		}
		if res.RowsAffected == 0 {
			return conflict("Payment status changed concurrently")
		}
		return tx.Create(models.NewOrderEvent(&order, models.EventOrderPayment)).Error
	})
	if err != nil {
		return nil, err
	}
	return s.orders.load(id)
}
