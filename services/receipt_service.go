package services

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/yeremiapane/steakz-restaurant/models"
	"github.com/yeremiapane/steakz-restaurant/utils"
	"gorm.io/gorm"
)

type ReceiptService struct {
	orders     *OrderService
	restaurant models.RestaurantInfo
}

func NewReceiptService(orders *OrderService, restaurant models.RestaurantInfo) *ReceiptService {
	return &ReceiptService{orders: orders, restaurant: restaurant}
}

// ReceiptNumber formats the number printed on an order's receipt.
// Example: RCP/20240115/000042
func ReceiptNumber(order *models.Order, at time.Time) string {
	return fmt.Sprintf("RCP/%s/%06d", at.Format("20060102"), order.ID)
}

// Issue assigns a receipt number the first time it is called for an order and
// returns the same receipt on every later call.
func (s *ReceiptService) Issue(viewer models.Viewer, id uint) (*models.Receipt, error) {
	order, err := s.orders.Get(viewer, id)
	if err != nil {
		return nil, err
	}
	if order.Status == models.OrderPending || order.Status == models.OrderCancelled {
		return nil, conflict("Receipts are available once the order is confirmed")
	}

	if order.ReceiptNumber == "" {
		now := s.orders.now()
		number := ReceiptNumber(order, now)
		err := s.orders.db.Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.Order{}).
				Where("id = ? AND (receipt_number = '' OR receipt_number IS NULL)", id).
				Updates(map[string]interface{}{"receipt_number": number, "receipt_generated_at": now})
			if res.Error != nil {
				return utils.WrapAppError(utils.CodeInternal, res.Error, "store receipt number")
			}
			if res.RowsAffected == 0 {
				// issued by a concurrent request
				return nil
			}
			return tx.Create(models.NewOrderEvent(order, models.EventOrderReceipt)).Error
		})
		if err != nil {
			return nil, err
		}
		if order, err = s.orders.load(id); err != nil {
			return nil, err
		}
	}

	return &models.Receipt{
		ReceiptNumber: order.ReceiptNumber,
		GeneratedAt:   *order.ReceiptGeneratedAt,
		Restaurant:    s.restaurant,
		Order:         *order,
	}, nil
}

// Existing returns an already issued receipt without issuing one.
func (s *ReceiptService) Existing(viewer models.Viewer, id uint) (*models.Receipt, error) {
	order, err := s.orders.Get(viewer, id)
	if err != nil {
		return nil, err
	}
	if order.ReceiptNumber == "" || order.ReceiptGeneratedAt == nil {
		return nil, notFound("Receipt")
	}
	return &models.Receipt{
		ReceiptNumber: order.ReceiptNumber,
		GeneratedAt:   *order.ReceiptGeneratedAt,
		Restaurant:    s.restaurant,
		Order:         *order,
	}, nil
}

// WritePDF renders a printable receipt.
func WritePDF(w io.Writer, receipt *models.Receipt) error {
	pdf := fpdf.New("P", "mm", "A5", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(receipt.ReceiptNumber, false)
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	width := pageW - left - right

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(width, 8, tr(receipt.Restaurant.Name), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(width, 5, tr(receipt.Restaurant.Address), "", 1, "C", false, 0, "")
	pdf.CellFormat(width, 5, tr(receipt.Restaurant.Phone), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	order := receipt.Order
	pdf.SetFont("Helvetica", "", 10)
	meta := [][2]string{
		{"Receipt", receipt.ReceiptNumber},
		{"Date", receipt.GeneratedAt.Format("02 Jan 2006 15:04")},
		{"Order", fmt.Sprintf("#%d", order.ID)},
		{"Customer", order.CustomerLabel()},
		{"Payment", fmt.Sprintf("%s (%s)", order.PaymentMethod, order.PaymentStatus)},
	}
	if order.Branch != nil {
		meta = append(meta, [2]string{"Branch", order.Branch.Name})
	}
	for _, row := range meta {
		pdf.CellFormat(30, 5, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(width-30, 5, tr(row[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	qtyW, priceW := 14.0, 26.0
	nameW := width - qtyW - 2*priceW
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(nameW, 6, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(qtyW, 6, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(priceW, 6, "Price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(priceW, 6, "Amount", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range order.OrderItems {
		pdf.CellFormat(nameW, 6, tr(item.MenuItem.Name), "", 0, "L", false, 0, "")
		pdf.CellFormat(qtyW, 6, fmt.Sprintf("%d", item.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(priceW, 6, tr(utils.FormatEuro(item.Price)), "", 0, "R", false, 0, "")
		pdf.CellFormat(priceW, 6, tr(utils.FormatEuro(item.Price*float64(item.Quantity))), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	totals := [][2]string{{"Subtotal", utils.FormatEuro(order.Subtotal)}}
	if order.Discount > 0 {
		label := "Discount"
		if order.DiscountType == models.DiscountPercentage {
			label = fmt.Sprintf("Discount (%g%%)", order.Discount)
		}
		totals = append(totals, [2]string{label, "-" + utils.FormatEuro(order.Subtotal-order.Total)})
	}
	for _, row := range totals {
		pdf.CellFormat(width-priceW, 6, row[0], "", 0, "R", false, 0, "")
		pdf.CellFormat(priceW, 6, tr(row[1]), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(width-priceW, 7, "Total", "T", 0, "R", false, 0, "")
	pdf.CellFormat(priceW, 7, tr(utils.FormatEuro(order.Total)), "T", 1, "R", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(width, 5, "Thank you for dining with us", "", 1, "C", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render receipt pdf: %w", err)
	}
	return nil
}
