package orders

import (
	"html/template"
	"io"

	"github.com/yeremiapane/steakz-restaurant/models"
	"github.com/yeremiapane/steakz-restaurant/utils"
)

var receiptTemplate = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"euro": utils.FormatEuro,
	"line": func(item models.OrderItem) float64 { return item.Price * float64(item.Quantity) },
}).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Receipt #{{.ReceiptNumber}}</title></head>
<body>
<h1>{{.Restaurant.Name}}</h1>
{{with .Restaurant.Address}}<p>{{.}}</p>{{end}}
{{with .Restaurant.Phone}}<p>{{.}}</p>{{end}}
<p>Receipt #{{.ReceiptNumber}}</p>
<p>Date: {{.GeneratedAt.Format "02 Jan 2006 15:04"}}</p>
<p>Order #{{.Order.ID}}</p>
<p>Customer: {{.Order.CustomerLabel}}</p>
<table>
<tr><th>Item</th><th>Qty</th><th>Price</th><th>Amount</th></tr>
{{range .Order.OrderItems}}<tr><td>{{.MenuItem.Name}}</td><td>{{.Quantity}}</td><td>{{euro .Price}}</td><td>{{euro (line .)}}</td></tr>
{{end}}</table>
<p>Subtotal: {{euro .Order.Subtotal}}</p>
<p><strong>Total: {{euro .Order.Total}}</strong></p>
<p>Payment: {{.Order.PaymentMethod}}</p>
<p>Thank you for your purchase!</p>
</body>
</html>
`))

// RenderReceiptHTML writes a printable page for receipt.
func RenderReceiptHTML(w io.Writer, receipt *models.Receipt) error {
	return receiptTemplate.Execute(w, receipt)
}
