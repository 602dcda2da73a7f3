package trade

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/storefront/backend/internal/domain/trade"
)

// WhatsAppMessage renders the admin handoff text for an order
func WhatsAppMessage(o *trade.Order) string {
	var b strings.Builder
	b.WriteString("*New Order from 4D Media (UK)*\n\n")
	fmt.Fprintf(&b, "Order Number: %s\n", o.OrderNumber)
	fmt.Fprintf(&b, "Customer: %s\n", o.Customer.Name)
	fmt.Fprintf(&b, "Phone: %s\n", o.Customer.Phone)
	fmt.Fprintf(&b, "Delivery: %s, %s\n", o.Delivery.Address, o.Delivery.Postcode)
	fmt.Fprintf(&b, "Total: %s\n\n", o.TotalMoney().Display())
	b.WriteString("*Items:*\n")

	for i := range o.Items {
		item := &o.Items[i]
		fmt.Fprintf(&b, "%d. %s - Qty: %d\n", i+1, item.ProductName, item.Quantity)
		if size := item.VariantString(trade.VariantKeySize); size != "" {
			fmt.Fprintf(&b, "   Size: %s\n", size)
		}
		if color := item.VariantString(trade.VariantKeyColor); color != "" {
			fmt.Fprintf(&b, "   Color: %s\n", color)
		}
		if preview := item.VariantString(trade.VariantKeyPreview); preview != "" {
			fmt.Fprintf(&b, "   🎨 *View Design:* %s\n", preview)
		}
		b.WriteString("\n")
	}

	b.WriteString("_Please process this order immediately._")
	return b.String()
}

// WhatsAppURL builds a wa.me link that opens a chat with the message prefilled
func WhatsAppURL(number string, message string) string {
	number = strings.TrimPrefix(strings.TrimSpace(number), "+")
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return "https://wa.me/" + url.PathEscape(number) + "?text=" + text
}
