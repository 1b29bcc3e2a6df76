package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/example/storefront-service/internal/domain"
)

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html><body style="font-family: sans-serif">
<h2>Thank you{{with .Name}}, {{.}}{{end}}!</h2>
<p>Your payment has been received. Order <strong>#{{.ID}}</strong></p>
{{if .Items}}<ul>{{range .Items}}<li>{{.}}</li>{{end}}</ul>{{end}}
<p>Total: <strong>{{.Total}}</strong></p>
{{with .Address}}<p>Shipping to:<br>{{.Line1}}<br>{{.PostalCode}} {{.City}}<br>{{.Country}}</p>{{end}}
{{with .ShopURL}}<p><a href="{{.}}">Back to the shop</a></p>{{end}}
</body></html>`))

type confirmationView struct {
	ID      int64
	Name    string
	Items   []string
	Total   string
	Address *domain.ShippingAddress
	ShopURL string
}

// ConfirmationEmail renders the order confirmation sent to the buyer.
func ConfirmationEmail(o domain.Order, shopURL string) (domain.Email, error) {
	v := confirmationView{
		ID:      o.ID,
		Name:    o.CustomerName,
		Items:   o.Items,
		Total:   o.TotalAmount.StringFixed(2),
		ShopURL: shopURL,
	}
	if !o.ShippingAddress.IsEmpty() {
		addr := o.ShippingAddress
		v.Address = &addr
	}
	var buf bytes.Buffer
	if err := confirmationTmpl.Execute(&buf, v); err != nil {
		return domain.Email{}, fmt.Errorf("render confirmation: %w", err)
	}
	return domain.Email{
		To:      o.CustomerEmail,
		Subject: fmt.Sprintf("Order #%d confirmed", o.ID),
		HTML:    buf.String(),
	}, nil
}
