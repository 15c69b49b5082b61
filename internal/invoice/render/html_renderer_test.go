package render

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func sampleInput() RenderInput {
	return RenderInput{
		Company: CompanyView{Name: "Studio One", Email: "hello@studio.test"},
		Client:  ClientView{Name: "Acme Ltd", Email: "billing@acme.test"},
		Invoice: InvoiceView{
			Number:     "INV-0001",
			Status:     "SENT",
			IssueDate:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			DueDate:    time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
			Subtotal:   decimal.RequireFromString("15000"),
			TaxRate:    decimal.RequireFromString("8.5"),
			TaxAmount:  decimal.RequireFromString("1275"),
			Discount:   decimal.Zero,
			Total:      decimal.RequireFromString("16275"),
			AmountPaid: decimal.RequireFromString("10000"),
		},
		Items: []LineItemView{
			{
				Description: "Design",
				Quantity:    decimal.RequireFromString("80"),
				UnitPrice:   decimal.RequireFromString("125"),
				Amount:      decimal.RequireFromString("10000"),
			},
		},
	}
}

func TestRenderHTML(t *testing.T) {
	html, err := NewRenderer().RenderHTML(sampleInput())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{
		"INV-0001",
		"Acme Ltd",
		"Studio One",
		"15000.00",
		"1275.00",
		"16275.00",
		"Balance Due",
		"6275.00",
		"2026-03-31",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered html missing %q", want)
		}
	}
	// Discount is zero, so the row is omitted.
	if strings.Contains(html, "Discount") {
		t.Error("discount row should be omitted when zero")
	}
}

func TestRenderHTMLEscapesContent(t *testing.T) {
	input := sampleInput()
	input.Client.Name = `<script>alert("x")</script>`

	html, err := NewRenderer().RenderHTML(input)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Error("client name was not escaped")
	}
}

func TestFormatQuantity(t *testing.T) {
	cases := map[string]string{
		"80":    "80",
		"2.50":  "2.5",
		"0.25":  "0.25",
		"10.00": "10",
	}
	for raw, want := range cases {
		if got := formatQuantity(decimal.RequireFromString(raw)); got != want {
			t.Errorf("formatQuantity(%s): expected %s, got %s", raw, want, got)
		}
	}
}
