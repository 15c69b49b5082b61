package render

import (
	"bytes"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const invoiceHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Invoice {{.Invoice.Number}}</title>
  <style>
    * { box-sizing: border-box; }
    body {
      margin: 0;
      padding: 32px;
      font-family: "Helvetica Neue", Arial, sans-serif;
      color: #111827;
      background: #ffffff;
    }
    .invoice {
      max-width: 820px;
      margin: 0 auto;
    }
    .header {
      display: flex;
      justify-content: space-between;
      align-items: flex-start;
      border-bottom: 2px solid #111827;
      padding-bottom: 16px;
      margin-bottom: 24px;
    }
    .meta {
      text-align: right;
      font-size: 14px;
    }
    .label {
      color: #6b7280;
      text-transform: uppercase;
      letter-spacing: 0.04em;
      font-size: 11px;
    }
    .parties {
      display: flex;
      justify-content: space-between;
      margin-bottom: 24px;
      font-size: 14px;
    }
    table {
      width: 100%;
      border-collapse: collapse;
      font-size: 14px;
    }
    th, td {
      padding: 10px;
      border-bottom: 1px solid #e5e7eb;
      text-align: left;
    }
    th {
      text-transform: uppercase;
      font-size: 11px;
      letter-spacing: 0.04em;
      color: #6b7280;
    }
    td.amount, th.amount { text-align: right; }
    .totals {
      margin-top: 12px;
      margin-left: auto;
      width: 280px;
      font-size: 14px;
    }
    .totals div {
      display: flex;
      justify-content: space-between;
      padding: 4px 0;
    }
    .totals .grand {
      border-top: 2px solid #111827;
      font-size: 16px;
      font-weight: bold;
    }
    .footer {
      margin-top: 24px;
      border-top: 1px solid #e5e7eb;
      padding-top: 16px;
      font-size: 12px;
      color: #6b7280;
    }
  </style>
</head>
<body>
  <div class="invoice">
    <div class="header">
      <div>
        <div><strong>{{.Company.Name}}</strong></div>
        {{if .Company.Address}}<div>{{.Company.Address}}</div>{{end}}
        {{if .Company.Email}}<div>{{.Company.Email}}</div>{{end}}
        {{if .Company.TaxNumber}}<div>Tax No: {{.Company.TaxNumber}}</div>{{end}}
      </div>
      <div class="meta">
        <div class="label">Invoice</div>
        <div><strong>{{.Invoice.Number}}</strong></div>
        <div>Status: {{.Invoice.Status}}</div>
        <div>Issued: {{formatDate .Invoice.IssueDate}}</div>
        <div>Due: {{formatDate .Invoice.DueDate}}</div>
      </div>
    </div>

    <div class="parties">
      <div>
        <div class="label">Billed To</div>
        <div><strong>{{.Client.Name}}</strong></div>
        {{if .Client.Address}}<div>{{.Client.Address}}</div>{{end}}
        {{if .Client.Email}}<div>{{.Client.Email}}</div>{{end}}
      </div>
    </div>

    <table>
      <thead>
        <tr>
          <th>Description</th>
          <th class="amount">Quantity</th>
          <th class="amount">Unit Price</th>
          <th class="amount">Amount</th>
        </tr>
      </thead>
      <tbody>
        {{range .Items}}
        <tr>
          <td>{{.Description}}</td>
          <td class="amount">{{formatQuantity .Quantity}}</td>
          <td class="amount">{{formatMoney .UnitPrice}}</td>
          <td class="amount">{{formatMoney .Amount}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>

    <div class="totals">
      <div><span>Subtotal</span><span>{{formatMoney .Invoice.Subtotal}}</span></div>
      {{if not .Invoice.TaxAmount.IsZero}}
      <div><span>Tax ({{.Invoice.TaxRate}}%)</span><span>{{formatMoney .Invoice.TaxAmount}}</span></div>
      {{end}}
      {{if not .Invoice.Discount.IsZero}}
      <div><span>Discount</span><span>-{{formatMoney .Invoice.Discount}}</span></div>
      {{end}}
      <div class="grand"><span>Total</span><span>{{formatMoney .Invoice.Total}}</span></div>
      {{if not .Invoice.AmountPaid.IsZero}}
      <div><span>Paid</span><span>{{formatMoney .Invoice.AmountPaid}}</span></div>
      <div><span>Balance Due</span><span>{{formatMoney (balance .Invoice)}}</span></div>
      {{end}}
    </div>

    {{if .Invoice.Notes}}
    <div class="footer">{{.Invoice.Notes}}</div>
    {{end}}
  </div>
</body>
</html>
`

type HTMLRenderer struct {
	tpl *template.Template
}

func NewRenderer() Renderer {
	funcs := template.FuncMap{
		"formatMoney":    formatMoney,
		"formatDate":     formatDate,
		"formatQuantity": formatQuantity,
		"balance":        balance,
	}
	return &HTMLRenderer{
		tpl: template.Must(template.New("invoice").Funcs(funcs).Parse(invoiceHTMLTemplate)),
	}
}

func (r *HTMLRenderer) RenderHTML(input RenderInput) (string, error) {
	if input.Company.Name == "" {
		input.Company.Name = "Invoice"
	}

	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, input); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func formatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

func formatDate(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.UTC().Format("2006-01-02")
}

func formatQuantity(value decimal.Decimal) string {
	text := value.StringFixed(2)
	text = strings.TrimRight(text, "0")
	return strings.TrimRight(text, ".")
}

func balance(invoice InvoiceView) decimal.Decimal {
	return invoice.Total.Sub(invoice.AmountPaid)
}
