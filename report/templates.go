package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Prices print US-style ($1,500.00); that is how amounts are written
// locally even though the documents themselves are in Spanish.
var moneyPrinter = message.NewPrinter(language.AmericanEnglish)

// Money formats an amount in US dollars with thousands separators, the
// way the printed documents show prices.
func Money(v float64) string {
	return moneyPrinter.Sprintf("$%.2f", v)
}

func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format("02/01/2006")
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format("02/01/2006")
	}
	return ""
}

var templateFuncs = template.FuncMap{
	"money": Money,
	"date":  formatDate,
}

// QuotationDoc is the view model for a quotation PDF.
type QuotationDoc struct {
	CompanyName    string
	CompanyAddress string
	CompanyPhone   string
	CompanyTaxID   string
	Number         string
	Date           time.Time
	Author         string
	ClientCode     string
	ClientName     string
	ContactName    string
	ContactPhone   string
	ContactAddress string
	Terms          string
	Lines          []DocLine
	Total          float64
}

// DocLine is one printed line item.
type DocLine struct {
	Code        string
	Description string
	Quantity    float64
	UnitPrice   float64
	LineTotal   float64
}

// OrderDoc is the view model for a production order PDF.
type OrderDoc struct {
	CompanyName      string
	CompanyAddress   string
	CompanyPhone     string
	Number           string
	QuotationNumber  string
	Date             time.Time
	ClientName       string
	DeliveryDate     *time.Time
	DeliveryLocation string
	Lines            []DocLine
	MontoVenta       float64
	Anticipo         float64
	Complemento      float64
	TotalPagado      float64
	PagoPendiente    float64
	Notes            string
}

var quotationTmpl = template.Must(template.New("quotation").Funcs(templateFuncs).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; color: #222; margin: 32px; }
  header { display: flex; justify-content: space-between; border-bottom: 2px solid #444; padding-bottom: 12px; }
  h1 { font-size: 18px; margin: 0; }
  .meta { text-align: right; }
  .number { font-size: 16px; font-weight: bold; }
  section { margin-top: 16px; }
  table { width: 100%; border-collapse: collapse; margin-top: 8px; }
  th { background: #f0f0f0; text-align: left; padding: 6px; border-bottom: 1px solid #999; }
  td { padding: 6px; border-bottom: 1px solid #ddd; }
  td.num, th.num { text-align: right; }
  tfoot td { font-weight: bold; border-top: 2px solid #444; }
  .terms { margin-top: 24px; font-size: 11px; color: #555; white-space: pre-line; }
</style>
</head>
<body>
<header>
  <div>
    <h1>{{.CompanyName}}</h1>
    <div>{{.CompanyAddress}}</div>
    <div>{{.CompanyPhone}}</div>
    {{if .CompanyTaxID}}<div>NIT: {{.CompanyTaxID}}</div>{{end}}
  </div>
  <div class="meta">
    <div class="number">Cotización {{.Number}}</div>
    <div>Fecha: {{date .Date}}</div>
    <div>Atendió: {{.Author}}</div>
  </div>
</header>
<section>
  <strong>Cliente:</strong> {{.ClientName}} ({{.ClientCode}})<br>
  {{if .ContactName}}<strong>Contacto:</strong> {{.ContactName}}<br>{{end}}
  {{if .ContactPhone}}<strong>Teléfono:</strong> {{.ContactPhone}}<br>{{end}}
  {{if .ContactAddress}}<strong>Dirección:</strong> {{.ContactAddress}}{{end}}
</section>
<section>
  <table>
    <thead>
      <tr><th>Código</th><th>Descripción</th><th class="num">Cantidad</th><th class="num">Precio</th><th class="num">Subtotal</th></tr>
    </thead>
    <tbody>
      {{range .Lines}}
      <tr>
        <td>{{.Code}}</td>
        <td>{{.Description}}</td>
        <td class="num">{{.Quantity}}</td>
        <td class="num">{{money .UnitPrice}}</td>
        <td class="num">{{money .LineTotal}}</td>
      </tr>
      {{end}}
    </tbody>
    <tfoot>
      <tr><td colspan="4">Total</td><td class="num">{{money .Total}}</td></tr>
    </tfoot>
  </table>
</section>
{{if .Terms}}<div class="terms">{{.Terms}}</div>{{end}}
</body>
</html>`))

var orderTmpl = template.Must(template.New("order").Funcs(templateFuncs).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; color: #222; margin: 32px; }
  header { display: flex; justify-content: space-between; border-bottom: 2px solid #444; padding-bottom: 12px; }
  h1 { font-size: 18px; margin: 0; }
  .meta { text-align: right; }
  .number { font-size: 16px; font-weight: bold; }
  section { margin-top: 16px; }
  table { width: 100%; border-collapse: collapse; margin-top: 8px; }
  th { background: #f0f0f0; text-align: left; padding: 6px; border-bottom: 1px solid #999; }
  td { padding: 6px; border-bottom: 1px solid #ddd; }
  td.num, th.num { text-align: right; }
  .totals { margin-top: 16px; width: 45%; margin-left: auto; }
  .totals td { border: none; padding: 3px 6px; }
  .totals tr.due td { font-weight: bold; border-top: 2px solid #444; }
  .notes { margin-top: 24px; font-size: 11px; color: #555; white-space: pre-line; }
</style>
</head>
<body>
<header>
  <div>
    <h1>{{.CompanyName}}</h1>
    <div>{{.CompanyAddress}}</div>
    <div>{{.CompanyPhone}}</div>
  </div>
  <div class="meta">
    <div class="number">Orden de Producción {{.Number}}</div>
    <div>Cotización: {{.QuotationNumber}}</div>
    <div>Fecha: {{date .Date}}</div>
  </div>
</header>
<section>
  <strong>Cliente:</strong> {{.ClientName}}<br>
  {{if .DeliveryDate}}<strong>Fecha de entrega:</strong> {{date .DeliveryDate}}<br>{{end}}
  {{if .DeliveryLocation}}<strong>Lugar de entrega:</strong> {{.DeliveryLocation}}{{end}}
</section>
<section>
  <table>
    <thead>
      <tr><th>Código</th><th>Descripción</th><th class="num">Cantidad</th><th class="num">Precio</th><th class="num">Subtotal</th></tr>
    </thead>
    <tbody>
      {{range .Lines}}
      <tr>
        <td>{{.Code}}</td>
        <td>{{.Description}}</td>
        <td class="num">{{.Quantity}}</td>
        <td class="num">{{money .UnitPrice}}</td>
        <td class="num">{{money .LineTotal}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>
  <table class="totals">
    <tr><td>Monto de venta</td><td class="num">{{money .MontoVenta}}</td></tr>
    <tr><td>Anticipo</td><td class="num">{{money .Anticipo}}</td></tr>
    <tr><td>Complemento</td><td class="num">{{money .Complemento}}</td></tr>
    <tr><td>Total pagado</td><td class="num">{{money .TotalPagado}}</td></tr>
    <tr class="due"><td>Pago pendiente</td><td class="num">{{money .PagoPendiente}}</td></tr>
  </table>
</section>
{{if .Notes}}<div class="notes">{{.Notes}}</div>{{end}}
</body>
</html>`))

// RenderQuotationHTML produces the HTML body of a quotation document.
func RenderQuotationHTML(doc QuotationDoc) (string, error) {
	var buf bytes.Buffer
	if err := quotationTmpl.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("report: render quotation: %w", err)
	}
	return buf.String(), nil
}

// RenderOrderHTML produces the HTML body of a production order document.
func RenderOrderHTML(doc OrderDoc) (string, error) {
	var buf bytes.Buffer
	if err := orderTmpl.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("report: render order: %w", err)
	}
	return buf.String(), nil
}
