package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney(t *testing.T) {
	assert.Equal(t, "$0.00", Money(0))
	assert.Equal(t, "$375.50", Money(375.5))
	assert.Equal(t, "$12,500.75", Money(12500.75))
}

func TestRenderQuotationHTML(t *testing.T) {
	html, err := RenderQuotationHTML(QuotationDoc{
		CompanyName: "Muebles El Roble",
		Number:      "AL-000001",
		Date:        time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		Author:      "Ana López",
		ClientCode:  "CL-00001",
		ClientName:  "Hotel Real",
		Lines: []DocLine{
			{Code: "MOB-SAL-0001", Description: "Sofá 3 plazas", Quantity: 2, UnitPrice: 150, LineTotal: 300},
		},
		Total: 300,
	})
	require.NoError(t, err)
	assert.Contains(t, html, "AL-000001")
	assert.Contains(t, html, "Hotel Real")
	assert.Contains(t, html, "MOB-SAL-0001")
	assert.Contains(t, html, "15/03/2025")
	assert.Contains(t, html, "$300.00")
}

func TestRenderOrderHTML(t *testing.T) {
	delivery := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	html, err := RenderOrderHTML(OrderDoc{
		CompanyName:     "Muebles El Roble",
		Number:          "OP-AL-000001",
		QuotationNumber: "AL-000001",
		Date:            time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC),
		ClientName:      "Hotel Real",
		DeliveryDate:    &delivery,
		MontoVenta:      1500,
		Anticipo:        500,
		TotalPagado:     500,
		PagoPendiente:   1000,
	})
	require.NoError(t, err)
	assert.Contains(t, html, "OP-AL-000001")
	assert.Contains(t, html, "01/04/2025")
	assert.Contains(t, html, "$1,500.00")
	assert.Contains(t, html, "$1,000.00")
}

func TestRenderEscapesUserContent(t *testing.T) {
	html, err := RenderQuotationHTML(QuotationDoc{
		ClientName: "<script>alert(1)</script>",
		Lines:      []DocLine{},
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>alert")
}
