package domain

import (
	"errors"
	"testing"

	"github.com/leonid6372/stock-ledger/internal/ledgererrs"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() OrderRequest {
	return OrderRequest{
		ClientID:    1,
		TotalAmount: d("500.00"),
		Details: []OrderLineRequest{
			{StockID: 1, PortfolioID: 1, Quantity: d("10"), UnitPrice: d("50.00")},
		},
	}
}

func TestOrderRequest_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *OrderRequest)
		field  string
	}{
		{"valid", func(r *OrderRequest) {}, ""},
		{"no client", func(r *OrderRequest) { r.ClientID = 0 }, "client_id"},
		{"zero total", func(r *OrderRequest) { r.TotalAmount = decimal.Zero }, "total_amount"},
		{"negative total", func(r *OrderRequest) { r.TotalAmount = d("-1") }, "total_amount"},
		{"no details", func(r *OrderRequest) { r.Details = nil }, "details"},
		{"no stock", func(r *OrderRequest) { r.Details[0].StockID = 0 }, "details[0].stock_id"},
		{"no portfolio", func(r *OrderRequest) { r.Details[0].PortfolioID = -3 }, "details[0].portfolio_id"},
		{"zero quantity", func(r *OrderRequest) { r.Details[0].Quantity = decimal.Zero }, "details[0].quantity"},
		{"negative price", func(r *OrderRequest) { r.Details[0].UnitPrice = d("-2") }, "details[0].unit_price"},
		{"sub-cent total", func(r *OrderRequest) { r.TotalAmount = d("0.004") }, "total_amount"},
		{"total with trailing zeros", func(r *OrderRequest) { r.TotalAmount = d("500.0000") }, ""},
		{"quantity beyond scale", func(r *OrderRequest) { r.Details[0].Quantity = d("0.0000001") }, "details[0].quantity"},
		{"price beyond scale", func(r *OrderRequest) { r.Details[0].UnitPrice = d("0.0000001") }, "details[0].unit_price"},
		{"fractional quantity", func(r *OrderRequest) { r.Details[0].Quantity = d("0.123456") }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRequest()
			tt.mutate(&r)

			err := r.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			var validationErr *ledgererrs.ValidationError
			require.True(t, errors.As(err, &validationErr), "got %v", err)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}

func TestFormatOrderCode(t *testing.T) {
	assert.Equal(t, "TXN000001", FormatOrderCode(1))
	assert.Equal(t, "TXN004213", FormatOrderCode(4213))
	assert.Equal(t, "TXN1234567", FormatOrderCode(1234567))
}

func TestOrderLineItem_RealizedGain(t *testing.T) {
	li := &OrderLineItem{Quantity: d("10"), UnitPrice: d("75"), CostBasis: d("60")}

	assert.True(t, li.RealizedGain(OrderKindSell).Equal(d("150")))
	assert.True(t, li.RealizedGain(OrderKindBuy).IsZero())
	assert.True(t, li.Amount().Equal(d("750")))
}

func TestOrderKind_Valid(t *testing.T) {
	assert.True(t, OrderKindBuy.Valid())
	assert.True(t, OrderKindSell.Valid())
	assert.False(t, OrderKind("short").Valid())
}
