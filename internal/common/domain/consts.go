package domain

const (
	OrderCodePrefix = "TXN"
	OrderCodeDigits = 6

	DefaultPortfolioName = "my_portfolio"
	DefaultLanguageCode  = "en"
)

// PriceScale is the number of fractional digits kept for quantities, per-unit prices and averages.
const PriceScale = 6

// MoneyScale is the number of fractional digits kept for cash and order totals.
const MoneyScale = 2
