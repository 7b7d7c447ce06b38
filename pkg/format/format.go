package format

import (
	"fmt"
	"strings"

	"github.com/leonid6372/stock-ledger/pkg/log"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MoneyPlaces is the number of fractional digits shown for decimal amounts.
const MoneyPlaces = 2

// PrettyNumber groups the integer digits of number by thousands. Decimals are shown with
// MoneyPlaces fractional digits unless they carry more significant ones.
func PrettyNumber(number any, separator, decimalSeparator string) string {
	var numStr string

	switch n := number.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		numStr = fmt.Sprintf("%d", n)
	case float32, float64:
		numStr = fmt.Sprintf("%.*f", MoneyPlaces, n)
	case decimal.Decimal:
		numStr = decimalString(n)
	case *decimal.Decimal:
		if n == nil {
			return ""
		}
		numStr = decimalString(*n)
	default:
		log.Error("PrettyNumber: unsupported type",
			zap.Any("value", number),
			zap.String("type", fmt.Sprintf("%T", number)),
		)

		return fmt.Sprint(number)
	}

	if separator == "" && decimalSeparator == "" {
		return numStr
	}

	if separator == decimalSeparator {
		log.Warn("PrettyNumber: separator and decimalSeparator are the same", zap.String("value", separator))
	}

	isNegative := strings.HasPrefix(numStr, "-")
	numStr = strings.TrimPrefix(numStr, "-")

	integerPart, fraction, hasFraction := strings.Cut(numStr, ".")

	decimalPart := ""
	if hasFraction {
		decimalPart = decimalSeparator + fraction
	}

	length := len(integerPart)

	start := length % 3
	if start == 0 {
		start = 3
	}

	var intPart strings.Builder

	if isNegative {
		intPart.WriteString("-")
	}

	intPart.WriteString(integerPart[:start])

	for i := start; i < length; i += 3 {
		intPart.WriteString(separator)
		intPart.WriteString(integerPart[i : i+3])
	}

	return intPart.String() + decimalPart
}

func decimalString(d decimal.Decimal) string {
	places := int32(MoneyPlaces)
	if exp := -d.Exponent(); exp > places {
		// Drop trailing zeros beyond the money places, keep significant digits.
		trimmed := strings.TrimRight(d.StringFixed(exp), "0")
		if _, frac, ok := strings.Cut(trimmed, "."); ok && int32(len(frac)) > places {
			places = int32(len(frac))
		}
	}

	return d.StringFixed(places)
}
