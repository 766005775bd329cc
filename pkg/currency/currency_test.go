package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	testCases := []struct {
		amount string
		code   string
		want   string
	}{
		{amount: "175", code: "USD", want: "$175.00"},
		{amount: "1234.5", code: "USD", want: "$1,234.50"},
		{amount: "0.125", code: "USD", want: "$0.13"},
		{amount: "10", code: "JPY", want: "¥10"},
	}

	for _, tc := range testCases {
		t.Run(tc.code+" "+tc.amount, func(t *testing.T) {
			assert.Equal(t, tc.want, Format(decimal.RequireFromString(tc.amount), tc.code))
		})
	}
}
