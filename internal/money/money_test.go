package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	require.True(t, Parse("1200.50").Equal(decimal.RequireFromString("1200.50")))
	require.True(t, Parse("-15.00").IsNegative())
}

func TestParseMalformedDegradesToZero(t *testing.T) {
	require.True(t, Parse("").IsZero())
	require.True(t, Parse("not-a-number").IsZero())
	require.True(t, Parse("12,50").IsZero())
}

func TestSum(t *testing.T) {
	total := Sum(Parse("100.10"), Parse("200.20"), Parse("0.70"))
	require.True(t, total.Equal(decimal.RequireFromString("301.00")))
	require.True(t, Sum().IsZero())
}

func TestFormatEUR(t *testing.T) {
	require.Equal(t, "€ 24.750,00", FormatEUR(decimal.RequireFromString("24750")))
	require.Equal(t, "€ 0,00", FormatEUR(decimal.Zero))
	require.Equal(t, "€ 1.234,57", FormatEUR(decimal.RequireFromString("1234.567")))
}
