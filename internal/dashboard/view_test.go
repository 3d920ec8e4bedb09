package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/finreport/internal/finance"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2,43,865 Cr", "243865", true},
		{"1,234.5 Cr", "1234.5", true},
		{"(1,234) Cr", "-1234", true},
		{"-5.2 %", "-5.2", true},
		{"₹13.70", "13.7", true},
		{"N/A", "0", false},
		{"Not available in the document.", "0", false},
		{"", "0", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseAmount(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestBuildViewTilesAndInsights(t *testing.T) {
	rec, err := finance.ParseStructured(`{
		"Metrics": {"Revenue": "500 Cr", "Sales": "550 Cr", "EPS": "13.70", "YoY Net Profit Growth": "7.4 %"},
		"Ratios": {"Return on Equity": "9.1 %"},
		"Company Name": "Acme",
		"Summary": ["One.", "Two."]
	}`)
	require.NoError(t, err)

	v := BuildView(rec, "the quarter ended 31 Dec'24")
	assert.Equal(t, "Acme", v.Company)
	assert.Equal(t, []Tile{
		{"Revenue/Sales", "550 Cr"},
		{"Year over Year Growth", "7.4 %"},
		{"Net Profit", "N/A"},
		{"EPS", "13.70"},
		{"Operating Profit", "N/A"},
		{"Return on Equity", "9.1 %"},
	}, v.Tiles)
	assert.Equal(t, [2]string{"One.", "Two."}, v.Summary)
	require.Len(t, v.Insights, 4)
	assert.Equal(t, "The total Revenue for the quarter is 500 Cr, showing a Revenue Growth of 7.4 % from the last quarter.", v.Insights[0])
	assert.Equal(t, "The company's Earnings Per Share (EPS) is ₹13.70, reflecting stable shareholder earnings.", v.Insights[1])
	assert.Equal(t, "The Return on Equity (ROE) is 9.1 %, indicating strong returns for investors.", v.Insights[3])
}

func TestBuildViewChartsFromRecord(t *testing.T) {
	rec, err := finance.ParseStructured(`{
		"Metrics": {"Revenue": "1,000 Cr", "Operating Profit": "250 Cr", "Net Profit": "N/A"},
		"Segments": {
			"Retail": {"Revenue": "400 Cr", "EBIT": "(100) Cr"},
			"Others": {"Revenue": "N/A", "EBIT": "N/A"}
		}
	}`)
	require.NoError(t, err)

	v := BuildView(rec, "")
	require.Len(t, v.Charts, 2)

	seg := v.Charts[0]
	require.Len(t, seg.Groups, 2)
	assert.Equal(t, "Retail", seg.Groups[0].Category)
	require.Len(t, seg.Groups[0].Bars, 2)
	assert.Equal(t, 100, seg.Groups[0].Bars[0].Pct)
	assert.Equal(t, 25, seg.Groups[0].Bars[1].Pct)
	assert.True(t, seg.Groups[0].Bars[1].Value.IsNegative())
	assert.Empty(t, seg.Groups[1].Bars)

	profit := v.Charts[1]
	require.Len(t, profit.Groups, 3)
	assert.Equal(t, 100, profit.Groups[0].Bars[0].Pct)
	assert.Equal(t, 25, profit.Groups[1].Bars[0].Pct)
	assert.Empty(t, profit.Groups[2].Bars)
	assert.False(t, profit.Empty())
}

func TestChartEmpty(t *testing.T) {
	v := BuildView(finance.Record{}, "")
	for _, c := range v.Charts {
		assert.True(t, c.Empty(), c.Title)
	}
}
