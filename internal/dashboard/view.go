package dashboard

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dgallion1/finreport/internal/finance"
)

// Tile is one headline metric.
type Tile struct {
	Label string
	Value string
}

// Bar is one plotted value. Pct is its length relative to the largest
// magnitude in the chart, 0..100.
type Bar struct {
	Series string
	Value  decimal.Decimal
	Text   string
	Pct    int
}

// Group is a category on a chart's axis.
type Group struct {
	Category string
	Bars     []Bar
}

// Chart is a grouped bar chart.
type Chart struct {
	Title  string
	Series []string
	Groups []Group
}

// Empty reports whether the chart has nothing to plot.
func (c Chart) Empty() bool {
	for _, g := range c.Groups {
		if len(g.Bars) > 0 {
			return false
		}
	}
	return true
}

// View is everything the dashboard renders for one record.
type View struct {
	Company  string
	Period   string
	Tiles    []Tile
	Summary  [2]string
	Insights []string
	Charts   []Chart
}

// BuildView lays out rec for display. Absent values read as "N/A".
func BuildView(rec finance.Record, period string) View {
	return View{
		Company: rec.Company(),
		Period:  period,
		Tiles: []Tile{
			{"Revenue/Sales", rec.Metric(finance.MetricSales)},
			{"Year over Year Growth", rec.Metric(finance.MetricYoYGrowth)},
			{"Net Profit", rec.Metric(finance.MetricNetProfit)},
			{"EPS", rec.Metric(finance.MetricEPS)},
			{"Operating Profit", rec.Metric(finance.MetricOperatingProfit)},
			{"Return on Equity", rec.Ratio(finance.RatioReturnOnEquity)},
		},
		Summary:  rec.SummaryLines(),
		Insights: insights(rec),
		Charts:   []Chart{segmentChart(rec), profitChart(rec)},
	}
}

func insights(rec finance.Record) []string {
	growth := rec.Metric(finance.MetricYoYGrowth)
	return []string{
		fmt.Sprintf("The total Revenue for the quarter is %s, showing a Revenue Growth of %s from the last quarter.",
			rec.Metric(finance.MetricRevenue), growth),
		fmt.Sprintf("The company's Earnings Per Share (EPS) is ₹%s, reflecting stable shareholder earnings.",
			rec.Metric(finance.MetricEPS)),
		fmt.Sprintf("The YoY Net Profit Growth is %s, suggesting a positive long-term outlook.", growth),
		fmt.Sprintf("The Return on Equity (ROE) is %s, indicating strong returns for investors.",
			rec.Ratio(finance.RatioReturnOnEquity)),
	}
}

// segmentChart plots each segment's Revenue against its EBIT.
func segmentChart(rec finance.Record) Chart {
	c := Chart{Title: "Segment Revenue vs. EBIT", Series: []string{"Revenue", "EBIT"}}
	for _, s := range rec.Segments {
		g := Group{Category: s.Name}
		g.Bars = appendBar(g.Bars, "Revenue", s.Revenue)
		g.Bars = appendBar(g.Bars, "EBIT", s.EBIT)
		c.Groups = append(c.Groups, g)
	}
	scale(&c)
	return c
}

// profitChart plots Revenue, Operating Profit and Net Profit side by side.
func profitChart(rec finance.Record) Chart {
	names := []string{finance.MetricRevenue, finance.MetricOperatingProfit, finance.MetricNetProfit}
	c := Chart{Title: "Revenue vs. Operating Profit vs. Net Profit", Series: names}
	for _, name := range names {
		g := Group{Category: name}
		g.Bars = appendBar(g.Bars, name, rec.Metric(name))
		c.Groups = append(c.Groups, g)
	}
	scale(&c)
	return c
}

func appendBar(bars []Bar, series, text string) []Bar {
	v, ok := ParseAmount(text)
	if !ok {
		return bars
	}
	return append(bars, Bar{Series: series, Value: v, Text: text})
}

func scale(c *Chart) {
	maxAbs := decimal.Zero
	for _, g := range c.Groups {
		for _, b := range g.Bars {
			if b.Value.Abs().GreaterThan(maxAbs) {
				maxAbs = b.Value.Abs()
			}
		}
	}
	if maxAbs.IsZero() {
		return
	}
	hundred := decimal.NewFromInt(100)
	for gi := range c.Groups {
		for bi := range c.Groups[gi].Bars {
			b := &c.Groups[gi].Bars[bi]
			b.Pct = int(b.Value.Abs().Div(maxAbs).Mul(hundred).IntPart())
		}
	}
}
