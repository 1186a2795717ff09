package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/arcadia-data/riskstat/internal/fraud"
	"github.com/arcadia-data/riskstat/internal/stats"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// chartFraudTrend renders an HTML line chart of the per-year compound-event
// probabilities: P(Fraud) against P(Fraud | International ∩ HighValue).
func (s *Server) chartFraudTrend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	a, err := s.analyzer()
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve transactions: %v", err))
		return
	}
	reports := a.AnalyzeByYear()
	if len(reports) == 0 {
		s.writeJSONError(w, http.StatusNotFound, "No transactions stored")
		return
	}

	years := make([]string, len(reports))
	pFraud := make([]opts.LineData, len(reports))
	pFraudGiven := make([]opts.LineData, len(reports))
	for i, rep := range reports {
		years[i] = strconv.Itoa(rep.Year)
		pFraud[i] = opts.LineData{Value: stats.Round4(rep.PFraud)}
		pFraudGiven[i] = opts.LineData{Value: stats.Round4(rep.PFraudGivenCompound)}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Fraud Probability Trend", Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Compound Event Probability Trend",
			Subtitle: fmt.Sprintf("Fraud | (International ∩ High Value), threshold=%.0f", a.Threshold()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Year"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Probability", Min: 0, Max: 1}),
	)
	line.SetXAxis(years).
		AddSeries("P(Fraud)", pFraud).
		AddSeries("P(Fraud | Intl ∩ High)", pFraudGiven)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to render chart: %v", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// chartDistribution renders an HTML bar chart of the fraud-amount
// probability frequency distribution.
func (s *Server) chartDistribution(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	bins := defaultBins
	if b := r.URL.Query().Get("bins"); b != "" {
		if v, err := strconv.Atoi(b); err == nil && v >= 1 && v <= 200 {
			bins = v
		}
	}

	a, err := s.analyzer()
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve transactions: %v", err))
		return
	}
	dist, err := a.FraudAmountDistribution(bins)
	if err != nil {
		if err == fraud.ErrNoFraudTransactions {
			s.writeJSONError(w, http.StatusNotFound, "No fraud transactions found")
			return
		}
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to compute distribution: %v", err))
		return
	}

	intervals := make([]string, len(dist.Bins))
	probs := make([]opts.BarData, len(dist.Bins))
	for i, b := range dist.Bins {
		intervals[i] = b.Interval
		probs[i] = opts.BarData{Value: stats.Round4(b.Probability)}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Fraud Amount Distribution", Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Fraud Transaction Amount PFD",
			Subtitle: fmt.Sprintf("%d fraud transactions in %d bins", dist.Total, len(dist.Bins)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Amount interval"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Probability"}),
	)
	bar.SetXAxis(intervals).AddSeries("Probability", probs)

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to render chart: %v", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
