package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/arcadia-data/riskstat/internal/db"
	"github.com/arcadia-data/riskstat/internal/fraud"
	"github.com/arcadia-data/riskstat/internal/probability"
	"github.com/arcadia-data/riskstat/internal/stats"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

const defaultBins = 10

const (
	defaultExperimentTrials = 1000
	maxExperimentTrials     = 1000000
)

type Server struct {
	db        *db.DB
	threshold float64 // high-value cutoff passed to analyzers
}

func NewServer(database *db.DB, highValueThreshold float64) *Server {
	if highValueThreshold <= 0 {
		highValueThreshold = fraud.DefaultHighValueThreshold
	}
	return &Server{
		db:        database,
		threshold: highValueThreshold,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/transactions", s.handleTransactions)
	mux.HandleFunc("/api/means", s.showMeans)
	mux.HandleFunc("/api/fraud_probabilities", s.showFraudProbabilities)
	mux.HandleFunc("/api/distribution", s.showDistribution)
	mux.HandleFunc("/api/conditional", s.showConditional)
	mux.HandleFunc("/api/expected_value", s.computeExpectedValue)
	mux.HandleFunc("/api/trials", s.showTrials)
	mux.HandleFunc("/api/experiment", s.runExperiment)
	mux.HandleFunc("/api/config", s.showConfig)
	mux.HandleFunc("/charts/fraud_trend", s.chartFraudTrend)
	mux.HandleFunc("/charts/distribution", s.chartDistribution)
	return mux
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// analyzer loads the stored transactions into a fraud analyzer.
func (s *Server) analyzer() (*fraud.Analyzer, error) {
	transactions, err := s.db.Transactions()
	if err != nil {
		return nil, err
	}
	a := fraud.NewAnalyzer(s.threshold)
	a.AddAll(transactions)
	return a, nil
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodPost:
		var t fraud.Transaction
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			s.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid transaction body: %v", err))
			return
		}
		if t.Amount < 0 {
			s.writeJSONError(w, http.StatusBadRequest, "Transaction amount must not be negative")
			return
		}
		if err := s.db.InsertTransaction(t); err != nil {
			s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to store transaction: %v", err))
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(t)

	case http.MethodGet:
		transactions, err := s.db.Transactions()
		if err != nil {
			s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve transactions: %v", err))
			return
		}
		if transactions == nil {
			transactions = []fraud.Transaction{}
		}
		json.NewEncoder(w).Encode(transactions)

	default:
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// MeansResponse summarizes the central tendency of one numeric feature.
type MeansResponse struct {
	Feature    string  `json:"feature"`
	Count      int     `json:"count"`
	Arithmetic float64 `json:"arithmetic_mean"`
	Geometric  float64 `json:"geometric_mean"`
	Harmonic   float64 `json:"harmonic_mean"`
	Median     float64 `json:"median"`
	StdDev     float64 `json:"std_dev"`
	P85        float64 `json:"p85"`
}

func (s *Server) showMeans(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	feature := r.URL.Query().Get("feature")
	if feature == "" {
		feature = "amount"
	}

	a, err := s.analyzer()
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve transactions: %v", err))
		return
	}

	var values []float64
	switch feature {
	case "amount":
		values = a.Amounts()
	case "year":
		values = a.Years()
	default:
		s.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("Unknown numeric feature %q", feature))
		return
	}
	if len(values) == 0 {
		s.writeJSONError(w, http.StatusNotFound, "No transactions stored")
		return
	}

	resp := MeansResponse{Feature: feature, Count: len(values)}
	if resp.Arithmetic, err = stats.Mean(values); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	// Geometric and harmonic means are undefined for non-positive values;
	// report zero for such datasets instead of failing the whole response.
	if gm, err := stats.GeometricMean(values); err == nil {
		resp.Geometric = gm
	}
	if hm, err := stats.HarmonicMean(values); err == nil {
		resp.Harmonic = hm
	}
	if resp.Median, err = stats.Median(values); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if resp.StdDev, err = stats.StdDev(values); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if resp.P85, err = stats.Percentile(values, 85); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write means")
	}
}

func (s *Server) showFraudProbabilities(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	a, err := s.analyzer()
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve transactions: %v", err))
		return
	}

	var reports []fraud.Report
	if y := r.URL.Query().Get("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			s.writeJSONError(w, http.StatusBadRequest, "Invalid 'year' parameter")
			return
		}
		for _, rep := range a.AnalyzeByYear() {
			if rep.Year == year {
				reports = append(reports, rep)
			}
		}
		if len(reports) == 0 {
			s.writeJSONError(w, http.StatusNotFound, fmt.Sprintf("No transactions for year %d", year))
			return
		}
	} else {
		reports = a.AnalyzeByYear()
	}

	for i := range reports {
		roundReport(&reports[i])
	}

	if err := json.NewEncoder(w).Encode(reports); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write fraud probabilities")
	}
}

// roundReport applies the 4-decimal display rounding at the API boundary.
func roundReport(r *fraud.Report) {
	r.PFraud = stats.Round4(r.PFraud)
	r.PInternational = stats.Round4(r.PInternational)
	r.PHighValue = stats.Round4(r.PHighValue)
	r.PCompound = stats.Round4(r.PCompound)
	r.PFraudGivenCompound = stats.Round4(r.PFraudGivenCompound)
}

func (s *Server) showDistribution(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	bins := defaultBins
	if b := r.URL.Query().Get("bins"); b != "" {
		parsed, err := strconv.Atoi(b)
		if err != nil || parsed < 1 || parsed > 200 {
			s.writeJSONError(w, http.StatusBadRequest, "Invalid 'bins' parameter")
			return
		}
		bins = parsed
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

	for i := range dist.Bins {
		dist.Bins[i].Probability = stats.Round4(dist.Bins[i].Probability)
		dist.Bins[i].Cumulative = stats.Round4(dist.Bins[i].Cumulative)
	}

	if err := json.NewEncoder(w).Encode(dist); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write distribution")
	}
}

func (s *Server) showConditional(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	q := r.URL.Query()
	targetCol, givenCol := q.Get("target"), q.Get("given")
	if targetCol == "" || givenCol == "" {
		s.writeJSONError(w, http.StatusBadRequest, "Parameters 'target' and 'given' are required")
		return
	}
	targetValue := q.Get("target_value")
	if targetValue == "" {
		targetValue = "Yes"
	}
	givenValue := q.Get("given_value")
	if givenValue == "" {
		givenValue = "Yes"
	}

	a, err := s.analyzer()
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve transactions: %v", err))
		return
	}
	if a.Len() == 0 {
		s.writeJSONError(w, http.StatusNotFound, "No transactions stored")
		return
	}

	p, err := a.EventTable().ConditionalProbability(targetCol, targetValue, givenCol, givenValue)
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := map[string]any{
		"target":      fmt.Sprintf("%s=%s", targetCol, targetValue),
		"given":       fmt.Sprintf("%s=%s", givenCol, givenValue),
		"probability": stats.Round4(p),
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write conditional probability")
	}
}

func (s *Server) computeExpectedValue(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var outcomes []probability.WeightedOutcome
	if err := json.NewDecoder(r.Body).Decode(&outcomes); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid outcomes body: %v", err))
		return
	}

	ev, err := probability.ExpectedValue(outcomes)
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := map[string]any{
		"outcomes":       len(outcomes),
		"expected_value": stats.Round4(ev),
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write expected value")
	}
}

// showTrials treats the stored fraud rate as the success probability of a
// Bernoulli trial and reports the binomial probability of seeing exactly k
// fraudulent transactions in the next n.
func (s *Server) showTrials(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	n, err := strconv.Atoi(r.URL.Query().Get("n"))
	if err != nil || n < 1 {
		s.writeJSONError(w, http.StatusBadRequest, "Invalid 'n' parameter")
		return
	}
	k, err := strconv.Atoi(r.URL.Query().Get("k"))
	if err != nil || k < 0 || k > n {
		s.writeJSONError(w, http.StatusBadRequest, "Invalid 'k' parameter")
		return
	}

	a, err := s.analyzer()
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve transactions: %v", err))
		return
	}
	if a.Len() == 0 {
		s.writeJSONError(w, http.StatusNotFound, "No transactions stored")
		return
	}

	p := a.Analyze().PFraud
	pmf, err := probability.BinomialPMF(n, k, p)
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := map[string]any{
		"n":           n,
		"k":           k,
		"p_fraud":     stats.Round4(p),
		"probability": stats.Round4(pmf),
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write trial probability")
	}
}

// runExperiment re-estimates the stored fraud rate empirically: it draws
// repeated seeded Bernoulli samples at the theoretical P(Fraud) and reports
// how far the observed ratio lands from it.
func (s *Server) runExperiment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	q := r.URL.Query()
	trials := defaultExperimentTrials
	if v := q.Get("trials"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > maxExperimentTrials {
			s.writeJSONError(w, http.StatusBadRequest, "Invalid 'trials' parameter")
			return
		}
		trials = parsed
	}
	seed := time.Now().UnixNano()
	if v := q.Get("seed"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			s.writeJSONError(w, http.StatusBadRequest, "Invalid 'seed' parameter")
			return
		}
		seed = parsed
	}

	a, err := s.analyzer()
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve transactions: %v", err))
		return
	}
	if a.Len() == 0 {
		s.writeJSONError(w, http.StatusNotFound, "No transactions stored")
		return
	}

	exp, err := probability.NewExperiment(a.Analyze().PFraud, trials, seed)
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	res := exp.Run()

	resp := map[string]any{
		"trials":      res.Trials,
		"successes":   res.Successes,
		"theoretical": stats.Round4(res.Theoretical),
		"empirical":   stats.Round4(res.Empirical),
		"abs_error":   stats.Round4(res.AbsError),
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write experiment result")
	}
}

func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	config := map[string]interface{}{
		"high_value_threshold": s.threshold,
		"default_bins":         defaultBins,
	}

	if err := json.NewEncoder(w).Encode(config); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write config")
	}
}
