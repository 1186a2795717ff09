package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/arcadia-data/riskstat/internal/dataset"
	"github.com/arcadia-data/riskstat/internal/fraud"
	"github.com/arcadia-data/riskstat/internal/report"
	"github.com/arcadia-data/riskstat/internal/stats"
)

var (
	dataFile  = flag.String("data", "", "Transaction CSV to analyze (required)")
	highValue = flag.Float64("high-value", fraud.DefaultHighValueThreshold, "High-value transaction threshold")
	bins      = flag.Int("bins", 10, "Bins for the fraud-amount distribution")
	plotsDir  = flag.String("plots", "", "Write PNG plots under this directory (optional)")
)

func main() {
	flag.Parse()

	if *dataFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	transactions, err := dataset.LoadTransactions(*dataFile, nil)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}
	log.Printf("Loaded %d transactions from %s", len(transactions), *dataFile)

	analyzer := fraud.NewAnalyzer(*highValue)
	analyzer.AddAll(transactions)

	fmt.Printf("\n== Compound fraud probabilities by year (threshold %.0f) ==\n", analyzer.Threshold())
	fmt.Printf("%-6s %6s %10s %10s %10s %12s %14s\n",
		"Year", "Txns", "P(Fraud)", "P(Intl)", "P(High)", "P(Intl∩High)", "P(F|Intl∩High)")
	yearly := analyzer.AnalyzeByYear()
	for _, r := range yearly {
		fmt.Printf("%-6d %6d %10.4f %10.4f %10.4f %12.4f %14.4f\n",
			r.Year, r.Transactions,
			stats.Round4(r.PFraud), stats.Round4(r.PInternational), stats.Round4(r.PHighValue),
			stats.Round4(r.PCompound), stats.Round4(r.PFraudGivenCompound))
	}

	overall := analyzer.Analyze()
	fmt.Printf("\nOverall: P(Fraud)=%.4f  P(Fraud | Intl∩High)=%.4f over %d transactions\n",
		stats.Round4(overall.PFraud), stats.Round4(overall.PFraudGivenCompound), overall.Transactions)

	printMeans(analyzer.Amounts())
	printDistribution(analyzer, *bins)

	if *plotsDir != "" {
		gen := report.NewGenerator(nil, *plotsDir)
		path, err := gen.FraudTrend(yearly)
		if err != nil {
			log.Fatalf("Failed to write fraud trend plot: %v", err)
		}
		log.Printf("Wrote %s", path)

		if path, err := meanComparisonPlot(gen, analyzer.Amounts()); err != nil {
			log.Printf("Skipping mean comparison plot: %v", err)
		} else {
			log.Printf("Wrote %s", path)
		}
	}
}

func meanComparisonPlot(gen *report.Generator, amounts []float64) (string, error) {
	am, err := stats.Mean(amounts)
	if err != nil {
		return "", err
	}
	gm, err := stats.GeometricMean(amounts)
	if err != nil {
		return "", err
	}
	hm, err := stats.HarmonicMean(amounts)
	if err != nil {
		return "", err
	}
	return gen.MeanComparison(
		[]string{"arithmetic", "geometric", "harmonic"},
		[]float64{am, gm, hm},
	)
}

func printMeans(amounts []float64) {
	fmt.Printf("\n== Transaction amount central tendency ==\n")

	am, err := stats.Mean(amounts)
	if err != nil {
		log.Fatalf("Failed to compute mean: %v", err)
	}
	fmt.Printf("Arithmetic mean : %.2f\n", am)

	if gm, err := stats.GeometricMean(amounts); err == nil {
		fmt.Printf("Geometric mean  : %.2f\n", gm)
	}
	if hm, err := stats.HarmonicMean(amounts); err == nil {
		fmt.Printf("Harmonic mean   : %.2f\n", hm)
	}
	if med, err := stats.Median(amounts); err == nil {
		fmt.Printf("Median          : %.2f\n", med)
	}
	if sd, err := stats.StdDev(amounts); err == nil {
		fmt.Printf("Std deviation   : %.2f\n", sd)
	}
}

func printDistribution(analyzer *fraud.Analyzer, bins int) {
	dist, err := analyzer.FraudAmountDistribution(bins)
	if err != nil {
		if err == fraud.ErrNoFraudTransactions {
			fmt.Printf("\nNo fraud transactions; skipping amount distribution\n")
			return
		}
		log.Fatalf("Failed to compute distribution: %v", err)
	}

	fmt.Printf("\n== Fraud amount probability frequency distribution ==\n")
	fmt.Printf("%-16s %8s %12s %12s\n", "Interval", "Count", "Probability", "Cumulative")
	for _, b := range dist.Bins {
		fmt.Printf("%-16s %8d %12.4f %12.4f\n",
			b.Interval, b.Count, stats.Round4(b.Probability), stats.Round4(b.Cumulative))
	}

	if risky := dist.HighRiskIntervals(0.20); len(risky) > 0 {
		fmt.Printf("\nHigh-risk intervals (p >= 0.20):\n")
		for _, b := range risky {
			fmt.Printf("  %s (p=%.4f)\n", b.Interval, stats.Round4(b.Probability))
		}
	}
	fmt.Printf("Peak interval: %s\n", dist.MaxInterval().Interval)
	if cover, err := dist.CoverageInterval(0.80); err == nil {
		fmt.Printf("80%% of fraud amounts fall at or below interval: %s\n", cover.Interval)
	}
}
