// Package report renders analysis results to PNG plots and records each
// generated artifact in the database so runs can be found later.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arcadia-data/riskstat/internal/db"
	"github.com/arcadia-data/riskstat/internal/fraud"
	"github.com/google/uuid"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Generator writes plot files under a base output directory. Each call
// creates a fresh uuid-named run directory. The db handle is optional;
// when nil, artifacts are written but not recorded.
type Generator struct {
	db        *db.DB
	outputDir string
}

// NewGenerator returns a generator writing under outputDir.
func NewGenerator(database *db.DB, outputDir string) *Generator {
	return &Generator{db: database, outputDir: outputDir}
}

func (g *Generator) newRunDir() (runID, dir string, err error) {
	runID = uuid.New().String()
	dir = filepath.Join(g.outputDir, runID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create output dir: %w", err)
	}
	return runID, dir, nil
}

func (g *Generator) record(runID, kind, params, path string) error {
	if g.db == nil {
		return nil
	}
	return g.db.CreateAnalysisReport(&db.AnalysisReport{
		RunID:    runID,
		Kind:     kind,
		Params:   params,
		Filepath: path,
	})
}

// FraudTrend plots the per-year fraud probabilities as lines over year and
// returns the written PNG path.
func (g *Generator) FraudTrend(reports []fraud.Report) (string, error) {
	if len(reports) == 0 {
		return "", fmt.Errorf("report: no yearly reports to plot")
	}

	runID, dir, err := g.newRunDir()
	if err != nil {
		return "", err
	}

	p := plot.New()
	p.Title.Text = "Compound Event Probability Trend"
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Probability"
	p.Y.Min, p.Y.Max = 0, 1
	p.Add(plotter.NewGrid())

	fraudPts := make(plotter.XYs, 0, len(reports))
	givenPts := make(plotter.XYs, 0, len(reports))
	for _, r := range reports {
		fraudPts = append(fraudPts, plotter.XY{X: float64(r.Year), Y: r.PFraud})
		givenPts = append(givenPts, plotter.XY{X: float64(r.Year), Y: r.PFraudGivenCompound})
	}

	fraudLine, err := plotter.NewLine(fraudPts)
	if err != nil {
		return "", fmt.Errorf("failed to build fraud line: %w", err)
	}
	fraudLine.Width = vg.Points(1)
	p.Add(fraudLine)
	p.Legend.Add("P(Fraud)", fraudLine)

	givenLine, err := plotter.NewLine(givenPts)
	if err != nil {
		return "", fmt.Errorf("failed to build conditional line: %w", err)
	}
	givenLine.Width = vg.Points(1)
	givenLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(givenLine)
	p.Legend.Add("P(Fraud | Intl ∩ High)", givenLine)

	path := filepath.Join(dir, "fraud_trend.png")
	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return "", fmt.Errorf("failed to save fraud trend plot: %w", err)
	}

	params := fmt.Sprintf("years=%d..%d", reports[0].Year, reports[len(reports)-1].Year)
	if err := g.record(runID, "fraud_trend", params, path); err != nil {
		return "", err
	}
	return path, nil
}

// MeanComparison plots named mean values side by side (e.g. simple vs
// weighted, or arithmetic vs geometric vs harmonic) and returns the
// written PNG path.
func (g *Generator) MeanComparison(labels []string, values []float64) (string, error) {
	if len(labels) == 0 || len(labels) != len(values) {
		return "", fmt.Errorf("report: labels and values must be non-empty and equal length")
	}

	runID, dir, err := g.newRunDir()
	if err != nil {
		return "", err
	}

	p := plot.New()
	p.Title.Text = "Mean Comparison"
	p.Y.Label.Text = "Value"
	p.NominalX(labels...)

	bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(30))
	if err != nil {
		return "", fmt.Errorf("failed to build bar chart: %w", err)
	}
	p.Add(bars)

	path := filepath.Join(dir, "mean_comparison.png")
	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return "", fmt.Errorf("failed to save mean comparison plot: %w", err)
	}

	if err := g.record(runID, "mean_comparison", fmt.Sprintf("series=%d", len(labels)), path); err != nil {
		return "", err
	}
	return path, nil
}
