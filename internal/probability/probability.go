// Package probability implements the event-probability engines: simple and
// equally-likely events, conditional probability over categorical tables,
// expected value, repeated trials, and probability frequency distributions.
package probability

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrEmptyInput is returned when an analysis is requested over no data.
	ErrEmptyInput = errors.New("probability: empty input")
	// ErrUnknownFeature is returned when a named column is not in the table.
	ErrUnknownFeature = errors.New("probability: feature not found")
	// ErrUnknownValue is returned when a value never occurs in its column.
	ErrUnknownValue = errors.New("probability: value not found in feature")
)

// EventProbability returns P(value == match) over a categorical series:
// matching/total. An empty series has probability zero.
func EventProbability(values []string, match string) float64 {
	if len(values) == 0 {
		return 0
	}
	matching := 0
	for _, v := range values {
		if v == match {
			matching++
		}
	}
	return float64(matching) / float64(len(values))
}

// Outcome is one label of an equally-likely event analysis.
type Outcome struct {
	Label       string  `json:"label"`
	Count       int     `json:"count"`
	Probability float64 `json:"probability"`
}

// EquallyLikely tallies a label series into per-label probabilities,
// sorted by probability descending (label ascending on ties, so output is
// deterministic).
func EquallyLikely(labels []string) []Outcome {
	if len(labels) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, l := range labels {
		counts[l]++
	}
	total := float64(len(labels))
	outcomes := make([]Outcome, 0, len(counts))
	for label, count := range counts {
		outcomes = append(outcomes, Outcome{
			Label:       label,
			Count:       count,
			Probability: float64(count) / total,
		})
	}
	sort.Slice(outcomes, func(i, j int) bool {
		if outcomes[i].Count != outcomes[j].Count {
			return outcomes[i].Count > outcomes[j].Count
		}
		return outcomes[i].Label < outcomes[j].Label
	})
	return outcomes
}

// Conditional returns P(target | given) over parallel boolean series:
// count(target ∧ given) / count(given). Zero when the condition never holds.
func Conditional(target, given []bool) (float64, error) {
	if len(target) != len(given) {
		return 0, errors.New("probability: target and given length mismatch")
	}
	totalGiven, joint := 0, 0
	for i := range given {
		if !given[i] {
			continue
		}
		totalGiven++
		if target[i] {
			joint++
		}
	}
	if totalGiven == 0 {
		return 0, nil
	}
	return float64(joint) / float64(totalGiven), nil
}

// Table holds categorical columns of equal length for conditional
// probability queries. Columns are addressed by name, values compared as
// strings.
type Table struct {
	columns map[string][]string
	rows    int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{columns: make(map[string][]string)}
}

// AddColumn registers a named column. All columns must have the same length.
func (t *Table) AddColumn(name string, values []string) error {
	if len(t.columns) > 0 && len(values) != t.rows {
		return fmt.Errorf("probability: column %q has %d rows, table has %d", name, len(values), t.rows)
	}
	t.columns[name] = values
	t.rows = len(values)
	return nil
}

// Rows returns the number of rows in the table.
func (t *Table) Rows() int { return t.rows }

// Columns returns the registered column names, sorted.
func (t *Table) Columns() []string {
	names := make([]string, 0, len(t.columns))
	for name := range t.columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (t *Table) column(name string) ([]string, error) {
	col, ok := t.columns[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFeature, name)
	}
	return col, nil
}

func validateValue(col []string, name, value string) error {
	for _, v := range col {
		if v == value {
			return nil
		}
	}
	return fmt.Errorf("%w: %q in feature %q", ErrUnknownValue, value, name)
}

// ConditionalProbability returns P(target=targetValue | given=givenValue).
// Unknown columns or values are errors; a never-satisfied condition yields
// zero.
func (t *Table) ConditionalProbability(targetCol, targetValue, givenCol, givenValue string) (float64, error) {
	target, err := t.column(targetCol)
	if err != nil {
		return 0, err
	}
	given, err := t.column(givenCol)
	if err != nil {
		return 0, err
	}
	if err := validateValue(target, targetCol, targetValue); err != nil {
		return 0, err
	}
	if err := validateValue(given, givenCol, givenValue); err != nil {
		return 0, err
	}

	totalGiven, joint := 0, 0
	for i := range given {
		if given[i] != givenValue {
			continue
		}
		totalGiven++
		if target[i] == targetValue {
			joint++
		}
	}
	if totalGiven == 0 {
		return 0, nil
	}
	return float64(joint) / float64(totalGiven), nil
}
