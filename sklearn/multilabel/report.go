package multilabel

import (
	"fmt"

	"github.com/YuminosukeSato/classwise/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// SelectionChart draws the held-out score of every candidate, grouped by
// label. names labels the candidates in option order.
func SelectionChart(selections []LabelSelection, names []string) (*plot.Plot, error) {
	if len(selections) == 0 {
		return nil, errors.NewValueError("SelectionChart", "no selections to plot")
	}
	if len(names) == 0 {
		return nil, errors.NewValueError("SelectionChart", "no candidate names to plot")
	}
	nCandidates := len(names)
	for _, sel := range selections {
		if len(sel.Scores) != nCandidates {
			return nil, errors.NewDimensionError("SelectionChart", nCandidates, len(sel.Scores), 1)
		}
	}

	p := plot.New()
	p.Title.Text = "Held-out score per label"
	p.Y.Label.Text = "score"
	p.Y.Min = 0
	p.Y.Max = 1
	p.Legend.Top = true

	width := vg.Points(40 / float64(nCandidates))
	labels := make([]string, len(selections))
	for i, sel := range selections {
		labels[i] = fmt.Sprintf("label %d", sel.Label)
	}

	for j, name := range names {
		values := make(plotter.Values, len(selections))
		for i, sel := range selections {
			values[i] = sel.Scores[j]
		}
		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return nil, errors.Wrapf(err, "bars for %s", name)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(j)
		bars.Offset = width * vg.Length(float64(j)-float64(nCandidates-1)/2)

		p.Add(bars)
		p.Legend.Add(name, bars)
	}
	p.NominalX(labels...)
	return p, nil
}

// SaveSelectionChart writes the chart of the last fit to path. The image
// format follows the file extension (png, svg, pdf...).
func (c *ClasswiseClassifier) SaveSelectionChart(path string) error {
	if !c.IsFitted() {
		return errors.NewNotFittedError(c.String(), "SaveSelectionChart")
	}

	names := make([]string, len(c.options))
	for j, o := range c.options {
		names[j] = fmt.Sprintf("%d: %s", j, describe(o.clf))
	}
	p, err := SelectionChart(c.Selections(), names)
	if err != nil {
		return err
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "save selection chart to %s", path)
	}
	return nil
}
