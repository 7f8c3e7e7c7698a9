// Package render draws forward-pass values as PNG figures using
// gonum.org/v1/plot.
package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	plottext "gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"forwardpass/internal/model"
)

// Column positions and node radius of the network diagram, in data units.
const (
	InputColumn  = 0.1
	HiddenColumn = 0.5
	OutputColumn = 0.9
	nodeRadius   = 0.035
)

// ErrNoValues is returned when asked to chart an empty vector.
var ErrNoValues = errors.New("render: no values")

// BarChart saves one bar per neuron of values to path.
func BarChart(values []float64, title, path string, dpi int) error {
	if len(values) == 0 {
		return ErrNoValues
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Neuron index"
	p.Y.Label.Text = "Value"

	bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(20))
	if err != nil {
		return fmt.Errorf("bar chart %s: %w", title, err)
	}
	bars.Color = plotutil.Color(0)
	bars.LineStyle.Width = 0
	p.Add(bars, plotter.NewGrid())

	names := make([]string, len(values))
	for i := range names {
		names[i] = strconv.Itoa(i)
	}
	p.NominalX(names...)

	return save(p, 6.4*vg.Inch, 4.8*vg.Inch, path, dpi)
}

// Positions spaces n nodes evenly from top to bottom. A single node sits
// halfway between them.
func Positions(n int, top, bottom float64) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{(top + bottom) / 2}
	}
	step := (bottom - top) / float64(n-1)
	out := make([]float64, n)
	for i := range out {
		out[i] = top + float64(i)*step
	}
	return out
}

// NetworkDiagram saves a three-column, fully-connected drawing of the
// network annotated with input, pre-activation and activation values.
func NetworkDiagram(input []float64, pass model.Pass, path string, dpi int) error {
	if len(input) == 0 || len(pass.A1) == 0 || len(pass.A2) == 0 {
		return ErrNoValues
	}
	p := plot.New()
	p.Title.Text = "Forward Pass Flow (values shown)"
	p.HideAxes()
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	inY := Positions(len(input), 0.8, 0.2)
	hY := Positions(len(pass.A1), 0.8, 0.2)
	oY := Positions(len(pass.A2), 0.8, 0.2)

	if err := addEdges(p, InputColumn, inY, HiddenColumn, hY); err != nil {
		return err
	}
	if err := addEdges(p, HiddenColumn, hY, OutputColumn, oY); err != nil {
		return err
	}

	labels := make([]string, 0, len(input)+len(pass.A1)+len(pass.A2))
	for i, v := range input {
		labels = append(labels, fmt.Sprintf("x%d=%.2f", i, v))
	}
	for j := range pass.A1 {
		labels = append(labels, fmt.Sprintf("z1%d=%.2f\na1%d=%.2f", j, pass.Z1[j], j, pass.A1[j]))
	}
	for k := range pass.A2 {
		labels = append(labels, fmt.Sprintf("z2%d=%.2f\na2%d=%.2f", k, pass.Z2[k], k, pass.A2[k]))
	}

	nodes := append(append(column(InputColumn, inY), column(HiddenColumn, hY)...), column(OutputColumn, oY)...)
	if err := addNodes(p, nodes, labels); err != nil {
		return err
	}

	return save(p, 10*vg.Inch, 4*vg.Inch, path, dpi)
}

func column(x float64, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(ys))
	for i, y := range ys {
		pts[i] = plotter.XY{X: x, Y: y}
	}
	return pts
}

func addEdges(p *plot.Plot, fromX float64, fromY []float64, toX float64, toY []float64) error {
	i := 0
	for _, y1 := range fromY {
		for _, y2 := range toY {
			line, err := plotter.NewLine(plotter.XYs{
				{X: fromX + nodeRadius, Y: y1},
				{X: toX - nodeRadius, Y: y2},
			})
			if err != nil {
				return fmt.Errorf("edge: %w", err)
			}
			line.LineStyle.Width = vg.Points(0.8)
			line.LineStyle.Color = plotutil.Color(i)
			p.Add(line)
			i++
		}
	}
	return nil
}

func addNodes(p *plot.Plot, nodes plotter.XYs, labels []string) error {
	scatter, err := plotter.NewScatter(nodes)
	if err != nil {
		return fmt.Errorf("nodes: %w", err)
	}
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	scatter.GlyphStyle.Color = color.White
	scatter.GlyphStyle.Radius = vg.Points(24)

	ring, err := plotter.NewScatter(nodes)
	if err != nil {
		return fmt.Errorf("nodes: %w", err)
	}
	ring.GlyphStyle.Shape = draw.RingGlyph{}
	ring.GlyphStyle.Color = color.Black
	ring.GlyphStyle.Radius = vg.Points(24)

	annotations, err := plotter.NewLabels(plotter.XYLabels{XYs: nodes, Labels: labels})
	if err != nil {
		return fmt.Errorf("labels: %w", err)
	}
	for i := range annotations.TextStyle {
		annotations.TextStyle[i].XAlign = plottext.XCenter
		annotations.TextStyle[i].YAlign = plottext.YCenter
		annotations.TextStyle[i].Font.Size = vg.Points(7)
	}

	p.Add(scatter, ring, annotations)
	return nil
}

func save(p *plot.Plot, w, h vg.Length, path string, dpi int) error {
	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))
	p.Draw(draw.New(c))
	return writeFile(path, vgimg.PngCanvas{Canvas: c})
}

func writeFile(path string, w io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := w.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
