// Package visualiser renders scene replays for offline review: a top-down
// PNG of the geometry and an HTML chart of per-cycle metrics.
package visualiser

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/maneuver.report/internal/geom"
	"github.com/banshee-data/maneuver.report/internal/scene"
)

// Scene plot dimensions.
const (
	sceneWidth  = 12 * vg.Inch
	sceneHeight = 6 * vg.Inch
)

var (
	pathColor      = color.RGBA{R: 90, G: 90, B: 90, A: 255}
	footprintColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	clearanceColor = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	blockedColor   = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	obstacleColor  = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	targetColor    = color.RGBA{R: 148, G: 103, B: 189, A: 255}
)

// SceneOptions selects what goes on the scene plot.
type SceneOptions struct {
	// Cycle is the cycle whose footprint and clearance box are drawn.
	// Negative values select the final cycle.
	Cycle int
}

// BuildScenePlot draws the reference path, obstacles, target and the chosen
// cycle's footprint and clearance box.
func BuildScenePlot(r *scene.Replay, o SceneOptions) (*plot.Plot, error) {
	if len(r.Cycles) == 0 {
		return nil, fmt.Errorf("replay has no cycles")
	}
	idx := o.Cycle
	if idx < 0 || idx >= len(r.Cycles) {
		idx = len(r.Cycles) - 1
	}
	c := r.Cycles[idx]

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s cycle %d: %s", r.Scene.Name, c.Cycle, c.PullOver.Status)
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"
	p.Legend.Top = true
	p.Legend.Left = false

	pathLine, err := plotter.NewLine(toXYs(r.Path.Points()))
	if err != nil {
		return nil, fmt.Errorf("path line: %w", err)
	}
	pathLine.Color = pathColor
	pathLine.Width = vg.Points(1)
	pathLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(pathLine)
	p.Legend.Add("reference path", pathLine)

	legendObstacle := true
	for i, obstacle := range r.Scene.ObstaclePolygons() {
		if obstacle.IsDegenerate() {
			continue
		}
		poly, err := outline(obstacle.Points, obstacleColor)
		if err != nil {
			return nil, fmt.Errorf("obstacle %d: %w", i, err)
		}
		p.Add(poly)
		if legendObstacle {
			p.Legend.Add("obstacle", poly)
			legendObstacle = false
		}
	}

	clearancePoly, err := outline(c.ClearanceBox.Corners(), clearanceBoxColor(c))
	if err != nil {
		return nil, fmt.Errorf("clearance box: %w", err)
	}
	p.Add(clearancePoly)
	p.Legend.Add("clearance box", clearancePoly)

	footprint, err := outline(c.Footprint.Corners(), footprintColor)
	if err != nil {
		return nil, fmt.Errorf("footprint: %w", err)
	}
	p.Add(footprint)
	p.Legend.Add("vehicle", footprint)

	trail := make([]geom.Vec2, 0, idx+1)
	for _, prev := range r.Cycles[:idx+1] {
		trail = append(trail, prev.ADC.Position())
	}
	trailPts, err := plotter.NewScatter(toXYs(trail))
	if err != nil {
		return nil, fmt.Errorf("trail: %w", err)
	}
	trailPts.Color = footprintColor
	trailPts.Radius = vg.Points(2)
	p.Add(trailPts)

	if r.Scene.Target.Complete() {
		target, err := plotter.NewScatter(toXYs([]geom.Vec2{r.Scene.Target.Position()}))
		if err != nil {
			return nil, fmt.Errorf("target: %w", err)
		}
		target.Color = targetColor
		target.Radius = vg.Points(4)
		p.Add(target)
		p.Legend.Add("pull-over target", target)
	}

	p.Add(plotter.NewGrid())
	return p, nil
}

// WriteScenePNG renders the scene plot as PNG to w.
func WriteScenePNG(w io.Writer, r *scene.Replay, o SceneOptions) error {
	p, err := BuildScenePlot(r, o)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(sceneWidth, sceneHeight, "png")
	if err != nil {
		return fmt.Errorf("failed to create png writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write png: %w", err)
	}
	return nil
}

// SaveScene renders the scene plot to a file; the format follows the
// file extension.
func SaveScene(path string, r *scene.Replay, o SceneOptions) error {
	p, err := BuildScenePlot(r, o)
	if err != nil {
		return err
	}
	if err := p.Save(sceneWidth, sceneHeight, path); err != nil {
		return fmt.Errorf("failed to save scene plot: %w", err)
	}
	return nil
}

// clearanceBoxColor is red when an obstacle sits in the box, whatever the
// heading.
func clearanceBoxColor(c scene.CycleResult) color.Color {
	if c.FrontBlocked {
		return blockedColor
	}
	return clearanceColor
}

func outline(pts []geom.Vec2, c color.Color) (*plotter.Polygon, error) {
	poly, err := plotter.NewPolygon(toXYs(pts))
	if err != nil {
		return nil, err
	}
	poly.Color = nil
	poly.LineStyle.Color = c
	poly.LineStyle.Width = vg.Points(1.5)
	return poly, nil
}

func toXYs(pts []geom.Vec2) plotter.XYs {
	xys := make(plotter.XYs, len(pts))
	for i, pt := range pts {
		xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	return xys
}
