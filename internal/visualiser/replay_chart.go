package visualiser

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/maneuver.report/internal/maneuver"
	"github.com/banshee-data/maneuver.report/internal/scene"
)

// pullOverLevel maps statuses onto a small ordinal scale so they can share
// the metrics chart.
var pullOverLevel = map[maneuver.PullOverStatus]int{
	maneuver.PullOverUnknown:         0,
	maneuver.PullOverApproaching:     1,
	maneuver.PullOverParkFail:        2,
	maneuver.PullOverParkComplete:    3,
	maneuver.PullOverPassDestination: 4,
}

// BuildReplayChart plots per-cycle distance to target, lateral offset,
// speed and pull-over status.
func BuildReplayChart(r *scene.Replay) *charts.Line {
	cycles := make([]int, len(r.Cycles))
	distance := make([]opts.LineData, len(r.Cycles))
	lateral := make([]opts.LineData, len(r.Cycles))
	speed := make([]opts.LineData, len(r.Cycles))
	status := make([]opts.LineData, len(r.Cycles))
	ready := make([]opts.LineData, len(r.Cycles))

	for i, c := range r.Cycles {
		cycles[i] = c.Cycle
		if c.PullOver.Projected {
			distance[i] = opts.LineData{Value: c.PullOver.DistanceToTarget}
		} else {
			distance[i] = opts.LineData{Value: "-"}
		}
		lateral[i] = opts.LineData{Value: r.Path.Project(c.ADC.Position()).L}
		speed[i] = opts.LineData{Value: c.Speed}
		status[i] = opts.LineData{Value: pullOverLevel[c.PullOver.Status], Name: string(c.PullOver.Status)}
		readyVal := 0
		if c.ReadyToCruise {
			readyVal = 1
		}
		ready[i] = opts.LineData{Value: readyVal}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Maneuver Replay", Width: "100%", Height: "640px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Maneuver replay: %s", r.Scene.Name),
			Subtitle: fmt.Sprintf("maneuver=%s cycles=%d final=%s", r.Scene.Maneuver, len(r.Cycles), r.Final().PullOver.Status),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "cycle", NameLocation: "middle", NameGap: 25}),
	)
	line.SetXAxis(cycles).
		AddSeries("distance to target (m)", distance).
		AddSeries("lateral offset (m)", lateral).
		AddSeries("speed (m/s)", speed).
		AddSeries("pull-over status", status, charts.WithLineChartOpts(opts.LineChart{Step: "end"})).
		AddSeries("ready to cruise", ready, charts.WithLineChartOpts(opts.LineChart{Step: "end"}))
	return line
}

// WriteReplayHTML renders the replay chart as a standalone HTML page.
func WriteReplayHTML(w io.Writer, r *scene.Replay) error {
	if len(r.Cycles) == 0 {
		return fmt.Errorf("replay has no cycles")
	}
	if err := BuildReplayChart(r).Render(w); err != nil {
		return fmt.Errorf("failed to render replay chart: %w", err)
	}
	return nil
}
