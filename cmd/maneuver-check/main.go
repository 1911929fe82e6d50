// Command maneuver-check replays recorded scenes through the pull-over and
// park-and-go completion classifiers and optionally records every decision
// in a SQLite database.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/banshee-data/maneuver.report/internal/config"
	"github.com/banshee-data/maneuver.report/internal/db"
	"github.com/banshee-data/maneuver.report/internal/monitoring"
	"github.com/banshee-data/maneuver.report/internal/scene"
	"github.com/banshee-data/maneuver.report/internal/units"
	"github.com/banshee-data/maneuver.report/internal/version"
	"github.com/banshee-data/maneuver.report/internal/visualiser"
)

const program = "maneuver-check"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		printUsage(stdout)
		return fmt.Errorf("missing command")
	}

	command, rest := args[0], args[1:]
	switch command {
	case "check":
		return runCheck(rest, stdout, stderr)
	case "show":
		return runShow(rest, stdout, stderr)
	case "migrate":
		fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
		fs.SetOutput(stderr)
		dbPath := fs.String("db", "maneuver_decisions.db", "Path to the decision database")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return db.RunMigrateCommand(stdout, fs.Args(), *dbPath)
	case "version":
		fmt.Fprintln(stdout, version.String(program))
		return nil
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	default:
		printUsage(stdout)
		return fmt.Errorf("unknown command: %s", command)
	}
}

func runCheck(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	scenePath := fs.String("scene", "", "Scene JSON file to replay (required)")
	configPath := fs.String("config", "", "Tuning JSON file (defaults are used when empty)")
	dbPath := fs.String("db", "", "Record the run in this SQLite database")
	pngPath := fs.String("png", "", "Write a top-down scene plot to this file")
	htmlPath := fs.String("html", "", "Write an HTML chart of per-cycle metrics to this file")
	plotCycle := fs.Int("plot-cycle", -1, "Cycle drawn on the scene plot (-1 for the last)")
	speedUnits := fs.String("units", units.MPS, "Speed display units ("+units.GetValidUnitsString()+")")
	debug := fs.Bool("debug", false, "Log classifier internals")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *scenePath == "" {
		fs.Usage()
		return fmt.Errorf("-scene is required")
	}
	unit, err := units.Parse(*speedUnits)
	if err != nil {
		return err
	}

	monitoring.SetDebug(*debug)
	defer monitoring.SetDebug(false)

	tuning := config.DefaultTuningConfig()
	if *configPath != "" {
		if tuning, err = config.LoadTuningConfig(*configPath); err != nil {
			return err
		}
	}
	params, err := replayParams(tuning)
	if err != nil {
		return err
	}

	s, err := scene.Load(*scenePath)
	if err != nil {
		return err
	}
	replay, err := scene.Run(s, params)
	if err != nil {
		return err
	}
	printReplay(stdout, replay, unit)

	if *dbPath != "" {
		runID, err := recordReplay(*dbPath, replay, tuning)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Recorded run %s in %s\n", runID, *dbPath)
	}

	if *pngPath != "" {
		if err := visualiser.SaveScene(*pngPath, replay, visualiser.SceneOptions{Cycle: *plotCycle}); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Wrote scene plot to %s\n", *pngPath)
	}

	if *htmlPath != "" {
		f, err := os.Create(*htmlPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", *htmlPath, err)
		}
		if err := visualiser.WriteReplayHTML(f, replay); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close %s: %w", *htmlPath, err)
		}
		fmt.Fprintf(stdout, "Wrote replay chart to %s\n", *htmlPath)
	}
	return nil
}

func replayParams(tuning *config.TuningConfig) (scene.Params, error) {
	pullOver, err := tuning.PullOver()
	if err != nil {
		return scene.Params{}, err
	}
	parkAndGo, err := tuning.ParkAndGo()
	if err != nil {
		return scene.Params{}, err
	}
	vehicle, err := tuning.Vehicle()
	if err != nil {
		return scene.Params{}, err
	}
	return scene.Params{PullOver: pullOver, ParkAndGo: parkAndGo, Vehicle: vehicle}, nil
}

func printReplay(w io.Writer, r *scene.Replay, unit string) {
	fmt.Fprintf(w, "Scene %q (%s), %d cycles\n", r.Scene.Name, r.Scene.Maneuver, len(r.Cycles))
	fmt.Fprintf(w, "Target: %s\n", r.Scene.Target)
	fmt.Fprintf(w, "%-5s %9s %9s %9s %9s %-16s %-6s %s\n",
		"cycle", "x", "y", "speed("+units.Label(unit)+")", "dist", "pull_over", "ready", "park_and_go")
	for _, c := range r.Cycles {
		dist := "-"
		if c.PullOver.Projected {
			dist = fmt.Sprintf("%.3f", c.PullOver.DistanceToTarget)
		}
		fmt.Fprintf(w, "%-5d %9.3f %9.3f %9.3f %9s %-16s %-6t %s\n",
			c.Cycle, c.ADC.X, c.ADC.Y, units.ConvertSpeed(c.Speed, unit), dist, c.PullOver.Status, c.ReadyToCruise, c.ParkAndGoStatus)
	}

	final := r.Final()
	switch r.Scene.Maneuver {
	case scene.ManeuverPullOver:
		fmt.Fprintf(w, "Final pull-over status: %s\n", final.PullOver.Status)
	case scene.ManeuverParkAndGo:
		fmt.Fprintf(w, "Final park-and-go status: %s (ready_to_cruise=%t)\n", final.ParkAndGoStatus, final.ReadyToCruise)
	}

	if q := r.Scene.ResolveOverlap; q != nil {
		if r.Overlap != nil {
			fmt.Fprintf(w, "Overlap %s/%s: s=[%.3f, %.3f]\n", q.Type, q.ObjectID, r.Overlap.StartS, r.Overlap.EndS)
		} else {
			fmt.Fprintf(w, "Overlap %s/%s: not found\n", q.Type, q.ObjectID)
		}
	}
}

func recordReplay(dbPath string, r *scene.Replay, tuning *config.TuningConfig) (string, error) {
	database, err := db.OpenMigrated(dbPath)
	if err != nil {
		return "", err
	}
	defer database.Close()

	cfgJSON, err := json.Marshal(tuning)
	if err != nil {
		return "", fmt.Errorf("failed to encode tuning: %w", err)
	}

	store := db.NewDecisionStore(database.DB)
	run := &db.Run{SceneName: r.Scene.Name, Maneuver: r.Scene.Maneuver, ConfigJSON: cfgJSON}
	if err := store.InsertRun(run); err != nil {
		return "", err
	}

	for _, c := range r.Cycles {
		d := &db.Decision{
			RunID:           run.RunID,
			Cycle:           c.Cycle,
			ADCX:            c.ADC.X,
			ADCY:            c.ADC.Y,
			ADCHeading:      c.ADC.Heading,
			ADCSpeed:        c.Speed,
			PullOverStatus:  c.PullOver.Status,
			ReadyToCruise:   c.ReadyToCruise,
			ParkAndGoStatus: c.ParkAndGoStatus,
		}
		if c.PullOver.Projected {
			frontEdge, distance := c.FrontEdgeS, c.PullOver.DistanceToTarget
			d.FrontEdgeS = &frontEdge
			d.DistanceToTarget = &distance
		}
		if err := store.Insert(d); err != nil {
			return "", err
		}
	}
	monitoring.Logf("recorded %d decisions for run %s", len(r.Cycles), run.RunID)
	return run.RunID, nil
}

func runShow(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dbPath := fs.String("db", "maneuver_decisions.db", "Path to the decision database")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: %s show -db <path> <run-id>", program)
	}
	runID := fs.Arg(0)

	database, err := db.OpenMigrated(*dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	store := db.NewDecisionStore(database.DB)
	run, err := store.GetRun(runID)
	if err != nil {
		return err
	}
	decisions, err := store.ListByRun(runID)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Run %s: scene %q (%s), %d decisions\n", run.RunID, run.SceneName, run.Maneuver, len(decisions))
	for _, d := range decisions {
		dist := "-"
		if d.DistanceToTarget != nil {
			dist = fmt.Sprintf("%.3f", *d.DistanceToTarget)
		}
		fmt.Fprintf(stdout, "%-5d %9s %-16s %-6t %s\n", d.Cycle, dist, d.PullOverStatus, d.ReadyToCruise, d.ParkAndGoStatus)
	}
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `%s - pull-over and park-and-go completion checks

Usage: %s <command> [options]

Commands:
  check      Replay a scene and print per-cycle decisions
  show       Print the decisions recorded for a run
  migrate    Manage the decision database schema (up, down, status)
  version    Show version information
  help       Show this help message

Check Flags:
  -scene <file>       Scene JSON file (required)
  -config <file>      Tuning JSON file
  -db <file>          Record decisions in a SQLite database
  -png <file>         Write a top-down scene plot
  -html <file>        Write an HTML chart of per-cycle metrics
  -plot-cycle <n>     Cycle drawn on the scene plot (-1 for the last)
  -units <unit>       Speed display units (mps, mph, kmph, kph)
  -debug              Log classifier internals
`, program, program)
}
