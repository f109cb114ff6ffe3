package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/atotto/clipboard"

	"github.com/Garsondee/City-Sense/internal/city"
	"github.com/Garsondee/City-Sense/internal/journal"
	"github.com/Garsondee/City-Sense/internal/tuning"
)

type actionResult struct {
	index int
	desc  string
	err   error
}

type runStats struct {
	scenario string
	results  []actionResult
	failures int

	placed      int
	removed     int
	runs        int
	roadCells   int
	houses      int
	specials    int
	provisional int
	balance     int
	spent       int
}

func main() {
	var configPath string
	var scriptPath string
	var journalPath string
	var lastEvents int
	var verbose bool
	var copyReport bool

	flag.StringVar(&configPath, "config", "", "tuning YAML (defaults when empty)")
	flag.StringVar(&scriptPath, "script", "", "scenario YAML (built-in main-street when empty)")
	flag.StringVar(&journalPath, "journal", "", "write events to this .jsonl.zst file")
	flag.IntVar(&lastEvents, "events", 40, "events to list in the report (0 = all)")
	flag.BoolVar(&verbose, "verbose", false, "include road reshape events")
	flag.BoolVar(&copyReport, "copy", false, "copy the report to the clipboard")
	flag.Parse()

	cfg := tuning.Default()
	if configPath != "" {
		var err error
		if cfg, err = tuning.Load(configPath); err != nil {
			log.Fatal(err)
		}
	}

	sc := mainStreet()
	if scriptPath != "" {
		var err error
		if sc, err = loadScenario(scriptPath); err != nil {
			log.Fatal(err)
		}
	}

	opts := cfg.CityOptions()
	opts = append(opts, city.WithVerbose(verbose))
	var jw *journal.Writer
	if journalPath != "" {
		var err error
		if jw, err = journal.Create(journalPath); err != nil {
			log.Fatal(err)
		}
		opts = append(opts, city.WithCityListener(jw.Listener()))
	}

	tc, err := city.NewTestCity(opts...)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("=== Headless City Report ===\n")
	fmt.Printf("scenario=%s actions=%d grid=%dx%d seed=%d\n\n",
		sc.Name, len(sc.Actions), cfg.Grid.Width, cfg.Grid.Height, cfg.Seed)

	stats := runScenario(tc, sc, cfg.StartingMoney)
	printRun(stats)

	report := tc.Report(sc.Name, lastEvents)
	fmt.Print(report)

	if jw != nil {
		if err := jw.Close(); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("\njournal=%s\n", journalPath)
	}
	if copyReport {
		if err := clipboard.WriteAll(report); err != nil {
			fmt.Printf("clipboard: %v\n", err)
		} else {
			fmt.Println("report copied to clipboard")
		}
	}
}

func runScenario(tc *city.TestCity, sc scenario, startingMoney int) runStats {
	rs := runStats{scenario: sc.Name}
	for i, a := range sc.Actions {
		err := apply(tc, a)
		rs.results = append(rs.results, actionResult{index: i + 1, desc: a.String(), err: err})
		if err != nil {
			rs.failures++
		}
	}

	g := tc.Engine.Grid()
	rs.placed = tc.Log.Count(city.EventPlaced)
	rs.removed = tc.Log.Count(city.EventRemoved)
	rs.runs = tc.Log.Count(city.EventRunCompleted)
	rs.roadCells = g.Count(city.Road)
	rs.houses = g.Count(city.Structure)
	rs.specials = g.Count(city.SpecialStructure)
	rs.provisional = tc.Engine.Ledger().ProvisionalCount()
	rs.balance = tc.Balance()
	rs.spent = startingMoney - rs.balance
	return rs
}

func printRun(rs runStats) {
	fmt.Printf("--- Scenario %s ---\n", rs.scenario)
	for _, r := range rs.results {
		status := "ok"
		if r.err != nil {
			status = "rejected: " + r.err.Error()
		}
		fmt.Printf("%02d) %-28s %s\n", r.index, r.desc, status)
	}
	fmt.Printf("event_totals: placed=%d removed=%d road_runs=%d\n", rs.placed, rs.removed, rs.runs)
	fmt.Printf("grid_totals: road=%d structure=%d special=%d provisional=%d\n",
		rs.roadCells, rs.houses, rs.specials, rs.provisional)
	fmt.Printf("money: balance=%d net_spent=%d failures=%d\n\n", rs.balance, rs.spent, rs.failures)
}
