// bridgetech-stats is the offline companion to bridgetech-server: it reads an
// elevator CSV log file and prints per-day wait-time aggregates without
// touching a database.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rlongio/bridgetech-utility/internal/elevator/logfile"
	"github.com/rlongio/bridgetech-utility/internal/elevator/waitstats"
)

func main() {
	input := flag.String("input", "", "path to a CSV elevator log file")
	window := flag.Duration("window", waitstats.DefaultAnomalyWindow,
		"maximum wait considered valid; longer pending calls are discarded")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "usage: bridgetech-stats -input <file.csv> [-window 10m]")
		os.Exit(2)
	}

	entries, err := logfile.ReadFile(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bridgetech-stats: %v\n", err)
		os.Exit(1)
	}

	days, err := waitstats.Compute(entries, *window)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bridgetech-stats: %v\n", err)
		os.Exit(1)
	}

	for _, d := range days {
		fmt.Printf("%s: average %s, median %s (%d samples)\n",
			d.Date, d.Average, d.Median, d.Samples)
	}
}
