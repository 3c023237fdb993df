package main

import (
	"flag"
	"fmt"
	"os"

	"teatime/cmd/mockgen/engine"
)

func main() {
	outDir := flag.String("out", "./.cache", "Output directory for the dataset files")
	name := flag.String("name", "example_trends", "Base file name (writes <name>.json and <name>.csv)")
	count := flag.Int("count", 30, "Number of trend peaks to generate")
	startYear := flag.Int("start-year", 2015, "First year a peak may fall in")
	endYear := flag.Int("end-year", 2025, "Last year a peak may fall in")
	seed := flag.Int64("seed", 0, "Random seed (0 for a time-based seed)")
	flag.Parse()

	cfg := engine.DefaultConfig()
	cfg.Count = *count
	cfg.StartYear = *startYear
	cfg.EndYear = *endYear
	cfg.Seed = *seed

	fmt.Printf("Generating %d trend peaks (%d-%d) to %s...\n", cfg.Count, cfg.StartYear, cfg.EndYear, *outDir)

	paths, err := engine.Save(*outDir, *name, engine.Generate(cfg))
	if err != nil {
		fmt.Printf("Failed to save mock data: %v\n", err)
		os.Exit(1)
	}
	for _, p := range paths {
		fmt.Println("Wrote", p)
	}
	fmt.Println("Done.")
}
