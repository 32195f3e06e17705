package main

import (
	"flag"
	"log"
	"os"

	"github.com/NERSC/lustre-design-analysis/app"
)

func main() {
	configPath := flag.String("config", "analysis.yaml", "Path to analysis configuration file")
	force := flag.Bool("force", false, "Rebuild the histogram even when a cache exists")
	flag.Parse()

	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *force && cfg.HistogramCache != "" {
		if err := os.Remove(cfg.HistogramCache); err != nil && !os.IsNotExist(err) {
			log.Fatalf("Failed to remove stale cache: %v", err)
		}
	}

	h, _, err := app.LoadHistogram(cfg)
	if err != nil {
		log.Fatalf("Failed to build histogram: %v", err)
	}

	if err := h.WriteCSV(os.Stdout); err != nil {
		log.Fatalf("Failed to write histogram: %v", err)
	}
}
