package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/NERSC/lustre-design-analysis/app"
	"github.com/NERSC/lustre-design-analysis/models"
)

func main() {
	configPath := flag.String("config", "analysis.yaml", "Path to analysis configuration file")
	capacity := flag.Float64("capacity", 0, "Target capacity in bytes (overrides config)")
	conventionName := flag.String("convention", "average", "File size convention: min, max or average")
	flag.Parse()

	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *capacity > 0 {
		cfg.Projection.TargetCapacityBytes = *capacity
	}
	if cfg.Projection.TargetCapacityBytes <= 0 {
		fmt.Fprintln(os.Stderr, "Error: no target capacity configured. Set projection.target_capacity_bytes or pass -capacity")
		os.Exit(1)
	}

	convention, err := app.ParseConvention(*conventionName)
	if err != nil {
		log.Fatalf("Invalid convention: %v", err)
	}

	analysis, err := app.RunAnalysis(cfg)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}
	p := analysis.Projection

	fmt.Printf("Projected inode counts for %s capacity (%s convention)\n\n",
		formatSize(cfg.Projection.TargetCapacityBytes), convention)

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(w, "bin size\tfile mass\tfiles")
	for _, typ := range sortedTypes(p.TypeCounts) {
		fmt.Fprintf(w, "\t%ss", typ)
	}
	fmt.Fprintln(w, "\t")
	for i := 0; i < p.Index.Len(); i++ {
		fmt.Fprintf(w, "%s\t%s\t%.1f",
			formatSize(float64(p.Index.Bin(i).ExtentMax)),
			formatSize(p.Mass[convention][i]),
			p.FileCounts[convention][i])
		for _, typ := range sortedTypes(p.TypeCounts) {
			fmt.Fprintf(w, "\t%.1f", p.TypeCounts[typ][convention][i])
		}
		fmt.Fprintln(w, "\t")
	}
	w.Flush()

	fmt.Printf("\nMetadata residency (%s convention)\n\n", convention)
	curve := app.MetadataResidency(p, convention)
	w = tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "bin size\twhole files\tfirst stripes\tnon-file\ttotal\t")
	for i, pt := range curve {
		marker := ""
		if i == cfg.Projection.ResidencyThresholdBin {
			marker = " *"
		}
		fmt.Fprintf(w, "%s%s\t%s\t%s\t%s\t%s\t\n",
			formatSize(float64(pt.Bin.ExtentMax)), marker,
			formatSize(pt.WholeFileBytes),
			formatSize(pt.FirstStripeBytes),
			formatSize(pt.NonFileBytes),
			formatSize(pt.TotalBytes))
	}
	w.Flush()

	if hasEnduranceConfig(cfg) {
		dwpd, err := app.RequiredDWPD(app.EnduranceInputFromConfig(cfg))
		if err != nil {
			log.Fatalf("Endurance calculation failed: %v", err)
		}
		fmt.Printf("\nRequired drive endurance: %.3f DWPD\n", dwpd)
	}
}

func hasEnduranceConfig(cfg *models.AppConfig) bool {
	e := cfg.Endurance
	return e.SSI > 0 && e.FSWritesPerDay > 0
}

func sortedTypes(counts map[models.InodeType]map[app.Convention][]float64) []models.InodeType {
	var out []models.InodeType
	for _, typ := range models.AllInodeTypes {
		if _, ok := counts[typ]; ok {
			out = append(out, typ)
		}
	}
	return out
}

// formatSize converts bytes to a human-readable string
func formatSize(bytes float64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
		PB = TB * 1024
	)
	switch {
	case bytes >= PB:
		return fmt.Sprintf("%.2f PB", bytes/PB)
	case bytes >= TB:
		return fmt.Sprintf("%.2f TB", bytes/TB)
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", bytes/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", bytes/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", bytes/KB)
	}
	return fmt.Sprintf("%.0f B", bytes)
}
