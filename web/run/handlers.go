package webapp

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/NERSC/lustre-design-analysis/app"
	"github.com/NERSC/lustre-design-analysis/models"
)

type histogramRowJSON struct {
	BinSize int64            `json:"bin_size"`
	Counts  map[string]int64 `json:"counts"`
}

type probabilityRowJSON struct {
	BinSize int64              `json:"bin_size"`
	Mass    map[string]float64 `json:"mass"`
	Prob    map[string]float64 `json:"probability"`
}

type projectionRowJSON struct {
	BinSize int64                         `json:"bin_size"`
	Mass    map[string]float64            `json:"mass"`
	Counts  map[string]map[string]float64 `json:"counts"` // type -> convention
}

type residencyRowJSON struct {
	BinSize          int64   `json:"bin_size"`
	WholeFileBytes   float64 `json:"whole_file_bytes"`
	FirstStripeBytes float64 `json:"first_stripe_bytes"`
	NonFileBytes     float64 `json:"non_file_bytes"`
	TotalBytes       float64 `json:"total_bytes"`
	Threshold        bool    `json:"threshold"`
}

func (webapp *WebApp) renderJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// renderAnalysisError maps engine error kinds onto HTTP statuses.
func (webapp *WebApp) renderAnalysisError(w http.ResponseWriter, err error) {
	log.Printf("Analysis error: %v", err)
	switch {
	case errors.Is(err, app.ErrInvalidBinBoundaries),
		errors.Is(err, app.ErrUnderspecifiedCapacityTarget):
		webapp.renderError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrEmptyDistribution):
		webapp.renderError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		webapp.renderError(w, http.StatusInternalServerError, "")
	}
}

func (webapp *WebApp) histogram() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, _, err := app.LoadHistogram(webapp.AppConfig)
		if err != nil {
			webapp.renderAnalysisError(w, err)
			return
		}

		rows := make([]histogramRowJSON, h.Index.Len())
		for i := range rows {
			counts := make(map[string]int64)
			for _, typ := range h.Types() {
				counts[string(typ)] = h.Count(typ, i)
			}
			rows[i] = histogramRowJSON{BinSize: h.Index.Bin(i).ExtentMax, Counts: counts}
		}
		webapp.renderJSON(w, rows)
	}
}

func (webapp *WebApp) histogramCSV() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, _, err := app.LoadHistogram(webapp.AppConfig)
		if err != nil {
			webapp.renderAnalysisError(w, err)
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="histogram.csv"`)
		if err := h.WriteCSV(w); err != nil {
			log.Printf("Error writing histogram CSV: %v", err)
		}
	}
}

func (webapp *WebApp) probability() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, _, err := app.LoadHistogram(webapp.AppConfig)
		if err != nil {
			webapp.renderAnalysisError(w, err)
			return
		}
		dist, err := app.ComputeMassDistribution(h, webapp.AppConfig.FloorPerInodeBytes)
		if err != nil {
			webapp.renderAnalysisError(w, err)
			return
		}

		rows := make([]probabilityRowJSON, h.Index.Len())
		for i := range rows {
			mass := make(map[string]float64)
			prob := make(map[string]float64)
			for _, c := range app.Conventions() {
				mass[c.String()] = dist.FileMass[c][i]
				prob[c.String()] = dist.Probability[c][i]
			}
			rows[i] = probabilityRowJSON{BinSize: h.Index.Bin(i).ExtentMax, Mass: mass, Prob: prob}
		}
		webapp.renderJSON(w, rows)
	}
}

// targetOverride reads an optional ?capacity= query parameter overriding
// the configured rescaling target.
func (webapp *WebApp) configWithTarget(r *http.Request) (*models.AppConfig, error) {
	cfg := *webapp.AppConfig
	if raw := r.URL.Query().Get("capacity"); raw != "" {
		capacity, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, err
		}
		cfg.Projection.TargetCapacityBytes = capacity
	}
	return &cfg, nil
}

func (webapp *WebApp) projection() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := webapp.configWithTarget(r)
		if err != nil {
			webapp.renderError(w, http.StatusBadRequest, "invalid capacity parameter")
			return
		}
		if cfg.Projection.TargetCapacityBytes <= 0 {
			webapp.renderError(w, http.StatusBadRequest, "no target capacity configured; pass ?capacity=")
			return
		}

		analysis, err := app.RunAnalysis(cfg)
		if err != nil {
			webapp.renderAnalysisError(w, err)
			return
		}
		p := analysis.Projection

		rows := make([]projectionRowJSON, p.Index.Len())
		for i := range rows {
			mass := make(map[string]float64)
			fileCounts := make(map[string]float64)
			for _, c := range app.Conventions() {
				mass[c.String()] = p.Mass[c][i]
				fileCounts[c.String()] = p.FileCounts[c][i]
			}
			counts := map[string]map[string]float64{string(models.TypeFile): fileCounts}
			for typ, perConv := range p.TypeCounts {
				byConv := make(map[string]float64)
				for _, c := range app.Conventions() {
					byConv[c.String()] = perConv[c][i]
				}
				counts[string(typ)] = byConv
			}
			rows[i] = projectionRowJSON{BinSize: p.Index.Bin(i).ExtentMax, Mass: mass, Counts: counts}
		}
		webapp.renderJSON(w, rows)
	}
}

func (webapp *WebApp) residency() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := webapp.configWithTarget(r)
		if err != nil {
			webapp.renderError(w, http.StatusBadRequest, "invalid capacity parameter")
			return
		}
		if cfg.Projection.TargetCapacityBytes <= 0 {
			webapp.renderError(w, http.StatusBadRequest, "no target capacity configured; pass ?capacity=")
			return
		}

		convention := app.Average
		if raw := r.URL.Query().Get("convention"); raw != "" {
			convention, err = app.ParseConvention(raw)
			if err != nil {
				webapp.renderError(w, http.StatusBadRequest, err.Error())
				return
			}
		}

		analysis, err := app.RunAnalysis(cfg)
		if err != nil {
			webapp.renderAnalysisError(w, err)
			return
		}

		curve := app.MetadataResidency(analysis.Projection, convention)
		rows := make([]residencyRowJSON, len(curve))
		for i, pt := range curve {
			rows[i] = residencyRowJSON{
				BinSize:          pt.Bin.ExtentMax,
				WholeFileBytes:   pt.WholeFileBytes,
				FirstStripeBytes: pt.FirstStripeBytes,
				NonFileBytes:     pt.NonFileBytes,
				TotalBytes:       pt.TotalBytes,
				Threshold:        i == cfg.Projection.ResidencyThresholdBin,
			}
		}
		webapp.renderJSON(w, rows)
	}
}

func (webapp *WebApp) endurance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := webapp.configWithTarget(r)
		if err != nil {
			webapp.renderError(w, http.StatusBadRequest, "invalid capacity parameter")
			return
		}

		dwpd, err := app.RequiredDWPD(app.EnduranceInputFromConfig(cfg))
		if err != nil {
			webapp.renderAnalysisError(w, err)
			return
		}
		webapp.renderJSON(w, map[string]float64{"dwpd": dwpd})
	}
}
