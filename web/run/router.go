package webapp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func router(webapp *WebApp) http.Handler {
	r := chi.NewRouter()

	r.Get("/api/histogram", webapp.histogram())
	r.Get("/api/histogram.csv", webapp.histogramCSV())
	r.Get("/api/probability", webapp.probability())
	r.Get("/api/projection", webapp.projection())
	r.Get("/api/residency", webapp.residency())
	r.Get("/api/endurance", webapp.endurance())

	r.NotFound(webapp.notFoundHandler())

	return r
}
