package webapp

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/NERSC/lustre-design-analysis/models"
	_ "modernc.org/sqlite"
)

// setupTestWebApp creates a WebApp over a small Robinhood-style dump.
func setupTestWebApp(t *testing.T) *WebApp {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "fsplan_web_test_*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}

	schema := `
		CREATE TABLE entries (
			id TEXT PRIMARY KEY,
			parent_id TEXT,
			size INTEGER,
			type TEXT
		);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		t.Fatalf("failed to create schema: %v", err)
	}

	inodes := []struct {
		id   string
		size int64
		typ  string
	}{
		{"0x1", 0, "dir"},
		{"0x2", 3, "file"},
		{"0x3", 3, "file"},
		{"0x4", 6, "file"},
		{"0x5", 12, "symlink"},
	}
	for _, inode := range inodes {
		if _, err := db.Exec(`INSERT INTO entries(id, parent_id, size, type) VALUES (?, '0x1', ?, ?)`,
			inode.id, inode.size, inode.typ); err != nil {
			db.Close()
			t.Fatalf("failed to insert inode: %v", err)
		}
	}
	db.Close()

	webapp := &WebApp{
		AppConfig: &models.AppConfig{
			Database:           dbPath,
			BinBoundaries:      []int64{2, 4, 8, 16},
			FloorPerInodeBytes: 4096,
			Projection: models.ProjectionConfig{
				TargetCapacityBytes: 24,
			},
		},
	}
	webapp.Router = webapp.GetRouter()
	return webapp
}

func get(t *testing.T, webapp *WebApp, url string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	webapp.Router.ServeHTTP(rec, req)
	return rec
}

func TestHistogramHandler(t *testing.T) {
	webapp := setupTestWebApp(t)

	rec := get(t, webapp, "/api/histogram")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}

	var rows []histogramRowJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}

	t.Run("file counts per bin", func(t *testing.T) {
		want := []int64{0, 2, 1, 0}
		for i, w := range want {
			if got := rows[i].Counts["file"]; got != w {
				t.Errorf("bin %d: %d files, want %d", i, got, w)
			}
		}
	})

	t.Run("bin sizes ascend", func(t *testing.T) {
		for i := 1; i < len(rows); i++ {
			if rows[i].BinSize <= rows[i-1].BinSize {
				t.Errorf("bin sizes not ascending at row %d", i)
			}
		}
	})
}

func TestHistogramCSVHandler(t *testing.T) {
	webapp := setupTestWebApp(t)

	rec := get(t, webapp, "/api/histogram.csv")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content type %q, want text/csv", ct)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d CSV lines, want header + 4 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "bin_size,") {
		t.Errorf("unexpected CSV header %q", lines[0])
	}
}

func TestProbabilityHandler(t *testing.T) {
	webapp := setupTestWebApp(t)

	rec := get(t, webapp, "/api/probability")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}

	var rows []probabilityRowJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	var sum float64
	for _, row := range rows {
		sum += row.Prob["average"]
	}
	if sum < 0.999999 || sum > 1.000001 {
		t.Errorf("average probabilities sum to %v, want 1", sum)
	}
}

func TestProjectionHandler(t *testing.T) {
	webapp := setupTestWebApp(t)

	t.Run("configured target", func(t *testing.T) {
		rec := get(t, webapp, "/api/projection")
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d, want 200", rec.Code)
		}

		var rows []projectionRowJSON
		if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		// Target 24 doubles the reference mass: 4 and 2 files.
		if got := rows[1].Counts["file"]["average"]; got != 4 {
			t.Errorf("bin 1: %v projected files, want 4", got)
		}
		if got := rows[2].Counts["file"]["average"]; got != 2 {
			t.Errorf("bin 2: %v projected files, want 2", got)
		}
	})

	t.Run("capacity override", func(t *testing.T) {
		rec := get(t, webapp, "/api/projection?capacity=12")
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d, want 200", rec.Code)
		}

		var rows []projectionRowJSON
		if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got := rows[1].Counts["file"]["average"]; got != 2 {
			t.Errorf("bin 1: %v projected files, want 2", got)
		}
	})

	t.Run("bad capacity", func(t *testing.T) {
		rec := get(t, webapp, "/api/projection?capacity=bogus")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status %d, want 400", rec.Code)
		}
	})

	t.Run("no target at all", func(t *testing.T) {
		stripped := *webapp.AppConfig
		stripped.Projection.TargetCapacityBytes = 0
		noTarget := &WebApp{AppConfig: &stripped}
		noTarget.Router = noTarget.GetRouter()

		rec := get(t, noTarget, "/api/projection")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status %d, want 400", rec.Code)
		}
	})
}

func TestResidencyHandler(t *testing.T) {
	webapp := setupTestWebApp(t)

	rec := get(t, webapp, "/api/residency?convention=average")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}

	var rows []residencyRowJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}

	t.Run("whole-file bytes cumulative", func(t *testing.T) {
		for i := 1; i < len(rows); i++ {
			if rows[i].WholeFileBytes < rows[i-1].WholeFileBytes {
				t.Errorf("whole-file bytes decreased at row %d", i)
			}
		}
	})

	t.Run("unknown convention rejected", func(t *testing.T) {
		rec := get(t, webapp, "/api/residency?convention=median")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status %d, want 400", rec.Code)
		}
	})
}

func TestEnduranceHandler(t *testing.T) {
	webapp := setupTestWebApp(t)
	webapp.AppConfig.Endurance = models.EnduranceConfig{
		SSI:            3,
		FSWritesPerDay: 0.05,
		WAF:            2.5,
		Reference:      models.SystemProfileConfig{Drives: 10, DriveCapacityBytes: 100},
		New:            models.SystemProfileConfig{Drives: 4, DriveCapacityBytes: 1000},
	}

	rec := get(t, webapp, "/api/endurance")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}

	var payload map[string]float64
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if dwpd := payload["dwpd"]; dwpd < 0.09374 || dwpd > 0.09376 {
		t.Errorf("dwpd %v, want 0.09375", dwpd)
	}

	t.Run("underspecified input rejected", func(t *testing.T) {
		stripped := *webapp.AppConfig
		stripped.Endurance.Reference = models.SystemProfileConfig{}
		broken := &WebApp{AppConfig: &stripped}
		broken.Router = broken.GetRouter()

		rec := get(t, broken, "/api/endurance")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status %d, want 400", rec.Code)
		}
	})
}

func TestNotFound(t *testing.T) {
	webapp := setupTestWebApp(t)

	rec := get(t, webapp, "/api/unknown")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", rec.Code)
	}

	var payload errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("error payload not JSON: %v", err)
	}
	if payload.Code != http.StatusNotFound {
		t.Errorf("payload code %d, want 404", payload.Code)
	}
}
