package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/samistat08/ro-process-dashboard/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrSiteNotFound) {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.writeError(w, http.StatusBadRequest, err.Error())
}

// parseTimestamp accepts RFC 3339 timestamps or bare dates. A bare date used
// as the end of a range covers the whole day.
func parseTimestamp(value string, endOfDay bool) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: expected RFC 3339 or YYYY-MM-DD", value)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	q := r.URL.Query()
	start, err = parseTimestamp(q.Get("start"), false)
	if err != nil {
		return
	}
	end, err = parseTimestamp(q.Get("end"), true)
	if err != nil {
		return
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		err = fmt.Errorf("end %s precedes start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return
}

func parseList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseFilter(r *http.Request) (store.FilterOptions, error) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		return store.FilterOptions{}, err
	}
	return store.FilterOptions{
		SiteIDs: parseList(r.URL.Query().Get("sites")),
		Start:   start,
		End:     end,
	}, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"readings": s.service.ReadingCount(r.Context()),
	})
}

func (s *Server) handleSites(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.service.Sites(r.Context()))
}

func (s *Server) handleReadings(w http.ResponseWriter, r *http.Request) {
	opts, err := parseFilter(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	readings := s.service.Readings(r.Context(), opts)
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(readings),
		"readings": readings,
	})
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	siteID := mux.Vars(r)["id"]
	reading, err := s.service.Latest(r.Context(), siteID)
	if err != nil {
		s.handleServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, reading)
}

func (s *Server) handleKPIs(w http.ResponseWriter, r *http.Request) {
	siteID := mux.Vars(r)["id"]
	start, end, err := parseTimeRange(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	kpis, err := s.service.KPIs(r.Context(), siteID, start, end)
	if err != nil {
		s.handleServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, kpis)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	siteID := mux.Vars(r)["id"]
	start, end, err := parseTimeRange(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summaries, err := s.service.Stats(r.Context(), siteID, parseList(r.URL.Query().Get("metrics")), start, end)
	if err != nil {
		s.handleServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"site_id": siteID,
		"stats":   summaries,
	})
}

func (s *Server) handleCorrelation(w http.ResponseWriter, r *http.Request) {
	siteID := mux.Vars(r)["id"]
	start, end, err := parseTimeRange(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	matrix, err := s.service.Correlation(r.Context(), siteID, parseList(r.URL.Query().Get("metrics")), start, end)
	if err != nil {
		s.handleServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, matrix)
}

func (s *Server) handleMaintenance(w http.ResponseWriter, r *http.Request) {
	siteID := mux.Vars(r)["id"]
	forecast, err := s.service.Maintenance(r.Context(), siteID)
	if err != nil {
		s.handleServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, forecast)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	opts, err := parseFilter(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	filename := fmt.Sprintf("ro_readings_%s.csv", time.Now().UTC().Format("20060102T150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := s.service.ExportCSV(r.Context(), opts, w); err != nil {
		s.logger.Error("csv export failed", zap.Error(err))
	}
}
