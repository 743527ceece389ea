package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/rlongio/bridgetech-utility/internal/elevator/service"
	"github.com/rlongio/bridgetech-utility/internal/elevator/types"
)

type Dependencies struct {
	Logger *log.Logger
	Addr   string
	Ingest *service.IngestService
	Stats  *service.StatsService
}

type Server struct {
	httpServer *http.Server
	logger     *log.Logger
	mux        *http.ServeMux
	ingest     *service.IngestService
	stats      *service.StatsService
}

func NewServer(d Dependencies) *Server {
	mux := http.NewServeMux()

	s := &Server{
		logger: d.Logger,
		mux:    mux,
		ingest: d.Ingest,
		stats:  d.Stats,
	}

	mux.HandleFunc("POST /v1/events", s.handleIngestEvent)
	mux.HandleFunc("GET /v1/stats/daily", s.handleDailyStats)
	mux.HandleFunc("GET /v1/healthz", s.handleHealthz)

	handler := loggingMiddleware(d.Logger, mux)

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIngestEvent(w http.ResponseWriter, r *http.Request) {
	var req types.IngestRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}

	resp, err := s.ingest.Record(r.Context(), req, "http")
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDeviceID):
			writeError(w, http.StatusBadRequest, "invalid_device_id", err.Error())
		case errors.Is(err, service.ErrInvalidEventType):
			writeError(w, http.StatusBadRequest, "invalid_event_type", err.Error())
		case errors.Is(err, service.ErrInvalidTimestamp):
			writeError(w, http.StatusBadRequest, "invalid_timestamp", err.Error())
		default:
			s.logger.Printf("ingest error: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// handleDailyStats serves GET /v1/stats/daily?from=YYYY-MM-DD&to=YYYY-MM-DD.
// Both bounds are optional, inclusive calendar dates over the events'
// observed timestamps.
func (s *Server) handleDailyStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var from, to time.Time
	if v := q.Get("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "from must be YYYY-MM-DD")
			return
		}
		from = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "to must be YYYY-MM-DD")
			return
		}
		// The store range is half-open; include the whole "to" day.
		to = t.AddDate(0, 0, 1)
	}

	days, err := s.stats.Daily(r.Context(), from, to)
	if err != nil {
		s.logger.Printf("stats error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		return
	}

	resp := types.DailyStatsResponse{
		Days:       make([]types.DailyStat, 0, len(days)),
		ServerTime: time.Now().UTC().Format(time.RFC3339Nano),
	}
	for _, d := range days {
		resp.Days = append(resp.Days, types.DailyStat{
			Date:      d.Date,
			AverageMs: d.Average.Milliseconds(),
			MedianMs:  d.Median.Milliseconds(),
			Samples:   d.Samples,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: code, Message: msg})
}
