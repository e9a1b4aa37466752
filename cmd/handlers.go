package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	geom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/urbanlab/settlement-cli/internal/export"
	"github.com/urbanlab/settlement-cli/internal/framework"
	"github.com/urbanlab/settlement-cli/internal/indicator"
	"github.com/urbanlab/settlement-cli/internal/store"
	"github.com/urbanlab/settlement-cli/internal/territory"
)

type apiServer struct {
	st store.Store

	mu     sync.RWMutex
	models map[string]*framework.Model
}

func newAPIServer(st store.Store) *apiServer {
	return &apiServer{st: st, models: make(map[string]*framework.Model)}
}

// model resolves a snapshot reference ("latest" or an ID) and returns its
// decoded framework model, cached per snapshot ID.
func (s *apiServer) model(r *http.Request, ref string) (*store.Snapshot, *framework.Model, error) {
	var (
		snap *store.Snapshot
		err  error
	)
	if ref == "" || ref == "latest" {
		snap, err = s.st.LatestSnapshot(r.Context(), cfg.Region)
	} else {
		snap, err = s.st.GetSnapshot(r.Context(), ref)
	}
	if err != nil {
		return nil, nil, err
	}

	s.mu.RLock()
	m, ok := s.models[snap.ID]
	s.mu.RUnlock()
	if ok {
		return snap, m, nil
	}

	m, err = framework.DecodeModel(snap.Payload)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	s.models[snap.ID] = m
	s.mu.Unlock()
	return snap, m, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// errStatus maps store lookup failures to 404, everything else to 500.
func errStatus(err error) int {
	if strings.Contains(err.Error(), "not found") {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *apiServer) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	snaps, err := s.st.ListSnapshots(r.Context(), store.SnapshotFilter{
		Region: r.URL.Query().Get("region"),
		Limit:  limit,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"snapshots": snaps})
}

func (s *apiServer) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, _, err := s.model(r, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *apiServer) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.st.DeleteSnapshot(r.Context(), id); err != nil {
		writeError(w, errStatus(err), err)
		return
	}

	s.mu.Lock()
	delete(s.models, id)
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *apiServer) handleGraphGeoJSON(w http.ResponseWriter, r *http.Request) {
	_, m, err := s.model(r, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	fc, err := framework.GraphFeatureCollection(m)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.serveGeoJSON(w, fc)
}

func (s *apiServer) handleAgglomerationsGeoJSON(w http.ResponseWriter, r *http.Request) {
	_, m, err := s.model(r, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	s.serveGeoJSON(w, framework.AgglomerationFeatureCollection(m))
}

func (s *apiServer) serveGeoJSON(w http.ResponseWriter, fc *geojson.FeatureCollection) {
	data, err := framework.MarshalGeoJSON(fc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck
}

func (s *apiServer) handleIndicators(w http.ResponseWriter, r *http.Request) {
	_, m, err := s.model(r, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}

	records, err := indicator.Report(m.Registry)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		if err := export.WriteIndicatorsCSV(w, records); err != nil {
			zap.L().Error("write indicators csv", zap.Error(err))
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"indicators": records})
}

func (s *apiServer) handleListEvaluations(w http.ResponseWriter, r *http.Request) {
	snap, _, err := s.model(r, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	evals, err := s.st.ListEvaluations(r.Context(), snap.ID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"evaluations": evals})
}

func (s *apiServer) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Geometry json.RawMessage `json:"geometry"`
		Save     bool            `json:"save"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, eris.New("invalid request body"))
		return
	}
	if len(req.Geometry) == 0 {
		writeError(w, http.StatusBadRequest, eris.New("geometry is required"))
		return
	}

	var g geom.T
	if err := geojson.Unmarshal(req.Geometry, &g); err != nil {
		writeError(w, http.StatusBadRequest, eris.Wrap(err, "parse geometry"))
		return
	}

	snap, m, err := s.model(r, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}

	score, err := territory.Evaluate(m, g)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	if req.Save {
		result, err := json.Marshal(score)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if _, err := s.st.CreateEvaluation(r.Context(), store.Evaluation{
			SnapshotID:    snap.ID,
			LocationScore: score.LocationScore,
			Result:        result,
		}); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, score)
}
