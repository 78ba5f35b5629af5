package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/j-russo/chunking-visualizer/internal/chunker"
	"github.com/j-russo/chunking-visualizer/internal/samples"
)

type strategyInfo struct {
	Name     chunker.Strategy `json:"name"`
	Defaults chunker.Params   `json:"defaults"`
	Overlap  bool             `json:"supports_overlap"`
}

// handleStrategies lists the available strategies with their defaults.
func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	var out []strategyInfo
	for _, st := range chunker.Strategies() {
		out = append(out, strategyInfo{
			Name:     st,
			Defaults: chunker.DefaultParams(st),
			Overlap:  st == chunker.Characters,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"strategies": out})
}

func (s *Server) handleListSamples(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"default": samples.Default,
		"samples": samples.List(),
	})
}

func (s *Server) handleGetSample(w http.ResponseWriter, r *http.Request) {
	sample, err := samples.Get(chi.URLParam(r, "name"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sample)
}
