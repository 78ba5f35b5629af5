package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/j-russo/chunking-visualizer/internal/chunker"
	"github.com/j-russo/chunking-visualizer/internal/metrics"
	"github.com/j-russo/chunking-visualizer/internal/pipeline"
	"golang.org/x/sync/errgroup"
)

type chunkRequest struct {
	Text     string `json:"text"`
	Strategy string `json:"strategy" validate:"required"`
	Size     int    `json:"size" validate:"gte=0"`
	Overlap  int    `json:"overlap" validate:"gte=0"`
}

type compareRequest struct {
	Text    string `json:"text"`
	Size    int    `json:"size" validate:"gte=0"`
	Overlap int    `json:"overlap" validate:"gte=0"`
}

// chunkView is a chunk as rendered to clients.
type chunkView struct {
	Index  int    `json:"index"`
	Text   string `json:"text"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Size   int    `json:"size"`
	Tokens int    `json:"tokens"`
}

type chunkResponse struct {
	Title      string           `json:"title,omitempty"`
	Strategy   chunker.Strategy `json:"strategy"`
	Params     chunker.Params   `json:"params"`
	Chunks     []chunkView      `json:"chunks"`
	Metrics    metrics.Summary  `json:"metrics"`
	Efficiency int              `json:"efficiency"`
}

func newChunkResponse(a *pipeline.Analysis) *chunkResponse {
	views := make([]chunkView, len(a.Chunks))
	for i, c := range a.Chunks {
		views[i] = chunkView{
			Index:  i,
			Text:   c.Text,
			Start:  c.Start,
			End:    c.End,
			Size:   c.Len(),
			Tokens: chunker.EstimateTokens(c.Text),
		}
	}
	return &chunkResponse{
		Strategy:   a.Strategy,
		Params:     a.Params,
		Chunks:     views,
		Metrics:    a.Metrics,
		Efficiency: a.Efficiency,
	}
}

// handleChunk splits the posted text with one strategy.
func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request) {
	var req chunkRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	strategy, err := chunker.ParseStrategy(req.Strategy)
	if err != nil {
		chunkError(w, err)
		return
	}
	params := chunker.Params{Size: req.Size, Overlap: req.Overlap}.WithDefaults(strategy)

	a, err := pipeline.Analyze(s.rec, strategy, req.Text, params)
	if err != nil {
		chunkError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(newChunkResponse(a))
}

// handleCompare runs every strategy over the same text. Overlap is only
// forwarded to the characters strategy.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	strategies := chunker.Strategies()
	results := make([]*chunkResponse, len(strategies))

	g, _ := errgroup.WithContext(r.Context())
	for i, st := range strategies {
		params := chunker.Params{Size: req.Size}
		if st == chunker.Characters {
			params.Overlap = req.Overlap
		}
		params = params.WithDefaults(st)
		g.Go(func() error {
			a, err := pipeline.Analyze(s.rec, st, req.Text, params)
			if err != nil {
				return fmt.Errorf("%s: %w", st, err)
			}
			results[i] = newChunkResponse(a)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		chunkError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"results": results})
}

// decodeJSON reads a size-limited JSON body into v and validates it. It
// writes the error response itself and reports whether to continue.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	// Allow JSON overhead on top of the text limit.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxTextBytes+64*1024)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("request exceeds max size (%d bytes)", s.cfg.MaxTextBytes), http.StatusRequestEntityTooLarge)
			return false
		}
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		jsonError(w, validationMessage(err), http.StatusBadRequest)
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be >= %s", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

// chunkError maps chunker errors to HTTP status codes.
func chunkError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chunker.ErrInvalidParams), errors.Is(err, chunker.ErrUnknownStrategy):
		jsonError(w, err.Error(), http.StatusBadRequest)
	default:
		jsonError(w, err.Error(), http.StatusInternalServerError)
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
