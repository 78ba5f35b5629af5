package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/j-russo/chunking-visualizer/internal/chunker"
	"github.com/j-russo/chunking-visualizer/internal/parser"
	"github.com/j-russo/chunking-visualizer/internal/pipeline"
)

// handleChunkFile parses an uploaded document and chunks its text in the
// request.
func (s *Server) handleChunkFile(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	strategy, params, err := formParams(r)
	if err != nil {
		chunkError(w, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	data, ok := s.readUpload(w, file)
	if !ok {
		return
	}

	tree, err := parser.ParseBytes(data, filename, s.parserOptions())
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnsupportedMediaType)
		return
	}
	text := tree.Text()
	if err := pipeline.CheckTextSize(text, s.cfg.MaxTextBytes); err != nil {
		jsonError(w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	}

	a, err := pipeline.Analyze(s.rec, strategy, text, params)
	if err != nil {
		chunkError(w, err)
		return
	}

	resp := newChunkResponse(a)
	resp.Title = tree.Title
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// handleSubmitJobs queues every uploaded file as an asynchronous chunking
// job. Per-file failures are reported inline.
func (s *Server) handleSubmitJobs(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	strategy, params, err := formParams(r)
	if err != nil {
		chunkError(w, err)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	var results []map[string]any
	for _, fh := range files {
		filename := sanitizeFilename(fh.Filename)

		data, err := s.readFileHeader(fh)
		if err != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    err.Error(),
			})
			continue
		}

		job := pipeline.NewJob(filename, strategy, params, data)
		if err := s.orchestrator.Submit(job); err != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"job_id":   job.ID,
				"error":    err.Error(),
			})
			continue
		}

		results = append(results, map[string]any{
			"filename": filename,
			"job_id":   job.ID,
			"status":   pipeline.StatusQueued,
			"poll_url": fmt.Sprintf("/api/jobs/%s", job.ID),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{"jobs": results})
}

type jobResponse struct {
	pipeline.JobSnapshot
	Result *chunkResponse `json:"result,omitempty"`
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}

	resp := jobResponse{JobSnapshot: job.Snapshot()}
	if resp.JobSnapshot.Result != nil {
		resp.Result = newChunkResponse(resp.JobSnapshot.Result)
		resp.Result.Title = resp.Title
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// formParams reads strategy, size and overlap form values. A missing size
// falls back to the strategy default. Invalid combinations are rejected here
// so batch uploads fail before any job is queued.
func formParams(r *http.Request) (chunker.Strategy, chunker.Params, error) {
	strategy, err := chunker.ParseStrategy(r.FormValue("strategy"))
	if err != nil {
		return "", chunker.Params{}, err
	}
	var p chunker.Params
	if p.Size, err = formInt(r, "size"); err != nil {
		return "", chunker.Params{}, err
	}
	if p.Overlap, err = formInt(r, "overlap"); err != nil {
		return "", chunker.Params{}, err
	}
	p = p.WithDefaults(strategy)
	if err := p.Validate(strategy); err != nil {
		return "", chunker.Params{}, err
	}
	return strategy, p, nil
}

func formInt(r *http.Request, key string) (int, error) {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", chunker.ErrInvalidParams, key, v)
	}
	return n, nil
}

// readUpload reads at most MaxUploadBytes, writing 413 when exceeded.
func (s *Server) readUpload(w http.ResponseWriter, file io.Reader) ([]byte, bool) {
	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return nil, false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return nil, false
	}
	return data, true
}

var errFileTooLarge = errors.New("file too large")

func (s *Server) readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, errors.New("failed to open file")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("%w: max %d bytes", errFileTooLarge, s.cfg.MaxUploadBytes)
	}
	return data, nil
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
