// Package server exposes the extraction pipeline over HTTP. It is a thin
// collaborator: every request crosses into the pipeline through a single
// function-call boundary.
package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/brandforge/golden-circle/constants"
	"github.com/brandforge/golden-circle/internal/common"
	"github.com/brandforge/golden-circle/internal/llm"
	"github.com/brandforge/golden-circle/internal/pipeline"
)

// Service holds the HTTP handlers for the branding routes.
type Service struct {
	pipe           *pipeline.Pipeline
	maxUploadBytes int64
	logger         *slog.Logger
}

func New(pipe *pipeline.Pipeline, cfg common.ServerConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		pipe:           pipe,
		maxUploadBytes: cfg.MaxUploadBytes,
		logger:         logger,
	}
}

// Routes mounts the branding API.
func (s *Service) Routes() chi.Router {
	r := chi.NewRouter()
	r.Route("/api/v1/branding", func(r chi.Router) {
		r.Post("/create-from-interview", s.createFromInterview)
		r.Get("/health", s.health)
		r.Get("/supported-formats", s.supportedFormats)
	})
	return r
}

type goldenCircleResponse struct {
	BrandName    string           `json:"brand_name"`
	GoldenCircle llm.GoldenCircle `json:"golden_circle"`
	Truncated    bool             `json:"truncated,omitempty"`
}

type errorBody struct {
	Kind    common.Kind `json:"kind"`
	Message string      `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// createFromInterview accepts a multipart interview upload and returns the
// Golden Circle analysis.
func (s *Service) createFromInterview(w http.ResponseWriter, r *http.Request) {
	rid := uuid.New().String()
	ctx := common.WithRequestID(r.Context(), rid)
	logger := s.logger.With("req_id", rid)

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		s.writeError(w, logger, common.NewPipelineError(common.KindInvalidInput, "invalid multipart form", err))
		return
	}

	file, header, err := r.FormFile("interview_file")
	if err != nil {
		s.writeError(w, logger, common.NewPipelineError(common.KindInvalidInput, "no file provided", err))
		return
	}
	defer file.Close()

	docBytes, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, logger, common.NewPipelineError(common.KindInvalidInput, "reading upload", err))
		return
	}

	format, err := formatFromUpload(header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		s.writeError(w, logger, err)
		return
	}

	brandName := strings.TrimSpace(r.FormValue("brand_name"))
	if brandName == "" {
		brandName = BrandNameFromFilename(header.Filename)
	}

	result, err := s.pipe.ProduceGoldenCircle(ctx, docBytes, format, brandName)
	if err != nil {
		s.writeError(w, logger, err)
		return
	}

	s.writeJSON(w, http.StatusOK, goldenCircleResponse{
		BrandName:    result.BrandName,
		GoldenCircle: result.GoldenCircle,
		Truncated:    result.Truncated,
	})
}

func (s *Service) health(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "branding",
	})
}

func (s *Service) supportedFormats(w http.ResponseWriter, _ *http.Request) {
	type formatInfo struct {
		Extension   string `json:"extension"`
		MIMEType    string `json:"mime_type"`
		Description string `json:"description"`
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"supported_formats": []formatInfo{
			{Extension: ".txt", MIMEType: "text/plain", Description: "Plain text documents"},
			{Extension: ".md", MIMEType: "text/markdown", Description: "Markdown documents"},
			{Extension: ".pdf", MIMEType: "application/pdf", Description: "PDF documents"},
		},
		"max_file_size_bytes": s.maxUploadBytes,
		"encoding":            "UTF-8",
	})
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("server.write_response_error", "error", err)
	}
}

func (s *Service) writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	kind := common.KindOf(err)
	status := common.HTTPStatus(kind)
	logger.Error("server.request_failed", "kind", kind, "status", status, "error", err)
	s.writeJSON(w, status, errorResponse{Error: errorBody{
		Kind:    kind,
		Message: common.MessageOf(err),
	}})
}

// formatFromUpload resolves the declared format from the filename extension,
// falling back to the part's Content-Type.
func formatFromUpload(filename, contentType string) (constants.Format, error) {
	if ext := filepath.Ext(filename); ext != "" {
		if f, ok := constants.FormatForExtension(ext); ok {
			return f, nil
		}
		return "", common.Errorf(common.KindUnsupportedFormat, "unsupported file extension: %q", ext)
	}
	if f, ok := constants.FormatForContentType(contentType); ok {
		return f, nil
	}
	// No extension and no usable content type: let the loader sniff.
	return "", nil
}

// BrandNameFromFilename extracts a brand name from an upload filename,
// removing the extension and cleaning up common interview-file patterns.
func BrandNameFromFilename(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.TrimSuffix(base, "_interview")
	base = strings.TrimSuffix(base, "-interview")
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.ReplaceAll(base, "-", " ")
	return titleCase(strings.TrimSpace(base))
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 {
			words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
		}
	}
	return strings.Join(words, " ")
}
