package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandforge/golden-circle/internal/common"
	"github.com/brandforge/golden-circle/internal/pipeline"
)

const validReply = `{"why":"We believe in craft.","how":"We prototype in the open.","what":"We make design tools."}`

// scriptedGenerator always returns the same reply (or error).
type scriptedGenerator struct {
	content string
	err     error
}

func (g *scriptedGenerator) Generate(context.Context, string, string) (string, error) {
	return g.content, g.err
}

func newTestService(gen *scriptedGenerator) *Service {
	pipe := pipeline.New(gen, common.PipelineConfig{
		MaxPromptChars:    24000,
		MaxRepairAttempts: 2,
	}, slog.Default())
	return New(pipe, common.ServerConfig{MaxUploadBytes: 1 << 20}, slog.Default())
}

func multipartUpload(t *testing.T, filename string, body []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	part, err := mw.CreateFormFile("interview_file", filename)
	require.NoError(t, err)
	_, err = part.Write(body)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func postInterview(t *testing.T, svc *Service, filename string, body []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	buf, contentType := multipartUpload(t, filename, body, fields)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/branding/create-from-interview", buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	svc.Routes().ServeHTTP(rec, req)
	return rec
}

func TestCreateFromInterviewSuccess(t *testing.T) {
	svc := newTestService(&scriptedGenerator{content: validReply})

	rec := postInterview(t, svc, "acme_interview.txt",
		[]byte("We started Acme because designers needed better tools."),
		map[string]string{"brand_name": "Acme"})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		BrandName    string `json:"brand_name"`
		GoldenCircle struct {
			Why  string `json:"why"`
			How  string `json:"how"`
			What string `json:"what"`
		} `json:"golden_circle"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Acme", resp.BrandName)
	assert.Equal(t, "We believe in craft.", resp.GoldenCircle.Why)
	assert.Equal(t, "We make design tools.", resp.GoldenCircle.What)
}

func TestCreateFromInterviewBrandNameFromFilename(t *testing.T) {
	svc := newTestService(&scriptedGenerator{content: validReply})

	rec := postInterview(t, svc, "blue_harbor_interview.md",
		[]byte("# Interview\n\nWe believe coastal towns deserve better coffee."), nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		BrandName string `json:"brand_name"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Blue Harbor", resp.BrandName)
}

func TestCreateFromInterviewUnsupportedExtension(t *testing.T) {
	svc := newTestService(&scriptedGenerator{content: validReply})

	rec := postInterview(t, svc, "interview.docx", []byte("text"), nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp struct {
		Error struct {
			Kind string `json:"kind"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(common.KindUnsupportedFormat), resp.Error.Kind)
}

func TestCreateFromInterviewEmptyFile(t *testing.T) {
	svc := newTestService(&scriptedGenerator{content: validReply})

	rec := postInterview(t, svc, "empty.txt", nil, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp struct {
		Error struct {
			Kind string `json:"kind"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(common.KindCorruptDocument), resp.Error.Kind)
}

func TestCreateFromInterviewMissingFile(t *testing.T) {
	svc := newTestService(&scriptedGenerator{content: validReply})

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	require.NoError(t, mw.WriteField("brand_name", "Acme"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/branding/create-from-interview", buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	svc.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateFromInterviewModelUnavailable(t *testing.T) {
	svc := newTestService(&scriptedGenerator{
		err: common.Errorf(common.KindModelUnavailable, "connection refused"),
	})

	rec := postInterview(t, svc, "acme.txt", []byte("We started Acme to fix scheduling."), nil)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var resp struct {
		Error struct {
			Kind    string `json:"kind"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(common.KindModelUnavailable), resp.Error.Kind)
	assert.Equal(t, "connection refused", resp.Error.Message)
}

func TestCreateFromInterviewExhaustion(t *testing.T) {
	// Every reply is missing a field, so the repair loop runs out of attempts.
	svc := newTestService(&scriptedGenerator{content: `{"why":"purpose","how":"process"}`})

	rec := postInterview(t, svc, "acme.txt", []byte("We started Acme to fix scheduling."), nil)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var resp struct {
		Error struct {
			Kind    string `json:"kind"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(common.KindExtractionExhausted), resp.Error.Kind)
	assert.Contains(t, resp.Error.Message, "field 'what' was missing")
}

func TestHealth(t *testing.T) {
	svc := newTestService(&scriptedGenerator{content: validReply})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/branding/health", nil)
	rec := httptest.NewRecorder()
	svc.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
}

func TestSupportedFormats(t *testing.T) {
	svc := newTestService(&scriptedGenerator{content: validReply})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/branding/supported-formats", nil)
	rec := httptest.NewRecorder()
	svc.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		SupportedFormats []struct {
			Extension string `json:"extension"`
		} `json:"supported_formats"`
		MaxFileSizeBytes int64 `json:"max_file_size_bytes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.SupportedFormats, 3)
	assert.Equal(t, int64(1<<20), resp.MaxFileSizeBytes)
}

func TestFormatFromUpload(t *testing.T) {
	tests := []struct {
		filename    string
		contentType string
		wantFormat  string
		wantErr     bool
	}{
		{"notes.txt", "", "text", false},
		{"notes.md", "", "markdown", false},
		{"notes.PDF", "", "pdf", false},
		{"notes.docx", "", "", true},
		{"noext", "text/plain", "text", false},
		{"noext", "application/pdf", "pdf", false},
		{"noext", "", "", false}, // sniffed downstream
	}
	for _, tt := range tests {
		f, err := formatFromUpload(tt.filename, tt.contentType)
		if tt.wantErr {
			assert.Error(t, err, tt.filename)
			continue
		}
		require.NoError(t, err, tt.filename)
		assert.Equal(t, tt.wantFormat, string(f), tt.filename)
	}
}

func TestBrandNameFromFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"acme_interview.txt", "Acme"},
		{"blue-harbor-interview.md", "Blue Harbor"},
		{"northwind.pdf", "Northwind"},
		{"two_word_brand.txt", "Two Word Brand"},
		{"UPPER.txt", "UPPER"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BrandNameFromFilename(tt.in), tt.in)
	}
}
