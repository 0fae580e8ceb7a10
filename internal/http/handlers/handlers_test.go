package handlers

import (
	"bytes"
	"image"
	"image/color"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jktools/mediatools/internal/config"
	"github.com/jktools/mediatools/internal/services/converter"
	"github.com/jktools/mediatools/internal/services/pdf"
	"github.com/jktools/mediatools/internal/services/resizer"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	conv := converter.New(logger)
	res := resizer.New(logger, conv)
	builder := pdf.NewBuilder(logger)

	cfg := &config.Config{
		Storage: config.StorageConfig{
			MaxFileSize: 10 * 1024 * 1024,
			ScratchDir:  t.TempDir(),
		},
	}

	h := NewMediaHandler(conv, res, builder, nil, nil, logger, cfg)

	router := gin.New()
	api := router.Group("/api")
	api.GET("/health", h.HealthCheck)
	api.GET("/version", h.Version)
	api.POST("/image-convert", h.ConvertImage)
	api.POST("/image-resize", h.ResizeImage)
	api.POST("/image-thumbnail", h.ThumbnailImage)
	api.POST("/image-to-pdf", h.ImagesToPDF)
	api.POST("/pdf-merge", h.MergePDFs)
	api.POST("/text-to-pdf", h.TextToPDF)
	api.POST("/jobs/convert", h.EnqueueConvert)
	return router
}

func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := imaging.New(width, height, color.NRGBA{R: 25, G: 50, B: 75, A: 255})
	buf := &bytes.Buffer{}
	require.NoError(t, imaging.Encode(buf, img, imaging.PNG))
	return buf.Bytes()
}

type filePart struct {
	field    string
	filename string
	data     []byte
}

func multipartRequest(t *testing.T, url string, files []filePart, fields map[string]string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for _, f := range files {
		fw, err := w.CreateFormFile(f.field, f.filename)
		require.NoError(t, err)
		_, err = fw.Write(f.data)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, url, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestConvertImageEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := multipartRequest(t, "/api/image-convert",
		[]filePart{{field: "file", filename: "in.png", data: testPNG(t, 40, 30)}},
		map[string]string{"target_format": "jpeg", "quality": "90"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))

	img, name, err := image.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", name)
	assert.Equal(t, 40, img.Bounds().Dx())
}

func TestConvertImageEndpointBadFormat(t *testing.T) {
	router := newTestRouter(t)

	req := multipartRequest(t, "/api/image-convert",
		[]filePart{{field: "file", filename: "in.png", data: testPNG(t, 10, 10)}},
		map[string]string{"target_format": "heic"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsupported image format")
}

func TestConvertImageEndpointMissingFile(t *testing.T) {
	router := newTestRouter(t)

	req := multipartRequest(t, "/api/image-convert", nil,
		map[string]string{"target_format": "png"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResizeImageEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := multipartRequest(t, "/api/image-resize",
		[]filePart{{field: "file", filename: "in.png", data: testPNG(t, 800, 600)}},
		map[string]string{"width": "400", "height": "400", "format": "png"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	img, _, err := image.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())
}

func TestResizeImageEndpointMissingDimensions(t *testing.T) {
	router := newTestRouter(t)

	req := multipartRequest(t, "/api/image-resize",
		[]filePart{{field: "file", filename: "in.png", data: testPNG(t, 10, 10)}},
		nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestThumbnailEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := multipartRequest(t, "/api/image-thumbnail",
		[]filePart{{field: "file", filename: "in.png", data: testPNG(t, 600, 300)}},
		nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	img, name, err := image.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", name)
	assert.Equal(t, 150, img.Bounds().Dx())
	assert.Equal(t, 75, img.Bounds().Dy())
}

func TestImagesToPDFEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := multipartRequest(t, "/api/image-to-pdf",
		[]filePart{
			{field: "files", filename: "a.png", data: testPNG(t, 100, 100)},
			{field: "files", filename: "b.png", data: testPNG(t, 200, 100)},
		},
		map[string]string{"page_size": "A4", "compression_level": "1"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))

	payload, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}

func TestImagesToPDFEndpointNoFiles(t *testing.T) {
	router := newTestRouter(t)

	req := multipartRequest(t, "/api/image-to-pdf", nil,
		map[string]string{"page_size": "A4"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTextToPDFEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := multipartRequest(t, "/api/text-to-pdf", nil,
		map[string]string{"text": "hello\nworld"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
}

func TestTextToPDFEndpointEmpty(t *testing.T) {
	router := newTestRouter(t)

	req := multipartRequest(t, "/api/text-to-pdf", nil, map[string]string{"text": ""})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestEnqueueConvertUnavailable(t *testing.T) {
	router := newTestRouter(t)

	req := multipartRequest(t, "/api/jobs/convert", nil,
		map[string]string{"source_url": "http://example.org/x.png", "target_format": "png"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// Backends not configured count as healthy for liveness purposes.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "not configured")
}

func TestVersionEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), serviceVersion)
}
