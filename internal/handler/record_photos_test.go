package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crbservicos/field-api/internal/repository"
)

// newUploadContext builds a multipart request with the given phase and one
// part per entry of files (name -> content).
func newUploadContext(t *testing.T, target, phase string, files [][2]string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if phase != "" {
		require.NoError(t, w.WriteField("phase", phase))
	}
	for _, f := range files {
		part, err := w.CreateFormFile("files", f[0])
		require.NoError(t, err)
		_, err = part.Write([]byte(f[1]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func seedOpenRecord(t *testing.T, records *fakeRecordStore) repository.Record {
	t.Helper()
	r := repository.Record{OperatorID: 1, ServiceType: "Mowing", StartTime: time.Now().UTC()}
	require.NoError(t, records.Create(context.Background(), &r))
	return r
}

func TestUploadPhotosAppendsInOrder(t *testing.T) {
	h, records, _ := newRecordFixture(t)
	seedOpenRecord(t, records)

	// Existing BEFORE photos must survive the append.
	_, err := records.AppendPhotos(context.Background(), 1, repository.PhaseBefore, []string{"/uploads/existing.jpg"})
	require.NoError(t, err)

	c, rec := newUploadContext(t, "/api/records/1/photos", "BEFORE",
		[][2]string{{"a.jpg", "aaa"}, {"b.png", "bbb"}})
	setParamID(c, "1")
	require.NoError(t, h.UploadPhotos(c))
	requireStatus(t, rec, http.StatusOK)

	var resp map[string]any
	decodeBody(t, rec, &resp)
	before := resp["beforePhotos"].([]any)
	require.Len(t, before, 3)
	assert.Equal(t, "/uploads/existing.jpg", before[0])
	assert.True(t, strings.HasSuffix(before[1].(string), ".jpg"))
	assert.True(t, strings.HasSuffix(before[2].(string), ".png"))
	assert.Empty(t, resp["afterPhotos"])

	// The files landed on disk under their generated names.
	for _, url := range before[1:] {
		name := strings.TrimPrefix(url.(string), "/uploads/")
		_, err := os.Stat(filepath.Join(h.UploadDir, name))
		assert.NoError(t, err)
	}
}

func TestUploadPhotosAfterPhase(t *testing.T) {
	h, records, _ := newRecordFixture(t)
	seedOpenRecord(t, records)

	c, rec := newUploadContext(t, "/api/records/1/photos", "AFTER",
		[][2]string{{"done.jpg", "x"}})
	setParamID(c, "1")
	require.NoError(t, h.UploadPhotos(c))
	requireStatus(t, rec, http.StatusOK)

	var resp map[string]any
	decodeBody(t, rec, &resp)
	assert.Len(t, resp["afterPhotos"], 1)
	assert.Empty(t, resp["beforePhotos"])
}

func TestUploadPhotosInvalidPhase(t *testing.T) {
	h, records, _ := newRecordFixture(t)
	seedOpenRecord(t, records)

	c, rec := newUploadContext(t, "/api/records/1/photos", "DURING",
		[][2]string{{"a.jpg", "x"}})
	setParamID(c, "1")
	require.NoError(t, h.UploadPhotos(c))
	requireStatus(t, rec, http.StatusBadRequest)

	// The record must be untouched.
	stored, err := records.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, stored.BeforePhotos)
	assert.Empty(t, stored.AfterPhotos)
}

func TestUploadPhotosNoFiles(t *testing.T) {
	h, records, _ := newRecordFixture(t)
	seedOpenRecord(t, records)

	c, rec := newUploadContext(t, "/api/records/1/photos", "BEFORE", nil)
	setParamID(c, "1")
	require.NoError(t, h.UploadPhotos(c))
	requireStatus(t, rec, http.StatusBadRequest)
}

func TestUploadPhotosRecordNotFound(t *testing.T) {
	h, _, _ := newRecordFixture(t)

	c, rec := newUploadContext(t, "/api/records/9/photos", "BEFORE",
		[][2]string{{"a.jpg", "x"}})
	setParamID(c, "9")
	require.NoError(t, h.UploadPhotos(c))
	requireStatus(t, rec, http.StatusNotFound)
}
