package uploads

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return NewHandler(nil, store)
}

func multipartBody(t *testing.T, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUpload(t *testing.T) {
	t.Run("stores a pdf and returns its reference", func(t *testing.T) {
		h := newTestHandler(t)
		body, contentType := multipartBody(t, "recibo.pdf", "application/pdf", []byte("%PDF-1.4 fake"))

		req := httptest.NewRequest(http.MethodPost, "/uploads", body)
		req.Header.Set("Content-Type", contentType)
		res := httptest.NewRecorder()
		h.Upload(res, req)

		require.Equal(t, http.StatusCreated, res.Code)
		var stored StoredFile
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &stored))
		assert.NotEmpty(t, stored.Ref)
		assert.Equal(t, "recibo.pdf", stored.OriginalName)
		assert.Equal(t, int64(13), stored.SizeBytes)

		// Reference never leaks the original name.
		assert.NotContains(t, stored.Ref, "recibo")
	})

	t.Run("rejects disallowed content type", func(t *testing.T) {
		h := newTestHandler(t)
		body, contentType := multipartBody(t, "run.sh", "application/x-sh", []byte("#!/bin/sh"))

		req := httptest.NewRequest(http.MethodPost, "/uploads", body)
		req.Header.Set("Content-Type", contentType)
		res := httptest.NewRecorder()
		h.Upload(res, req)

		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("rejects missing file field", func(t *testing.T) {
		h := newTestHandler(t)
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		require.NoError(t, writer.WriteField("other", "x"))
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, "/uploads", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		res := httptest.NewRecorder()
		h.Upload(res, req)

		assert.Equal(t, http.StatusBadRequest, res.Code)
	})
}

func TestServe(t *testing.T) {
	h := newTestHandler(t)
	body, contentType := multipartBody(t, "foto.png", "image/png", []byte("png-bytes"))

	req := httptest.NewRequest(http.MethodPost, "/uploads", body)
	req.Header.Set("Content-Type", contentType)
	res := httptest.NewRecorder()
	h.Upload(res, req)
	require.Equal(t, http.StatusCreated, res.Code)

	var stored StoredFile
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &stored))

	r := chi.NewRouter()
	r.Get("/uploads/{ref}", h.Serve)

	t.Run("serves a stored file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/uploads/"+stored.Ref, nil)
		res := httptest.NewRecorder()
		r.ServeHTTP(res, req)
		assert.Equal(t, http.StatusOK, res.Code)
		assert.Equal(t, "png-bytes", res.Body.String())
	})

	t.Run("unknown reference", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/uploads/no-such-ref.png", nil)
		res := httptest.NewRecorder()
		r.ServeHTTP(res, req)
		assert.Equal(t, http.StatusNotFound, res.Code)
	})
}

func TestStorePathRejectsTraversal(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	for _, ref := range []string{"../etc/passwd", "a/b.png", `a\b.png`, ""} {
		_, err := store.Path(ref)
		assert.Error(t, err, ref)
	}
}
