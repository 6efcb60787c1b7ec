package gzippedhttp

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGzipResponseCompressesWhenAccepted(t *testing.T) {
	handler := GzipResponse(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>hello</body></html>"))
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Accept-Encoding", "gzip")
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	result := recorder.Result()
	defer result.Body.Close()

	require.Equal(t, "gzip", result.Header.Get("Content-Encoding"))

	zr, err := gzip.NewReader(result.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, "<html><body>hello</body></html>", string(body))
}

func TestGzipResponsePassthroughWithoutAcceptEncoding(t *testing.T) {
	handler := GzipResponse(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("plain"))
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	result := recorder.Result()
	defer result.Body.Close()

	assert.Empty(t, result.Header.Get("Content-Encoding"))
	body, err := io.ReadAll(result.Body)
	require.NoError(t, err)
	assert.Equal(t, "plain", string(body))
}
