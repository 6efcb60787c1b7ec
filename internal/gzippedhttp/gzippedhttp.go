// Package gzippedhttp compresses HTTP responses for clients that
// advertise gzip support.
package gzippedhttp

import (
	"compress/gzip"
	"net/http"
	"strings"
	"sync"
)

// CompressedHTTPResponseWriter wraps http.ResponseWriter and compresses
// the response body using gzip.
type CompressedHTTPResponseWriter struct {
	w  http.ResponseWriter
	zw *gzip.Writer
}

// NewCompressedHTTPResponseWriter returns a writer that gzip-compresses
// everything written to the underlying http.ResponseWriter.
// The Content-Encoding header is set up front: most handlers never call
// WriteHeader explicitly, and headers are frozen at the first Write.
func NewCompressedHTTPResponseWriter(w http.ResponseWriter) *CompressedHTTPResponseWriter {
	zw := gzipWriterPool.Get().(*gzip.Writer)
	zw.Reset(w)
	w.Header().Set("Content-Encoding", "gzip")
	return &CompressedHTTPResponseWriter{
		w:  w,
		zw: zw,
	}
}

// Close flushes the compressed stream and returns the writer to the pool.
func (c *CompressedHTTPResponseWriter) Close() error {
	err := c.zw.Close()
	if err != nil {
		return err
	}
	gzipWriterPool.Put(c.zw)
	return nil
}

// WriteHeader sets the HTTP status code for the response.
func (c *CompressedHTTPResponseWriter) WriteHeader(statusCode int) {
	c.w.WriteHeader(statusCode)
}

// Write writes gzip-compressed data to the response body.
func (c *CompressedHTTPResponseWriter) Write(p []byte) (int, error) {
	return c.zw.Write(p)
}

// Header returns the HTTP headers associated with the response.
func (c *CompressedHTTPResponseWriter) Header() http.Header {
	return c.w.Header()
}

var gzipWriterPool = sync.Pool{
	New: func() interface{} {
		w, _ := gzip.NewWriterLevel(nil, gzip.BestSpeed)
		return w
	},
}

// GzipResponse decides per request whether the response should be
// compressed, based on the Accept-Encoding header.
func GzipResponse(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		finalResponse := response

		acceptEncoding := request.Header.Get("Accept-Encoding")
		if strings.Contains(acceptEncoding, "gzip") {
			responseWithCompression := NewCompressedHTTPResponseWriter(response)
			finalResponse = responseWithCompression
			defer responseWithCompression.Close()
		}

		h.ServeHTTP(finalResponse, request)
	}

	return http.HandlerFunc(middleware)
}
