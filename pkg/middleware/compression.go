package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Pool of gzip writers to reduce allocations
var gzipWriterPool = sync.Pool{
	New: func() interface{} {
		w, _ := gzip.NewWriterLevel(io.Discard, gzip.DefaultCompression)
		return w
	},
}

// gzipResponseWriter decides on the first write, once the handler has set
// Content-Type, whether the body is compressed.
type gzipResponseWriter struct {
	http.ResponseWriter
	gzipWriter *gzip.Writer
	statusCode int
	decided    bool
	compress   bool
}

func (w *gzipResponseWriter) decide() {
	if w.decided {
		return
	}
	w.decided = true

	h := w.ResponseWriter.Header()
	if h.Get("Content-Encoding") == "" && CompressibleContentType(h.Get("Content-Type")) {
		w.compress = true
		h.Set("Content-Encoding", "gzip")
		h.Add("Vary", "Accept-Encoding")
		h.Del("Content-Length")
	}
}

func (w *gzipResponseWriter) WriteHeader(statusCode int) {
	w.decide()
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	if !w.decided {
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", http.DetectContentType(b))
		}
		w.decide()
	}
	if w.statusCode == 0 {
		w.statusCode = http.StatusOK
	}
	if !w.compress {
		return w.ResponseWriter.Write(b)
	}
	return w.gzipWriter.Write(b)
}

// GzipHandler compresses compressible responses (JSON, text) for clients
// that accept gzip. Images and already encoded bodies pass through.
func GzipHandler(level int, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
				next.ServeHTTP(w, r)
				return
			}

			var gz *gzip.Writer
			pooled := level == gzip.DefaultCompression
			if pooled {
				gz = gzipWriterPool.Get().(*gzip.Writer)
				gz.Reset(w)
			} else {
				var err error
				gz, err = gzip.NewWriterLevel(w, level)
				if err != nil {
					next.ServeHTTP(w, r)
					return
				}
			}

			gzipW := &gzipResponseWriter{
				ResponseWriter: w,
				gzipWriter:     gz,
			}

			next.ServeHTTP(gzipW, r)

			if gzipW.compress {
				_ = gz.Close()
				if logger != nil {
					logger.Debug("Response compressed",
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.Int("status", gzipW.statusCode),
					)
				}
			}
			if pooled {
				gz.Reset(io.Discard)
				gzipWriterPool.Put(gz)
			}
		})
	}
}

// CompressibleContentType returns true if content type should be compressed
func CompressibleContentType(contentType string) bool {
	compressible := []string{
		"text/",
		"application/json",
		"application/xml",
	}

	for _, prefix := range compressible {
		if strings.HasPrefix(contentType, prefix) {
			return true
		}
	}

	return false
}
