// Package respond writes the responses the router produces on its own: RFC
// 9457 problem details for unmatched routes and recovered panics, and
// redirects to a route's canonical path.
package respond

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"slices"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/fxamacker/cbor/v2"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	applog "github.com/janisto/greeting-service/internal/platform/logging"
)

const (
	contentTypeProblemJSON = "application/problem+json"
	contentTypeProblemCBOR = "application/problem+cbor"

	detailNotFound = "resource not found"
	detailInternal = "internal server error"
)

// candidateMethods are tried, in this order, when building an Allow header.
var candidateMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
}

// NotFoundHandler answers requests no route matched. A path that differs from
// a registered route only by a trailing slash is redirected (307) to that
// route, keeping the query string. Anything else is a 404 problem.
func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if target, ok := slashRedirectTarget(r); ok {
			WriteRedirect(w, r, target, http.StatusTemporaryRedirect)
			return
		}
		writeProblem(w, r, http.StatusNotFound, detailNotFound)
	}
}

// MethodNotAllowedHandler answers requests whose path matched but whose method
// did not. The Allow header lists the methods the path supports.
func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if allowed := allowedMethods(r); len(allowed) > 0 {
			w.Header().Set("Allow", strings.Join(allowed, ", "))
		}
		writeProblem(w, r, http.StatusMethodNotAllowed, fmt.Sprintf("method %s not allowed", r.Method))
	}
}

// Recoverer turns a handler panic into a logged 500 problem response. If the
// handler already started the response it is left as is. http.ErrAbortHandler
// is re-panicked so net/http can abort the connection.
func Recoverer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &responseWriter{ResponseWriter: w}
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				applog.LogError(r.Context(), "panic recovered", panicError(rec),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.ByteString("stack", debug.Stack()),
				)
				if rw.wroteHeader {
					return
				}
				writeProblem(rw, r, http.StatusInternalServerError, detailInternal)
			}()
			next.ServeHTTP(rw, r)
		})
	}
}

// WriteRedirect sends the client to location with the given 3xx status code.
func WriteRedirect(w http.ResponseWriter, r *http.Request, location string, code int) {
	applog.LoggerFromContext(r.Context()).Debug("redirecting",
		zap.String("from", r.URL.Path),
		zap.String("location", location),
		zap.Int("status", code),
	)
	http.Redirect(w, r, location, code)
}

func panicError(rec any) error {
	if err, ok := rec.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", rec)
}

// writeProblem encodes an RFC 9457 problem as JSON, or CBOR when the client
// prefers it.
func writeProblem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	problem := &huma.ErrorModel{
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}

	contentType := contentTypeProblemJSON
	var (
		body []byte
		err  error
	)
	if selectFormat(r.Header.Get("Accept")) {
		contentType = contentTypeProblemCBOR
		body, err = cbor.Marshal(problem)
	} else {
		body, err = marshalJSON(problem)
	}
	if err != nil {
		applog.LogError(r.Context(), "encode problem response", err, zap.Int("status", status))
		http.Error(w, http.StatusText(status), status)
		return
	}

	h := w.Header()
	ensureVary(h, "Origin", "Accept")
	h.Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		applog.LogWarn(r.Context(), "write problem response", zap.Error(err))
	}
}

func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return buf.Bytes(), nil
}

// routePath returns the path chi routes on for r.
func routePath(r *http.Request, rctx *chi.Context) string {
	path := rctx.RoutePath
	if path == "" {
		if r.URL.RawPath != "" {
			path = r.URL.RawPath
		} else {
			path = r.URL.Path
		}
	}
	if path == "" {
		path = "/"
	}
	return path
}

// allowedMethods returns the methods registered for the request path, or nil
// when the request was not routed by chi.
func allowedMethods(r *http.Request) []string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.Routes == nil {
		return nil
	}
	return matchingMethods(rctx.Routes, routePath(r, rctx))
}

// matchingMethods checks routes for every candidate method on path. GET
// routes also answer HEAD through chi's GetHead middleware, so HEAD is listed
// next to GET.
func matchingMethods(routes chi.Routes, path string) []string {
	var allowed []string
	for _, m := range candidateMethods {
		if routes.Match(chi.NewRouteContext(), m, path) {
			allowed = append(allowed, m)
		}
	}
	if i := slices.Index(allowed, http.MethodGet); i >= 0 && !slices.Contains(allowed, http.MethodHead) {
		allowed = slices.Insert(allowed, i+1, http.MethodHead)
	}
	return allowed
}

// slashRedirectTarget returns the request path with its trailing slash
// toggled, plus the query string, when that path is routed for some method.
func slashRedirectTarget(r *http.Request) (string, bool) {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.Routes == nil {
		return "", false
	}
	path := routePath(r, rctx)
	if path == "/" {
		return "", false
	}

	alt := path + "/"
	if strings.HasSuffix(path, "/") {
		alt = strings.TrimSuffix(path, "/")
	}
	// "//host" would be read by clients as a protocol-relative URL.
	if alt == "" || strings.HasPrefix(alt, "//") {
		return "", false
	}
	if len(matchingMethods(rctx.Routes, alt)) == 0 {
		return "", false
	}
	if r.URL.RawQuery != "" {
		alt += "?" + r.URL.RawQuery
	}
	return alt, true
}

// responseWriter records whether the response has started.
type responseWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *responseWriter) WriteHeader(code int) {
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
