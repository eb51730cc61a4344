package middleware

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{}`))
}

func TestProcessTimeHeaderFormat(t *testing.T) {
	r := mux.NewRouter()
	r.Use(ProcessTime)
	r.HandleFunc("/x", func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(5 * time.Millisecond)
		okHandler(w, nil)
	}).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	got := rec.Header().Get("X-Process-Time")
	require.Regexp(t, regexp.MustCompile(`^\d+\.\d{4}$`), got)
}

func TestProcessTimeOnErrorResponses(t *testing.T) {
	r := mux.NewRouter()
	r.Use(ProcessTime)
	r.HandleFunc("/x", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadRequest)
	}).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Process-Time"))
}

func TestRequestIDGeneratedAndEchoed(t *testing.T) {
	r := mux.NewRouter()
	r.Use(RequestID)
	var seen string
	r.HandleFunc("/x", func(w http.ResponseWriter, req *http.Request) {
		seen = GetRequestID(req.Context())
		okHandler(w, req)
	}).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.NotEmpty(t, seen)
	require.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	// caller-supplied id wins
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "trace-123")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, "trace-123", seen)
}

func TestRecovererTurnsPanicInto500(t *testing.T) {
	r := mux.NewRouter()
	r.Use(Recoverer)
	r.HandleFunc("/x", func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCORSOpenAndPreflight(t *testing.T) {
	h := CORS(http.HandlerFunc(okHandler))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Methods"))
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Headers"))

	// preflight never reaches the router
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/x", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
