package middleware

import (
	"context"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/meronic/iot-backend/internal/logs"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const RequestIDHeader = "X-Request-ID"

type ctxKey int

const requestIDKey ctxKey = iota

// RequestID — берёт id из заголовка или генерирует новый.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logs.Logger.Errorf("panic: %v\n%s", rec, debug.Stack())
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// LoggerMW — access-лог: одна строка на запрос.
func LoggerMW(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		logs.Logger.WithFields(logrus.Fields{
			"request_id": GetRequestID(r.Context()),
			"remote":     r.RemoteAddr,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     sw.Status(),
			"duration":   time.Since(start).String(),
		}).Info("http request")
	})
}

// ProcessTime — заголовок X-Process-Time (секунды, 4 знака), как у
// старого сервиса. Ставится при первой записи ответа.
func ProcessTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, stampStart: time.Now(), stamp: true}
		next.ServeHTTP(sw, r)
	})
}

// CORS — полностью открытый, совместимость с существующими фронтами.
// Оборачивает роутер целиком, чтобы заголовки были и на 404/405.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "*")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusWriter запоминает код ответа; при stamp=true дописывает
// X-Process-Time до первой записи заголовков.
type statusWriter struct {
	http.ResponseWriter
	status     int
	wrote      bool
	stamp      bool
	stampStart time.Time
}

func (sw *statusWriter) WriteHeader(code int) {
	if !sw.wrote {
		if sw.stamp {
			elapsed := time.Since(sw.stampStart).Seconds()
			sw.Header().Set("X-Process-Time", strconv.FormatFloat(elapsed, 'f', 4, 64))
		}
		sw.status = code
		sw.wrote = true
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	if !sw.wrote {
		sw.WriteHeader(http.StatusOK)
	}
	return sw.ResponseWriter.Write(b)
}

func (sw *statusWriter) Status() int {
	if sw.status == 0 {
		return http.StatusOK
	}
	return sw.status
}
