package health

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// RegisterRoutes — баннер сервиса без БД.
func RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", banner).Methods(http.MethodGet)
}

// RegisterRoutesWithDB — баннер + /health с проверкой соединения.
func RegisterRoutesWithDB(r *mux.Router, db *gorm.DB) {
	r.HandleFunc("/", banner).Methods(http.MethodGet)
	r.HandleFunc("/health", check(db)).Methods(http.MethodGet)
}

func banner(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"message": "IoT Device Management API",
		"status":  "running",
	})
}

// check выполняет SELECT 1; ошибка БД не валит запрос, а отдаётся строкой.
func check(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if err := db.Exec("SELECT 1").Error; err != nil {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status":   "error",
				"database": err.Error(),
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":   "ok",
			"database": "connected",
		})
	}
}
