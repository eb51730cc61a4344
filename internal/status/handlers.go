package status

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

type HTTP struct{ repo *Repo }

func NewHTTP(r *Repo) *HTTP { return &HTTP{repo: r} }

func (h *HTTP) RegisterRoutes(r *mux.Router) {
	// latest per-device status
	r.HandleFunc("/last", h.latestAll).Methods(http.MethodGet)
	r.HandleFunc("/last/{system_id:[0-9]+}", h.latestBySystem).Methods(http.MethodGet)
	r.HandleFunc("/ip", h.ipDevices).Methods(http.MethodGet)
	r.HandleFunc("/lora", h.loraDevices).Methods(http.MethodGet)

	// active/inactive aggregation
	r.HandleFunc("/check", h.fleetCheck).Methods(http.MethodGet)
	r.HandleFunc("/check/{system_id:[0-9]+}", h.systemCheck).Methods(http.MethodGet)

	// history snapshots
	r.HandleFunc("/time", h.updateTime).Methods(http.MethodGet)
	r.HandleFunc("/device-history", h.history).Methods(http.MethodGet)
}

func (h *HTTP) latestAll(w http.ResponseWriter, _ *http.Request) {
	rows, err := h.repo.LatestAll()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	devices := make([]map[string]any, 0, len(rows))
	for _, d := range rows {
		devices = append(devices, map[string]any{
			"device_name":    d.DeviceName,
			"system_id":      d.SystemID,
			"system_name":    d.SystemName,
			"ip_address":     d.IPAddress,
			"is_lora":        d.IsLora,
			"ping_status":    d.PingStatus,
			"ssh_status":     d.SSHStatus,
			"last_data_time": d.LastDataTime,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"count":   len(devices),
		"devices": devices,
	})
}

// latestBySystem отдаёт голый массив строк — так исторически сложилось.
func (h *HTTP) latestBySystem(w http.ResponseWriter, r *http.Request) {
	systemID, _ := strconv.Atoi(mux.Vars(r)["system_id"])

	rows, err := h.repo.LatestBySystem(systemID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if rows == nil {
		rows = []StatusRow{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rows)
}

func (h *HTTP) ipDevices(w http.ResponseWriter, _ *http.Request) {
	rows, err := h.repo.IPDevices()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	devices := make([]map[string]any, 0, len(rows))
	for _, d := range rows {
		devices = append(devices, map[string]any{
			"device_name":   d.DeviceName,
			"facility_name": d.FacilityName,
			"system_name":   d.SystemName,
			"description":   d.Description,
			"ip":            d.IPAddress,
			"ping_status":   d.PingStatus,
			"ssh_status":    d.SSHStatus,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"total":   len(devices),
		"devices": devices,
	})
}

func (h *HTTP) loraDevices(w http.ResponseWriter, _ *http.Request) {
	rows, err := h.repo.LoraDevices()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// LoRa endpoints carry telemetry recency only, no ping/ssh
	devices := make([]map[string]any, 0, len(rows))
	for _, d := range rows {
		devices = append(devices, map[string]any{
			"device_name":    d.DeviceName,
			"facility_name":  d.FacilityName,
			"system_name":    d.SystemName,
			"description":    d.Description,
			"last_data_time": d.LastDataTime,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"total":   len(devices),
		"devices": devices,
	})
}

func (h *HTTP) fleetCheck(w http.ResponseWriter, _ *http.Request) {
	sum, err := h.repo.FleetCheck()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(sum)
}

func (h *HTTP) systemCheck(w http.ResponseWriter, r *http.Request) {
	systemID, _ := strconv.Atoi(mux.Vars(r)["system_id"])

	rep, err := h.repo.SystemCheck(systemID)
	switch {
	case errors.Is(err, ErrSystemNotFound):
		http.Error(w, fmt.Sprintf("System with ID %d not found", systemID), http.StatusNotFound)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rep)
}

func (h *HTTP) updateTime(w http.ResponseWriter, _ *http.Request) {
	last, err := h.repo.LastHistory()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var updateTime any
	if last != nil {
		updateTime = last.CheckedAt
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"update_time": updateTime,
	})
}

func (h *HTTP) history(w http.ResponseWriter, _ *http.Request) {
	rows, err := h.repo.History()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"total":   len(rows),
		"history": rows,
	})
}
