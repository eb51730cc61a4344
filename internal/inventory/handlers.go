package inventory

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/meronic/iot-backend/internal/models"

	"github.com/gorilla/mux"
)

type HTTP struct{ repo *Repo }

func NewHTTP(r *Repo) *HTTP { return &HTTP{repo: r} }

func (h *HTTP) RegisterRoutes(r *mux.Router) {
	// device CRUD
	r.HandleFunc("/devices/", h.createDevice).Methods(http.MethodPost)
	r.HandleFunc("/devices/{device_id:[0-9]+}", h.updateDevice).Methods(http.MethodPut)
	r.HandleFunc("/devices/{device_id:[0-9]+}", h.deleteDevice).Methods(http.MethodDelete)

	// inventory listings
	r.HandleFunc("/devices/", h.listDevices).Methods(http.MethodGet)
	r.HandleFunc("/devices/{system_id:[0-9]+}", h.listBySystem).Methods(http.MethodGet)
}

func (h *HTTP) createDevice(w http.ResponseWriter, r *http.Request) {
	var in struct {
		SystemID     int     `json:"system_id"`
		DeviceName   string  `json:"device_name"`
		IPAddress    *string `json:"ip_address"`
		FacilityName *string `json:"facility_name"`
		Port         *int    `json:"port"`
		IsLora       bool    `json:"is_lora"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if in.SystemID == 0 || strings.TrimSpace(in.DeviceName) == "" {
		http.Error(w, "system_id and device_name are required", http.StatusBadRequest)
		return
	}

	d := &models.Device{
		SystemID:     in.SystemID,
		DeviceName:   in.DeviceName,
		IPAddress:    in.IPAddress,
		FacilityName: in.FacilityName,
		Port:         in.Port,
		IsLora:       in.IsLora,
	}
	id, err := h.repo.Create(d)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":      id,
		"message": "Device added successfully",
	})
}

func (h *HTTP) updateDevice(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["device_id"])

	var in struct {
		SystemID     *int    `json:"system_id"`
		DeviceName   *string `json:"device_name"`
		IPAddress    *string `json:"ip_address"`
		FacilityName *string `json:"facility_name"`
		Port         *int    `json:"port"`
		IsLora       *bool   `json:"is_lora"`
		IsUse        *bool   `json:"is_use"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := h.repo.Update(id, DevicePatch{
		SystemID:     in.SystemID,
		DeviceName:   in.DeviceName,
		IPAddress:    in.IPAddress,
		FacilityName: in.FacilityName,
		Port:         in.Port,
		IsLora:       in.IsLora,
		IsUse:        in.IsUse,
	})
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "Device not found", http.StatusNotFound)
		return
	case errors.Is(err, ErrNoFields):
		http.Error(w, "No fields to update", http.StatusBadRequest)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"message": fmt.Sprintf("Device %d updated successfully", id),
	})
}

func (h *HTTP) deleteDevice(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["device_id"])

	switch err := h.repo.Delete(id); {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "Device not found", http.StatusNotFound)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"message": fmt.Sprintf("Device %d deleted successfully", id),
	})
}

func (h *HTTP) listDevices(w http.ResponseWriter, _ *http.Request) {
	rows, err := h.repo.List()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// historical shape: system_name carries systems.description here
	devices := make([]map[string]any, 0, len(rows))
	for _, d := range rows {
		devices = append(devices, map[string]any{
			"system_id":     d.SystemID,
			"system_name":   d.Description,
			"device_name":   d.DeviceName,
			"facility_name": d.FacilityName,
			"ip":            d.IPAddress,
			"port":          d.Port,
			"is_lora":       d.IsLora,
			"is_use":        d.IsUse,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"total":   len(devices),
		"devices": devices,
	})
}

func (h *HTTP) listBySystem(w http.ResponseWriter, r *http.Request) {
	systemID, _ := strconv.Atoi(mux.Vars(r)["system_id"])

	rows, err := h.repo.ListBySystem(systemID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(rows) == 0 {
		http.Error(w, fmt.Sprintf("No devices found for system_id %d", systemID), http.StatusNotFound)
		return
	}

	devices := make([]map[string]any, 0, len(rows))
	for _, d := range rows {
		devices = append(devices, map[string]any{
			"system_id":          d.SystemID,
			"system_name":        d.SystemName,
			"system_description": d.Description,
			"device_name":        d.DeviceName,
			"facility_name":      d.FacilityName,
			"ip":                 d.IPAddress,
			"port":               d.Port,
			"is_lora":            d.IsLora,
			"is_use":             d.IsUse,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"total":   len(devices),
		"devices": devices,
	})
}
