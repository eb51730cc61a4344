package status

import (
	"errors"
	"time"

	"github.com/meronic/iot-backend/internal/models"

	"gorm.io/gorm"
)

// Policy constants, not configuration: the active/inactive threshold and
// the history chart window.
const (
	activeWindow  = 5 * 24 * time.Hour
	historyWindow = 3 * 24 * time.Hour
)

var ErrSystemNotFound = errors.New("system not found")

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

// StatusRow — устройство + последний статус (LEFT JOIN, строки статуса
// может не быть вовсе).
type StatusRow struct {
	DeviceID     int        `gorm:"column:device_id" json:"device_id"`
	DeviceName   string     `gorm:"column:device_name" json:"device_name"`
	SystemID     int        `gorm:"column:system_id" json:"system_id"`
	SystemName   string     `gorm:"column:system_name" json:"system_name"`
	IPAddress    *string    `gorm:"column:ip_address" json:"ip_address"`
	IsLora       bool       `gorm:"column:is_lora" json:"is_lora"`
	PingStatus   *string    `gorm:"column:ping_status" json:"ping_status"`
	SSHStatus    *string    `gorm:"column:ssh_status" json:"ssh_status"`
	LastDataTime *time.Time `gorm:"column:last_data_time" json:"last_data_time"`
}

func (r *Repo) latest() *gorm.DB {
	return r.db.Table("devices d").
		Select(`d.id AS device_id, d.device_name, d.system_id, s.name AS system_name,
			d.ip_address, d.is_lora, ds.ping_status, ds.ssh_status, ds.last_data_time`).
		Joins("JOIN systems s ON d.system_id = s.id").
		Joins("LEFT JOIN device_status ds ON d.id = ds.device_id").
		Order("d.id")
}

func (r *Repo) LatestAll() ([]StatusRow, error) {
	var out []StatusRow
	if err := r.latest().Scan(&out).Error; err != nil {
		return nil, err
	}
	maskLoraRows(out)
	return out, nil
}

func (r *Repo) LatestBySystem(systemID int) ([]StatusRow, error) {
	var out []StatusRow
	if err := r.latest().Where("d.system_id = ?", systemID).Scan(&out).Error; err != nil {
		return nil, err
	}
	maskLoraRows(out)
	return out, nil
}

// maskLoraRows — у LoRa-устройств ip/ping/ssh лишены смысла, всегда NULL
// в ответах, что бы ни лежало в таблицах.
func maskLoraRows(rows []StatusRow) {
	for i := range rows {
		if rows[i].IsLora {
			rows[i].IPAddress = nil
			rows[i].PingStatus = nil
			rows[i].SSHStatus = nil
		}
	}
}

// FacilityRow — строка для /ip и /lora (с описанием площадки).
type FacilityRow struct {
	DeviceName   string     `gorm:"column:device_name"`
	FacilityName *string    `gorm:"column:facility_name"`
	SystemName   string     `gorm:"column:system_name"`
	Description  string     `gorm:"column:description"`
	IPAddress    *string    `gorm:"column:ip_address"`
	PingStatus   *string    `gorm:"column:ping_status"`
	SSHStatus    *string    `gorm:"column:ssh_status"`
	LastDataTime *time.Time `gorm:"column:last_data_time"`
}

func (r *Repo) facilities() *gorm.DB {
	return r.db.Table("devices d").
		Select(`d.device_name, d.facility_name, s.name AS system_name, s.description,
			d.ip_address, ds.ping_status, ds.ssh_status, ds.last_data_time`).
		Joins("JOIN systems s ON d.system_id = s.id").
		Joins("LEFT JOIN device_status ds ON d.id = ds.device_id").
		Order("d.id")
}

// IPDevices — устройства на IP-связи. LoRa сюда не попадают, даже если
// в devices остался старый адрес.
func (r *Repo) IPDevices() ([]FacilityRow, error) {
	var out []FacilityRow
	err := r.facilities().
		Where("d.ip_address IS NOT NULL AND d.is_lora = ?", false).
		Scan(&out).Error
	return out, err
}

func (r *Repo) LoraDevices() ([]FacilityRow, error) {
	var out []FacilityRow
	err := r.facilities().Where("d.is_lora = ?", true).Scan(&out).Error
	return out, err
}

// SystemSummary — сводка по одной системе внутри /check.
type SystemSummary struct {
	SystemID           int    `gorm:"column:system_id" json:"system_id"`
	SystemName         string `gorm:"column:system_name" json:"system_name"`
	Description        string `gorm:"column:description" json:"description"`
	SystemTotalDevices int    `gorm:"column:system_total_devices" json:"system_total_devices"`
	ActiveDevices      int    `gorm:"column:active_devices" json:"active_devices"`
	InactiveDevices    int    `gorm:"column:inactive_devices" json:"inactive_devices"`
}

type FleetSummary struct {
	TotalDevices    int             `json:"total_devices"`
	ActiveDevices   int             `json:"active_devices"`
	InactiveDevices int             `json:"inactive_devices"`
	Systems         []SystemSummary `json:"systems"`
}

// FleetCheck — общие счётчики + разбивка по системам. Устройство активно,
// если последняя телеметрия не старше activeWindow; без строки статуса
// (или с NULL last_data_time) — неактивно.
func (r *Repo) FleetCheck() (*FleetSummary, error) {
	cutoff := time.Now().Add(-activeWindow)

	var total int64
	if err := r.db.Model(&models.Device{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var active int64
	if err := r.db.Table("devices d").
		Joins("LEFT JOIN device_status ds ON ds.device_id = d.id").
		Where("ds.last_data_time IS NOT NULL AND ds.last_data_time >= ?", cutoff).
		Distinct("d.id").
		Count(&active).Error; err != nil {
		return nil, err
	}

	systems := make([]SystemSummary, 0)
	if err := r.db.Table("systems s").
		Select(`s.id AS system_id, s.name AS system_name, s.description,
			COUNT(DISTINCT d.id) AS system_total_devices,
			COUNT(DISTINCT CASE WHEN ds.last_data_time >= ? THEN d.id END) AS active_devices,
			COUNT(DISTINCT CASE WHEN ds.last_data_time IS NULL OR ds.last_data_time < ? THEN d.id END) AS inactive_devices`,
			cutoff, cutoff).
		Joins("LEFT JOIN devices d ON s.id = d.system_id").
		Joins("LEFT JOIN device_status ds ON d.id = ds.device_id").
		Group("s.id, s.name, s.description").
		Order("s.id").
		Scan(&systems).Error; err != nil {
		return nil, err
	}

	return &FleetSummary{
		TotalDevices:    int(total),
		ActiveDevices:   int(active),
		InactiveDevices: int(total) - int(active),
		Systems:         systems,
	}, nil
}

// StatusDetail — позиция в active/inactive списках /check/{system_id}.
type StatusDetail struct {
	DeviceID     int        `gorm:"column:device_id" json:"device_id"`
	DeviceName   string     `gorm:"column:device_name" json:"device_name"`
	FacilityName *string    `gorm:"column:facility_name" json:"facility_name"`
	IPAddress    *string    `gorm:"column:ip_address" json:"ip_address"`
	Port         *int       `gorm:"column:port" json:"port"`
	IsLora       bool       `gorm:"column:is_lora" json:"is_lora"`
	LastDataTime *time.Time `gorm:"column:last_data_time" json:"last_data_time"`
	PingStatus   *string    `gorm:"column:ping_status" json:"ping_status"`
	SSHStatus    *string    `gorm:"column:ssh_status" json:"ssh_status"`
}

type SystemReport struct {
	SystemID        int            `json:"system_id"`
	SystemName      string         `json:"system_name"`
	TotalDevices    int            `json:"total_devices"`
	ActiveDevices   int            `json:"active_devices"`
	InactiveDevices int            `json:"inactive_devices"`
	InactiveList    []StatusDetail `json:"inactive_device_list"`
	ActiveList      []StatusDetail `json:"active_device_list"`
}

func (r *Repo) details(systemID int) *gorm.DB {
	return r.db.Table("devices d").
		Select(`d.id AS device_id, d.device_name, d.facility_name, d.ip_address,
			d.port, d.is_lora, ds.last_data_time, ds.ping_status, ds.ssh_status`).
		Joins("LEFT JOIN device_status ds ON ds.device_id = d.id").
		Where("d.system_id = ?", systemID).
		Order("d.id")
}

// SystemCheck — счётчики + полные списки active/inactive устройств
// одной системы. inactive = total - active по построению.
func (r *Repo) SystemCheck(systemID int) (*SystemReport, error) {
	var sys models.System
	if err := r.db.First(&sys, systemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSystemNotFound
		}
		return nil, err
	}

	cutoff := time.Now().Add(-activeWindow)

	var total int64
	if err := r.db.Model(&models.Device{}).Where("system_id = ?", systemID).Count(&total).Error; err != nil {
		return nil, err
	}

	active := make([]StatusDetail, 0)
	if err := r.details(systemID).
		Where("ds.last_data_time IS NOT NULL AND ds.last_data_time >= ?", cutoff).
		Scan(&active).Error; err != nil {
		return nil, err
	}

	inactive := make([]StatusDetail, 0)
	if err := r.details(systemID).
		Where("ds.last_data_time IS NULL OR ds.last_data_time < ?", cutoff).
		Scan(&inactive).Error; err != nil {
		return nil, err
	}

	maskLoraDetails(active)
	maskLoraDetails(inactive)

	return &SystemReport{
		SystemID:        sys.ID,
		SystemName:      sys.Description, // historical: UI expects description here
		TotalDevices:    int(total),
		ActiveDevices:   len(active),
		InactiveDevices: int(total) - len(active),
		ActiveList:      active,
		InactiveList:    inactive,
	}, nil
}

func maskLoraDetails(rows []StatusDetail) {
	for i := range rows {
		if rows[i].IsLora {
			rows[i].IPAddress = nil
			rows[i].PingStatus = nil
			rows[i].SSHStatus = nil
		}
	}
}

// LastHistory — самый свежий снапшот; nil без ошибки, если истории нет.
func (r *Repo) LastHistory() (*models.DeviceStatusHistory, error) {
	var h models.DeviceStatusHistory
	if err := r.db.Order("checked_at DESC").First(&h).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &h, nil
}

// History — снапшоты за последние historyWindow, по возрастанию времени.
func (r *Repo) History() ([]models.DeviceStatusHistory, error) {
	cutoff := time.Now().Add(-historyWindow)
	out := make([]models.DeviceStatusHistory, 0)
	err := r.db.Where("checked_at >= ?", cutoff).Order("checked_at ASC").Find(&out).Error
	return out, err
}
