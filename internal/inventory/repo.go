package inventory

import (
	"errors"
	"strings"

	"github.com/meronic/iot-backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("device not found")
	ErrNoFields = errors.New("no fields to update")
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

// normalizeIP: пустая/пробельная строка эквивалентна отсутствию адреса.
func normalizeIP(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

// Create — вставка устройства, возвращает сгенерированный id.
// Ошибки ограничений (например, неизвестный system_id) отдаём как есть.
func (r *Repo) Create(d *models.Device) (int, error) {
	d.IPAddress = normalizeIP(d.IPAddress)
	if err := r.db.Create(d).Error; err != nil {
		return 0, err
	}
	return d.ID, nil
}

// DevicePatch — tri-state частичное обновление: nil = поле не передано.
// Нулевые значения (port=0, is_lora=false) при этом остаются валидными,
// а ip_address="" явно сбрасывает адрес в NULL.
type DevicePatch struct {
	SystemID     *int
	DeviceName   *string
	IPAddress    *string
	FacilityName *string
	Port         *int
	IsLora       *bool
	IsUse        *bool
}

func (p DevicePatch) assignments() map[string]any {
	set := map[string]any{}
	if p.SystemID != nil {
		set["system_id"] = *p.SystemID
	}
	if p.DeviceName != nil {
		set["device_name"] = *p.DeviceName
	}
	if p.IPAddress != nil {
		set["ip_address"] = normalizeIP(p.IPAddress)
	}
	if p.FacilityName != nil {
		set["facility_name"] = *p.FacilityName
	}
	if p.Port != nil {
		set["port"] = *p.Port
	}
	if p.IsLora != nil {
		set["is_lora"] = *p.IsLora
	}
	if p.IsUse != nil {
		set["is_use"] = *p.IsUse
	}
	return set
}

func (r *Repo) Update(id int, p DevicePatch) error {
	var d models.Device
	if err := r.db.Select("id").First(&d, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	set := p.assignments()
	if len(set) == 0 {
		return ErrNoFields
	}
	return r.db.Model(&models.Device{}).Where("id = ?", id).Updates(set).Error
}

func (r *Repo) Delete(id int) error {
	res := r.db.Delete(&models.Device{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeviceRow — строка join devices×systems для списков.
type DeviceRow struct {
	SystemID     int     `gorm:"column:system_id"`
	SystemName   string  `gorm:"column:system_name"`
	Description  string  `gorm:"column:description"`
	DeviceName   string  `gorm:"column:device_name"`
	FacilityName *string `gorm:"column:facility_name"`
	IPAddress    *string `gorm:"column:ip_address"`
	Port         *int    `gorm:"column:port"`
	IsLora       bool    `gorm:"column:is_lora"`
	IsUse        bool    `gorm:"column:is_use"`
}

func (r *Repo) List() ([]DeviceRow, error) {
	var out []DeviceRow
	err := r.db.Table("devices d").
		Select(`s.id AS system_id, s.name AS system_name, s.description,
			d.device_name, d.facility_name, d.ip_address, d.port, d.is_lora, d.is_use`).
		Joins("JOIN systems s ON d.system_id = s.id").
		Order("d.id").
		Scan(&out).Error
	return out, err
}

func (r *Repo) ListBySystem(systemID int) ([]DeviceRow, error) {
	var out []DeviceRow
	err := r.db.Table("devices d").
		Select(`s.id AS system_id, s.name AS system_name, s.description,
			d.device_name, d.facility_name, d.ip_address, d.port, d.is_lora, d.is_use`).
		Joins("JOIN systems s ON d.system_id = s.id").
		Where("s.id = ?", systemID).
		Order("d.id").
		Scan(&out).Error
	return out, err
}
