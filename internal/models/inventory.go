package models

import "time"

// System — facility/site grouping. Rows are provisioned externally,
// this service only reads them.
type System struct {
	ID          int    `gorm:"column:id;primaryKey" json:"id"`
	Name        string `gorm:"column:name" json:"name"`
	Description string `gorm:"column:description" json:"description"`
}

func (System) TableName() string { return "systems" }

// Device — monitored endpoint, either IP-reachable or LoRa radio.
// ip_address/port carry no meaning when is_lora is set.
type Device struct {
	ID           int     `gorm:"column:id;primaryKey" json:"id"`
	SystemID     int     `gorm:"column:system_id;index" json:"system_id"`
	DeviceName   string  `gorm:"column:device_name" json:"device_name"`
	IPAddress    *string `gorm:"column:ip_address" json:"ip_address"`
	FacilityName *string `gorm:"column:facility_name" json:"facility_name"`
	Port         *int    `gorm:"column:port" json:"port"`
	IsLora       bool    `gorm:"column:is_lora" json:"is_lora"`
	IsUse        bool    `gorm:"column:is_use;default:true" json:"is_use"`
}

func (Device) TableName() string { return "devices" }

// DeviceStatus — latest poll result per device, written by the external
// poller. A device may have no row at all.
type DeviceStatus struct {
	DeviceID     int        `gorm:"column:device_id;primaryKey" json:"device_id"`
	PingStatus   *string    `gorm:"column:ping_status" json:"ping_status"`
	SSHStatus    *string    `gorm:"column:ssh_status" json:"ssh_status"`
	LastDataTime *time.Time `gorm:"column:last_data_time" json:"last_data_time"`
}

func (DeviceStatus) TableName() string { return "device_status" }

// DeviceStatusHistory — append-only fleet snapshot series, read-only here.
type DeviceStatusHistory struct {
	ID              int       `gorm:"column:id;primaryKey" json:"-"`
	CheckedAt       time.Time `gorm:"column:checked_at;index" json:"checked_at"`
	TotalDevices    int       `gorm:"column:total_devices" json:"total_devices"`
	ActiveDevices   int       `gorm:"column:active_devices" json:"active_devices"`
	InactiveDevices int       `gorm:"column:inactive_devices" json:"inactive_devices"`
}

func (DeviceStatusHistory) TableName() string { return "device_status_history" }
