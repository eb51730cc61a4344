package inventory

import (
	"fmt"
	"strings"
	"testing"

	"github.com/meronic/iot-backend/internal/db"
	"github.com/meronic/iot-backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:inv_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := db.Open("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&models.System{}, &models.Device{}, &models.DeviceStatus{}, &models.DeviceStatusHistory{},
	))
	require.NoError(t, gdb.Create(&models.System{ID: 1, Name: "seoul", Description: "Seoul Plant"}).Error)
	require.NoError(t, gdb.Create(&models.System{ID: 2, Name: "busan", Description: "Busan Port"}).Error)
	return gdb
}

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }
func boolp(b bool) *bool    { return &b }

func TestCreateReturnsGeneratedID(t *testing.T) {
	repo := NewRepo(newTestDB(t))

	id, err := repo.Create(&models.Device{SystemID: 1, DeviceName: "Gate-01", IPAddress: strp("10.0.0.5"), Port: intp(22)})
	require.NoError(t, err)
	require.Greater(t, id, 0)

	id2, err := repo.Create(&models.Device{SystemID: 1, DeviceName: "Gate-02"})
	require.NoError(t, err)
	require.Greater(t, id2, id)
}

func TestCreateBlankIPStoredAsNull(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepo(gdb)

	id, err := repo.Create(&models.Device{SystemID: 1, DeviceName: "Gate-01", IPAddress: strp("   ")})
	require.NoError(t, err)

	var d models.Device
	require.NoError(t, gdb.First(&d, id).Error)
	require.Nil(t, d.IPAddress)
}

func TestUpdateNoFields(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepo(gdb)

	id, err := repo.Create(&models.Device{SystemID: 1, DeviceName: "Gate-01", Port: intp(22)})
	require.NoError(t, err)

	require.ErrorIs(t, repo.Update(id, DevicePatch{}), ErrNoFields)

	// row untouched
	var d models.Device
	require.NoError(t, gdb.First(&d, id).Error)
	require.Equal(t, "Gate-01", d.DeviceName)
	require.Equal(t, 22, *d.Port)
}

func TestUpdateUnknownDevice(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	err := repo.Update(99999, DevicePatch{DeviceName: strp("x")})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateZeroValuesAreSettable(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepo(gdb)

	id, err := repo.Create(&models.Device{SystemID: 1, DeviceName: "Lora-01", Port: intp(22), IsLora: true})
	require.NoError(t, err)

	// port=0 and is_lora=false are real values, not "absent"
	require.NoError(t, repo.Update(id, DevicePatch{Port: intp(0), IsLora: boolp(false)}))

	var d models.Device
	require.NoError(t, gdb.First(&d, id).Error)
	require.NotNil(t, d.Port)
	require.Equal(t, 0, *d.Port)
	require.False(t, d.IsLora)
}

func TestUpdateBlankIPClearsAddress(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepo(gdb)

	id, err := repo.Create(&models.Device{SystemID: 1, DeviceName: "Gate-01", IPAddress: strp("10.0.0.5")})
	require.NoError(t, err)

	require.NoError(t, repo.Update(id, DevicePatch{IPAddress: strp("")}))

	var d models.Device
	require.NoError(t, gdb.First(&d, id).Error)
	require.Nil(t, d.IPAddress)
}

func TestDeleteUnknownDevice(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	require.ErrorIs(t, repo.Delete(99999), ErrNotFound)
}

func TestDeleteRemovesRow(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepo(gdb)

	id, err := repo.Create(&models.Device{SystemID: 1, DeviceName: "Gate-01"})
	require.NoError(t, err)
	require.NoError(t, repo.Delete(id))

	var count int64
	require.NoError(t, gdb.Model(&models.Device{}).Where("id = ?", id).Count(&count).Error)
	require.Zero(t, count)
}

func TestListJoinsSystems(t *testing.T) {
	repo := NewRepo(newTestDB(t))

	_, err := repo.Create(&models.Device{SystemID: 1, DeviceName: "Gate-01", FacilityName: strp("north gate")})
	require.NoError(t, err)
	_, err = repo.Create(&models.Device{SystemID: 2, DeviceName: "Crane-07"})
	require.NoError(t, err)

	rows, err := repo.List()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "seoul", rows[0].SystemName)
	require.Equal(t, "Seoul Plant", rows[0].Description)
	require.Equal(t, "Gate-01", rows[0].DeviceName)

	bySystem, err := repo.ListBySystem(2)
	require.NoError(t, err)
	require.Len(t, bySystem, 1)
	require.Equal(t, "Crane-07", bySystem[0].DeviceName)

	empty, err := repo.ListBySystem(42)
	require.NoError(t, err)
	require.Empty(t, empty)
}
