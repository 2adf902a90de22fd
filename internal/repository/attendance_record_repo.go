// internal/repository/attendance_record_repo.go
package repository

import (
	"attendance-bot/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AttendanceRecordRepository - граница персистентности для записей
// посещаемости. Гарантирует не более одной живой записи на ключ
// (tenant_id, user_id, date).
type AttendanceRecordRepository interface {
	Upsert(record *models.AttendanceRecord) error
	Get(tenantID, userID, date string) (*models.AttendanceRecord, error)
	Delete(tenantID, userID, date string) error
	GetByDate(tenantID, date string) ([]models.AttendanceRecord, error)
	GetHistory(tenantID, userID, monthPrefix string) ([]models.AttendanceRecord, error)
}

type GormAttendanceRecordRepository struct {
	db *gorm.DB
}

func NewGormAttendanceRecordRepository(db *gorm.DB) (AttendanceRecordRepository, error) {
	if err := db.AutoMigrate(&models.AttendanceRecord{}); err != nil {
		return nil, err
	}
	return &GormAttendanceRecordRepository{db: db}, nil
}

// Upsert сохраняет запись; повторная запись с тем же ключом
// перезаписывает существующую (last-write-wins)
func (r *GormAttendanceRecordRepository) Upsert(record *models.AttendanceRecord) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tenant_id"}, {Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "note", "username", "channel_id", "message_ref", "updated_at",
		}),
	}).Create(record).Error
}

func (r *GormAttendanceRecordRepository) Get(tenantID, userID, date string) (*models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	err := r.db.Where("tenant_id = ? AND user_id = ? AND date = ?", tenantID, userID, date).
		First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Delete удаляет запись по ключу; отсутствующий ключ - не ошибка
func (r *GormAttendanceRecordRepository) Delete(tenantID, userID, date string) error {
	return r.db.Where("tenant_id = ? AND user_id = ? AND date = ?", tenantID, userID, date).
		Delete(&models.AttendanceRecord{}).Error
}

func (r *GormAttendanceRecordRepository) GetByDate(tenantID, date string) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	err := r.db.Where("tenant_id = ? AND date = ?", tenantID, date).
		Order("user_id ASC").
		Find(&records).Error
	return records, err
}

func (r *GormAttendanceRecordRepository) GetHistory(tenantID, userID, monthPrefix string) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	err := r.db.Where("tenant_id = ? AND user_id = ? AND date LIKE ?", tenantID, userID, monthPrefix+"%").
		Order("date DESC").
		Find(&records).Error
	return records, err
}
