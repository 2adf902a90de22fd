// internal/service/attendance.go
package service

import (
	"fmt"

	"attendance-bot/internal/models"
	"attendance-bot/internal/repository"

	"github.com/sirupsen/logrus"
)

// AttendanceService - бизнес-логика над записями посещаемости
type AttendanceService struct {
	repo   repository.AttendanceRecordRepository
	logger *logrus.Logger
}

func NewAttendanceService(repo repository.AttendanceRecordRepository) *AttendanceService {
	return &AttendanceService{
		repo:   repo,
		logger: logrus.New(),
	}
}

// Save валидирует и сохраняет запись; существующая запись с тем же
// ключом перезаписывается
func (s *AttendanceService) Save(record *models.AttendanceRecord) error {
	if err := s.validateRecord(record); err != nil {
		return err
	}

	if err := s.repo.Upsert(record); err != nil {
		return fmt.Errorf("ошибка сохранения записи: %w", err)
	}

	s.logger.Infof("Saved attendance: tenant=%s user=%s date=%s status=%s",
		record.TenantID, record.UserID, record.Date, record.Status)
	return nil
}

// Delete удаляет запись по ключу. Возвращает false, если записи не
// было: отсутствующий ключ - идемпотентный no-op, не ошибка.
func (s *AttendanceService) Delete(tenantID, userID, date string) (bool, error) {
	existing, err := s.repo.Get(tenantID, userID, date)
	if err != nil {
		return false, fmt.Errorf("ошибка поиска записи: %w", err)
	}
	if existing == nil {
		return false, nil
	}

	if err := s.repo.Delete(tenantID, userID, date); err != nil {
		return false, fmt.Errorf("ошибка удаления записи: %w", err)
	}

	s.logger.Infof("Deleted attendance: tenant=%s user=%s date=%s", tenantID, userID, date)
	return true, nil
}

// GetHistory возвращает записи пользователя за месяц, новые сверху
func (s *AttendanceService) GetHistory(tenantID, userID, monthPrefix string) ([]models.AttendanceRecord, error) {
	return s.repo.GetHistory(tenantID, userID, monthPrefix)
}

// GetByDate возвращает все записи тенанта на дату
func (s *AttendanceService) GetByDate(tenantID, date string) ([]models.AttendanceRecord, error) {
	return s.repo.GetByDate(tenantID, date)
}

func (s *AttendanceService) validateRecord(record *models.AttendanceRecord) error {
	if record.TenantID == "" {
		return fmt.Errorf("tenant ID не задан")
	}
	if record.UserID == "" {
		return fmt.Errorf("user ID не задан")
	}
	if record.Date == "" {
		return fmt.Errorf("дата не задана")
	}
	if !models.IsValidStatus(record.Status) {
		return fmt.Errorf("неизвестный статус: %s", record.Status)
	}
	return nil
}
