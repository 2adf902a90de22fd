// internal/service/workspace.go
package service

import (
	"fmt"
	"sync"
	"time"

	"attendance-bot/internal/models"
	"attendance-bot/internal/repository"

	"github.com/sirupsen/logrus"
)

// WorkspaceService - настройки тенантов. Таймзона тенанта управляет
// границей раннего утра для правила отмены.
type WorkspaceService struct {
	repo      repository.WorkspaceRepository
	logger    *logrus.Logger
	mu        sync.Mutex
	locations map[string]*time.Location
}

func NewWorkspaceService(repo repository.WorkspaceRepository) *WorkspaceService {
	return &WorkspaceService{
		repo:      repo,
		logger:    logrus.New(),
		locations: make(map[string]*time.Location),
	}
}

// GetOrCreate возвращает настройки тенанта, создавая строку с
// настройками по умолчанию при первом обращении
func (s *WorkspaceService) GetOrCreate(tenantID string) (*models.Workspace, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenant ID не задан")
	}

	workspace, err := s.repo.GetByTenantID(tenantID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения workspace: %w", err)
	}
	if workspace != nil {
		return workspace, nil
	}

	workspace = &models.Workspace{
		TenantID:   tenantID,
		Timezone:   models.DefaultTimezone,
		NLPEnabled: true,
	}
	if err := s.repo.Create(workspace); err != nil {
		return nil, fmt.Errorf("ошибка создания workspace: %w", err)
	}

	s.logger.Infof("Registered workspace: tenant=%s timezone=%s", tenantID, workspace.Timezone)
	return workspace, nil
}

// Location возвращает таймзону тенанта; при любой проблеме - таймзона
// по умолчанию, обработка сообщения не прерывается
func (s *WorkspaceService) Location(tenantID string) *time.Location {
	name := models.DefaultTimezone
	if workspace, err := s.repo.GetByTenantID(tenantID); err == nil && workspace != nil && workspace.Timezone != "" {
		name = workspace.Timezone
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if loc, ok := s.locations[name]; ok {
		return loc
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		s.logger.Infof("Warning: unknown timezone %q, falling back to %s", name, models.DefaultTimezone)
		loc, err = time.LoadLocation(models.DefaultTimezone)
		if err != nil {
			loc = time.UTC
		}
	}
	s.locations[name] = loc
	return loc
}

// NLPEnabled проверяет, включен ли AI-разбор сообщений для тенанта
func (s *WorkspaceService) NLPEnabled(tenantID string) bool {
	workspace, err := s.repo.GetByTenantID(tenantID)
	if err != nil || workspace == nil {
		return true
	}
	return workspace.NLPEnabled
}

// SetTimezone обновляет таймзону тенанта
func (s *WorkspaceService) SetTimezone(tenantID, timezone string) error {
	if _, err := time.LoadLocation(timezone); err != nil {
		return fmt.Errorf("неизвестная таймзона: %s", timezone)
	}

	workspace, err := s.GetOrCreate(tenantID)
	if err != nil {
		return err
	}

	workspace.Timezone = timezone
	return s.repo.Update(workspace)
}
