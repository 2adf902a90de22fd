// internal/repository/workspace_repo.go
package repository

import (
	"attendance-bot/internal/models"

	"gorm.io/gorm"
)

type WorkspaceRepository interface {
	GetByTenantID(tenantID string) (*models.Workspace, error)
	Create(workspace *models.Workspace) error
	Update(workspace *models.Workspace) error
}

type GormWorkspaceRepository struct {
	db *gorm.DB
}

func NewGormWorkspaceRepository(db *gorm.DB) (WorkspaceRepository, error) {
	if err := db.AutoMigrate(&models.Workspace{}); err != nil {
		return nil, err
	}
	return &GormWorkspaceRepository{db: db}, nil
}

func (r *GormWorkspaceRepository) GetByTenantID(tenantID string) (*models.Workspace, error) {
	var workspace models.Workspace
	err := r.db.Where("tenant_id = ?", tenantID).First(&workspace).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &workspace, nil
}

func (r *GormWorkspaceRepository) Create(workspace *models.Workspace) error {
	return r.db.Create(workspace).Error
}

func (r *GormWorkspaceRepository) Update(workspace *models.Workspace) error {
	return r.db.Save(workspace).Error
}
