package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/talentrail/talentrail/internal/models"
	"github.com/talentrail/talentrail/internal/permissions"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.Status{},
		&models.Position{},
		&models.Location{},
		&models.OutletType{},
		&models.Outlet{},
		&models.Candidate{},
		&models.Schedule{},
		&models.CvLink{},
		&models.Replacement{},
		&models.AuditLog{},
	)
}

// SeedData populates default roles, permission assignments, and workflow statuses.
func SeedData(db *gorm.DB) error {
	if err := permissions.Sync(context.Background(), db); err != nil {
		return err
	}

	roles := []models.Role{
		{
			ID:          "admin",
			Name:        "Administrator",
			Description: "Full system access",
			IsSystem:    true,
		},
		{
			ID:          "recruiter",
			Name:        "Recruiter",
			Description: "Candidate funnel and scheduling access",
			IsSystem:    true,
		},
	}

	for _, role := range roles {
		if err := db.Where(models.Role{ID: role.ID}).Attrs(role).FirstOrCreate(&models.Role{}).Error; err != nil {
			return err
		}
	}

	if err := assignRolePermissions(db, "admin", allPermissionIDs()); err != nil {
		return err
	}

	recruiterPerms := []string{
		"candidate.view", "candidate.create", "candidate.edit",
		"schedule.view", "schedule.manage",
		"cvlink.manage",
		"replacement.view", "replacement.manage",
		"analytics.view",
		"registry.view",
	}
	if err := assignRolePermissions(db, "recruiter", recruiterPerms); err != nil {
		return err
	}

	return seedStatuses(db)
}

func allPermissionIDs() []string {
	perms := permissions.GetAll()
	ids := make([]string, 0, len(perms))
	for id := range perms {
		ids = append(ids, id)
	}
	return ids
}

func assignRolePermissions(db *gorm.DB, roleID string, permissionIDs []string) error {
	var role models.Role
	if err := db.First(&role, "id = ?", roleID).Error; err != nil {
		return err
	}

	perms := make([]models.Permission, 0, len(permissionIDs))
	for _, id := range permissionIDs {
		var perm models.Permission
		if err := db.First(&perm, "id = ?", id).Error; err != nil {
			return err
		}
		perms = append(perms, perm)
	}

	return db.Model(&role).Association("Permissions").Replace(perms)
}

func seedStatuses(db *gorm.DB) error {
	statuses := []models.Status{
		{Value: "recently-applied", Label: "Recently Applied", Color: "blue"},
		{Value: "scheduled", Label: "Scheduled", Color: "amber"},
		{Value: "interviewed", Label: "Interviewed", Color: "purple"},
		{Value: "hired", Label: "Hired", Color: "green"},
		{Value: "backed-out", Label: "Backed Out", Color: "red"},
		{Value: "not-selected", Label: "Not Selected", Color: "gray"},
	}

	for _, status := range statuses {
		if err := db.Where(models.Status{Value: status.Value}).Attrs(status).FirstOrCreate(&models.Status{}).Error; err != nil {
			return err
		}
	}

	return nil
}
