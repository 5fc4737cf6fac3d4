// internal/database/seed.go
package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/skillset/skillset-backend/internal/models"
)

// SeedInitialData creates the default admin account and the task catalog
// when they do not exist yet. Tasks have no create endpoint, so seeding
// is the only way they enter the system.
func SeedInitialData(db *gorm.DB, adminPassword string) error {
	logrus.Info("Seeding initial data...")

	var adminCount int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&adminCount)

	if adminCount == 0 {
		if adminPassword == "" {
			return fmt.Errorf("ADMIN_PASSWORD must be set to seed the admin account")
		}

		admin := &models.User{
			Username: "admin",
			Role:     models.RoleAdmin,
		}
		if err := admin.SetPassword(adminPassword); err != nil {
			return fmt.Errorf("failed to set admin password: %w", err)
		}
		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		logrus.Info("Default admin user created")
	}

	var taskCount int64
	db.Model(&models.Task{}).Count(&taskCount)

	if taskCount == 0 {
		tasks := []models.Task{
			{Title: "Make a Sandwich", Difficulty: models.DifficultyLow, Reward: 100},
			{Title: "Wipe the Table", Difficulty: models.DifficultyLow, Reward: 100},
			{Title: "Sort Recycling", Difficulty: models.DifficultyMedium, Reward: 150},
			{Title: "Fold Laundry", Difficulty: models.DifficultyMedium, Reward: 150},
			{Title: "Load Dishwasher", Difficulty: models.DifficultyHigh, Reward: 200},
			{Title: "Water Plants", Difficulty: models.DifficultyLow, Reward: 100},
		}
		for i := range tasks {
			if err := db.Create(&tasks[i]).Error; err != nil {
				return fmt.Errorf("failed to seed task %q: %w", tasks[i].Title, err)
			}
		}

		logrus.WithField("count", len(tasks)).Info("Task catalog seeded")
	}

	logrus.Info("Initial data seeding completed")
	return nil
}
