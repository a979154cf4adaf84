package database

import (
	"log"

	"coffeeflow-backend/internal/config"
	"coffeeflow-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to the database: %v", err)
	}

	// Roast.operator migration: early deployments stored the operator name
	// string on the roast row. Drop the column so the foreign key is the
	// only reference (must run BEFORE AutoMigrate adds operator_id NOT NULL).
	if DB.Migrator().HasTable(&models.Roast{}) && DB.Migrator().HasColumn(&models.Roast{}, "operator") {
		log.Println("Dropping legacy roasts.operator name column...")
		if err := DB.Exec("ALTER TABLE roasts DROP COLUMN IF EXISTS operator").Error; err != nil {
			log.Printf("Could not drop roasts.operator (continuing): %v", err)
		}
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Origin{},
		&models.Operator{},
		&models.Product{},
		&models.Roast{},
		&models.CostSettings{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	// AutoMigrate does not always add the FK, enforce it so a roast can never
	// outlive its origin and the stock restore path cannot be skipped.
	if DB.Migrator().HasTable(&models.Roast{}) {
		var constraintExists bool
		DB.Raw(`
			SELECT EXISTS (
				SELECT 1
				FROM information_schema.table_constraints
				WHERE table_name = 'roasts'
				AND constraint_name = 'fk_roasts_origin'
			)
		`).Scan(&constraintExists)

		if !constraintExists {
			if fkErr := DB.Exec(`
				ALTER TABLE roasts
				ADD CONSTRAINT fk_roasts_origin
				FOREIGN KEY (origin_id) REFERENCES origins(id) ON DELETE RESTRICT
			`).Error; fkErr != nil {
				log.Printf("Could not add roasts origin foreign key: %v", fkErr)
			} else {
				log.Println("Added roasts origin foreign key constraint")
			}
		}
	}

	log.Println("Database connection established. Migration complete.")
}
