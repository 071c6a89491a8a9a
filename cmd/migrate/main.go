package main

import (
	"log"

	"shop-chatbot-be/internal/config"
	"shop-chatbot-be/internal/model"
	"shop-chatbot-be/pkg/database"
)

func main() {
	// 1. Load Configuration (.env is read by config.Load)
	cfg := config.Load()
	if cfg.Database.Driver != database.DriverSQLite && cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDB(database.GormConfig{
		Driver:     cfg.Database.Driver,
		DSN:        cfg.Database.Connection,
		LogQueries: true,
	})
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	// 3. AutoMigrate All Models
	log.Printf("Running AutoMigrate for %d tables...", len(model.All()))
	if err := model.Migrate(db); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 4. Post-Migration: indexes GORM tags cannot express
	if cfg.Database.Driver != database.DriverSQLite {
		postMigrationSQL := []string{
			`CREATE INDEX IF NOT EXISTS idx_chat_sessions_customer_updated ON chat_sessions (customer_id, updated_at DESC) WHERE deleted_at IS NULL;`,

			// Function: set_current_timestamp_updated_at
			`CREATE OR REPLACE FUNCTION set_current_timestamp_updated_at() RETURNS trigger LANGUAGE plpgsql AS $$
			DECLARE _new_value TIMESTAMP WITH TIME ZONE;
			BEGIN
			  _new_value := now();
			  IF NEW.updated_at IS DISTINCT FROM _new_value THEN NEW.updated_at = _new_value; END IF;
			  RETURN NEW;
			END; $$;`,

			// settings are also edited by hand in psql
			`DROP TRIGGER IF EXISTS set_chat_settings_updated_at ON chat_settings;`,
			`CREATE TRIGGER set_chat_settings_updated_at BEFORE UPDATE ON chat_settings
			 FOR EACH ROW EXECUTE FUNCTION set_current_timestamp_updated_at();`,
		}

		for _, sql := range postMigrationSQL {
			if err := db.Exec(sql).Error; err != nil {
				log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
			}
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
