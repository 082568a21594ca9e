package database

import "propaudit/server/internal/models"

func (d *Database) RunMigrations() error {
	if err := d.db.AutoMigrate(&models.Property{}); err != nil {
		return err
	}

	// Spatial index on coordinates for the nearby bounding-box query
	return d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_properties_coordinates
		ON properties(latitude, longitude);
	`).Error
}
