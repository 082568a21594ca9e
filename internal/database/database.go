package database

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"propaudit/server/internal/models"
)

const metersPerMile = 1609.34

type Database struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewDatabase(dbPath string, logger *logrus.Logger) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	return &Database{db: db, logger: logger}, nil
}

// PropertyFilter narrows the listing query. Nil fields are not applied.
type PropertyFilter struct {
	City     string
	ZipCode  string
	MinPrice *float64
	MaxPrice *float64
	MinBeds  *int
	MaxBeds  *int
	Skip     int
	Limit    int
}

func (d *Database) GetProperties(filter PropertyFilter) ([]models.Property, error) {
	query := d.db.Model(&models.Property{})

	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if filter.ZipCode != "" {
		query = query.Where("zip_code = ?", filter.ZipCode)
	}
	if filter.MinPrice != nil {
		query = query.Where("list_price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("list_price <= ?", *filter.MaxPrice)
	}
	if filter.MinBeds != nil {
		query = query.Where("bedrooms >= ?", *filter.MinBeds)
	}
	if filter.MaxBeds != nil {
		query = query.Where("bedrooms <= ?", *filter.MaxBeds)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = -1
	}

	var properties []models.Property
	err := query.Offset(filter.Skip).Limit(limit).Find(&properties).Error
	return properties, err
}

// GetPropertyByID returns the record or nil when no row matches.
func (d *Database) GetPropertyByID(id int64) (*models.Property, error) {
	var property models.Property
	err := d.db.First(&property, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// GetPropertyByAddress looks up a record by exact address match.
func (d *Database) GetPropertyByAddress(address string) (*models.Property, error) {
	var property models.Property
	err := d.db.Where("address = ?", address).First(&property).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// GetStreetProperties returns all records whose address contains the
// street name and whose city matches.
func (d *Database) GetStreetProperties(streetName, city string) ([]models.Property, error) {
	var properties []models.Property
	err := d.db.
		Where("address LIKE ?", "%"+streetName+"%").
		Where("city = ?", city).
		Find(&properties).Error
	return properties, err
}

func (d *Database) GetCityProperties(city string) ([]models.Property, error) {
	var properties []models.Property
	err := d.db.Where("city = ?", city).Find(&properties).Error
	return properties, err
}

// GetNearbyProperties returns records within radiusMiles of the center
// point. The index-backed bounding box narrows candidates in SQL; the
// great-circle distance check removes box corners. A radius of zero
// matches only records at exactly the query point.
func (d *Database) GetNearbyProperties(latitude, longitude, radiusMiles float64) ([]models.Property, error) {
	center := orb.Point{longitude, latitude}
	radiusMeters := radiusMiles * metersPerMile
	bound := geo.NewBoundAroundPoint(center, radiusMeters)

	var candidates []models.Property
	err := d.db.
		Where("latitude BETWEEN ? AND ?", bound.Min[1], bound.Max[1]).
		Where("longitude BETWEEN ? AND ?", bound.Min[0], bound.Max[0]).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	var properties []models.Property
	for _, p := range candidates {
		if geo.Distance(center, orb.Point{p.Longitude, p.Latitude}) <= radiusMeters {
			properties = append(properties, p)
		}
	}
	return properties, nil
}

// UpsertBatch persists a batch of listings in a single transaction,
// matching existing rows by exact address. A per-record failure is
// recorded as a skip and does not abort the batch.
func (d *Database) UpsertBatch(batch []*models.Property) ([]models.SyncItem, error) {
	items := make([]models.SyncItem, 0, len(batch))

	err := d.db.Transaction(func(tx *gorm.DB) error {
		for _, property := range batch {
			var existing models.Property
			err := tx.Where("address = ?", property.Address).First(&existing).Error

			switch {
			case err == nil:
				property.ID = existing.ID
				property.CreatedAt = existing.CreatedAt
				if err := tx.Save(property).Error; err != nil {
					d.logger.WithError(err).WithField("address", property.Address).Error("Failed to update property")
					items = append(items, models.SyncItem{
						Address: property.Address,
						Outcome: models.SyncSkipped,
						Reason:  skipReason(err),
					})
					continue
				}
				items = append(items, models.SyncItem{Address: property.Address, Outcome: models.SyncUpdated})

			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := tx.Create(property).Error; err != nil {
					d.logger.WithError(err).WithField("address", property.Address).Error("Failed to insert property")
					items = append(items, models.SyncItem{
						Address: property.Address,
						Outcome: models.SyncSkipped,
						Reason:  skipReason(err),
					})
					continue
				}
				items = append(items, models.SyncItem{Address: property.Address, Outcome: models.SyncInserted})

			default:
				return fmt.Errorf("failed to look up property %q: %w", property.Address, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

// skipReason classifies a per-record persistence error for the sync
// report, surfacing sqlite constraint violations by name.
func skipReason(err error) string {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Sprintf("constraint violation: %s", sqliteErr.Error())
	}
	return err.Error()
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) GetDB() *gorm.DB {
	return d.db
}
