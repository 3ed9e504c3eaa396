package migration

import (
	"github.com/jinzhu/gorm"
	"github.com/sysdevguru/stockfolio/models"
	gormigrate "gopkg.in/gormigrate.v1"
)

// Migration contains the incremental migrations that keep the database
// schema in sync with the current models.
func Migration(db *gorm.DB) *gormigrate.Gormigrate {
	return gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		// initial migration
		{
			ID: "202608250930",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&models.User{}).Error; err != nil {
					return err
				}
				if err := tx.AutoMigrate(&models.Sector{}).Error; err != nil {
					return err
				}
				if err := tx.AutoMigrate(&models.Stock{}).Error; err != nil {
					return err
				}
				if err := tx.AutoMigrate(&models.Holding{}).Error; err != nil {
					return err
				}
				return tx.AutoMigrate(&models.StockPrice{}).Error
			},
			Rollback: func(tx *gorm.DB) error {
				return nil
			},
		},
		// referential integrity
		{
			ID: "202608250945",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.Model(&models.Stock{}).
					AddForeignKey("sector_id", "sectors(id)", "RESTRICT", "RESTRICT").Error; err != nil {
					return err
				}
				if err := tx.Model(&models.Holding{}).
					AddForeignKey("user_id", "users(id)", "RESTRICT", "RESTRICT").Error; err != nil {
					return err
				}
				if err := tx.Model(&models.Holding{}).
					AddForeignKey("stock_id", "stocks(id)", "RESTRICT", "RESTRICT").Error; err != nil {
					return err
				}
				return tx.Model(&models.StockPrice{}).
					AddForeignKey("stock_id", "stocks(id)", "CASCADE", "RESTRICT").Error
			},
			Rollback: func(tx *gorm.DB) error {
				return nil
			},
		},
	})
}
