package model

import "gorm.io/gorm"

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Organization{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&User{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&Content{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&ContentRevision{}); err != nil {
		return err
	}

	return nil
}
