package database

import (
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PhilipFalla/pokecollect-gui/internal/models"
)

// RunMigrations runs the data migrations that follow schema changes.
// Each step is safe to run on every start.
func RunMigrations(db *gorm.DB) error {
	if err := seedConditions(db); err != nil {
		return err
	}
	if err := seedLanguages(db); err != nil {
		return err
	}
	normalizePriceKeys(db)
	return nil
}

// seedConditions inserts the fixed condition ladder. Ids match
// models.Condition.ID so clients can send condition_id without a lookup.
func seedConditions(db *gorm.DB) error {
	rows := make([]models.ConditionRecord, 0, len(models.AllConditions()))
	for _, cond := range models.AllConditions() {
		rows = append(rows, models.ConditionRecord{ID: cond.ID(), Code: cond, Name: cond.Name()})
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// seedLanguages inserts the initial language set. More languages may be
// added directly to the table later; existing rows are left alone.
func seedLanguages(db *gorm.DB) error {
	rows := make([]models.LanguageRecord, 0, len(models.AllLanguages()))
	for _, lang := range models.AllLanguages() {
		rows = append(rows, models.LanguageRecord{ID: lang.ID(), Code: lang, Name: lang.Name()})
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// normalizePriceKeys lower-cases price keys written before lookups became
// case-insensitive and fills empty conditions/languages.
func normalizePriceKeys(db *gorm.DB) {
	result := db.Exec(`
		UPDATE card_prices
		SET card_name = LOWER(TRIM(card_name)),
		    set_name = LOWER(TRIM(set_name)),
		    number_in_set = LOWER(TRIM(number_in_set))
		WHERE card_name != LOWER(TRIM(card_name))
		   OR set_name != LOWER(TRIM(set_name))
		   OR number_in_set != LOWER(TRIM(number_in_set))
	`)
	if result.Error != nil {
		slog.Warn("failed to normalize card_prices keys", slog.Any("error", result.Error))
	} else if result.RowsAffected > 0 {
		slog.Info("Normalized card_prices keys", slog.Int64("rows", result.RowsAffected))
	}

	db.Exec(`UPDATE card_prices SET condition = 'NM' WHERE condition IS NULL OR condition = ''`)
	db.Exec(`UPDATE card_prices SET language = 'EN' WHERE language IS NULL OR language = ''`)
}
