package migrations

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"spotnet/src/model"
)

// PrepareStatusEnum creates the postgres enum type backing position.status so
// AutoMigrate can reference it. Other dialects store the label as text and
// need no preparation.
func PrepareStatusEnum(db *gorm.DB) error {
	if db == nil || db.Dialector.Name() != "postgres" {
		return nil
	}

	labels := make([]string, 0, len(model.PositionStatusChoices()))
	for _, s := range model.PositionStatusChoices() {
		labels = append(labels, "'"+string(s)+"'")
	}

	stmt := fmt.Sprintf(`DO $$
BEGIN
	CREATE TYPE %s AS ENUM (%s);
EXCEPTION
	WHEN duplicate_object THEN NULL;
END $$;`, model.PositionStatusEnumName, strings.Join(labels, ", "))

	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("create enum %s: %w", model.PositionStatusEnumName, err)
	}
	return nil
}
