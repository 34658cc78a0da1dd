package repositories

import (
	"fmt"

	"gorm.io/gorm"
)

// replaceLinks makes the join rows of recipeID exactly match want. Only the
// difference against the current rows is written: missing ids are inserted
// in one batch and stale ids deleted in one statement.
func replaceLinks[J any](db *gorm.DB, column string, recipeID uint, want []uint, build func(id uint) J) error {
	var have []uint
	if err := db.Model(new(J)).Where("recipe_id = ?", recipeID).Pluck(column, &have).Error; err != nil {
		return fmt.Errorf("failed to read %s links: %w", column, err)
	}

	add, remove := diffIDs(have, want)
	if len(remove) > 0 {
		err := db.Where("recipe_id = ?", recipeID).
			Where(column+" IN ?", remove).
			Delete(new(J)).Error
		if err != nil {
			return fmt.Errorf("failed to remove %s links: %w", column, err)
		}
	}
	if len(add) > 0 {
		rows := make([]J, 0, len(add))
		for _, id := range add {
			rows = append(rows, build(id))
		}
		if err := db.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to add %s links: %w", column, err)
		}
	}
	return nil
}

// diffIDs returns the ids of want missing from have and the ids of have
// missing from want. Duplicates collapse; want's order is kept for add.
func diffIDs(have, want []uint) (add, remove []uint) {
	current := make(map[uint]struct{}, len(have))
	for _, id := range have {
		current[id] = struct{}{}
	}
	desired := make(map[uint]struct{}, len(want))
	for _, id := range want {
		if _, dup := desired[id]; dup {
			continue
		}
		desired[id] = struct{}{}
		if _, ok := current[id]; !ok {
			add = append(add, id)
		}
	}
	for _, id := range have {
		if _, ok := desired[id]; !ok {
			remove = append(remove, id)
		}
	}
	return add, remove
}
