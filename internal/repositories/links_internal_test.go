package repositories

import (
	"context"
	"strings"
	"testing"

	"resep/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openInternalTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := NewDB(DBConfig{
		Driver:   "sqlite",
		DSN:      "file:" + name + "?mode=memory&cache=shared",
		LogLevel: "silent",
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func TestDiffIDs(t *testing.T) {
	add, remove := diffIDs([]uint{1, 2}, []uint{2, 3, 3, 4})
	assert.Equal(t, []uint{3, 4}, add)
	assert.Equal(t, []uint{1}, remove)

	add, remove = diffIDs(nil, nil)
	assert.Empty(t, add)
	assert.Empty(t, remove)

	add, remove = diffIDs([]uint{5, 6}, []uint{})
	assert.Empty(t, add)
	assert.Equal(t, []uint{5, 6}, remove)

	add, remove = diffIDs([]uint{7}, []uint{7})
	assert.Empty(t, add)
	assert.Empty(t, remove)
}

func TestCreateOrRereadReturnsExistingRowOnConflict(t *testing.T) {
	db := openInternalTestDB(t)
	ctx := context.Background()
	repo := NewGORMTagRepository(db)

	existing := models.NewTag(1, "Lunch")
	require.NoError(t, db.Create(existing).Error)

	// Simulates the loser of a race: the lookup missed, the insert collides.
	got, err := repo.createOrReread(ctx, 1, "Lunch")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, got.ID)

	var count int64
	require.NoError(t, db.Model(&models.Tag{}).Where("user_id = ?", 1).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateOrRereadInsideTransactionKeepsTransactionUsable(t *testing.T) {
	db := openInternalTestDB(t)
	ctx := context.Background()
	require.NoError(t, db.Create(models.NewIngredient(1, "Salt")).Error)

	err := db.Transaction(func(tx *gorm.DB) error {
		repo := NewGORMIngredientRepository(tx)
		salt, err := repo.createOrReread(ctx, 1, "Salt")
		if err != nil {
			return err
		}
		assert.Equal(t, "Salt", salt.Name)
		// The savepoint rollback must leave the outer transaction alive.
		_, err = repo.FindOrCreate(ctx, 1, "Pepper")
		return err
	})
	require.NoError(t, err)

	var names []string
	require.NoError(t, db.Model(&models.Ingredient{}).Order("name").Pluck("name", &names).Error)
	assert.Equal(t, []string{"Pepper", "Salt"}, names)
}
