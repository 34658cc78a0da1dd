package repositories_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"resep/internal/models"
	"resep/internal/repositories"
	"resep/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createRecipe(t *testing.T, store repositories.Store, userID uint, title string) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{UserID: userID, Title: title, TimeMinutes: 10, Price: 525}
	require.NoError(t, store.Recipes().Create(context.Background(), recipe))
	return recipe
}

func tagIDs(tags []models.Tag) []uint {
	ids := make([]uint, 0, len(tags))
	for _, tag := range tags {
		ids = append(ids, tag.ID)
	}
	return ids
}

func TestFindOrCreateIsIdempotentPerOwner(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()
	store := repositories.NewGORMStore(db)
	alice := testutil.CreateUser(t, db, "alice@example.com")
	bob := testutil.CreateUser(t, db, "bob@example.com")

	first, err := store.Tags().FindOrCreate(ctx, alice.ID, "Vegan")
	require.NoError(t, err)
	second, err := store.Tags().FindOrCreate(ctx, alice.ID, "Vegan")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	// Names are matched exactly.
	lower, err := store.Tags().FindOrCreate(ctx, alice.ID, "vegan")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, lower.ID)

	// Other owners get their own row.
	bobs, err := store.Tags().FindOrCreate(ctx, bob.ID, "Vegan")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, bobs.ID)
	assert.Equal(t, bob.ID, bobs.UserID)

	var count int64
	require.NoError(t, db.Model(&models.Tag{}).Where("user_id = ?", alice.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

// The test database has a single connection, so these callers run one
// after another and only the lookup path is exercised. The insert
// conflict path is covered by TestCreateOrRereadReturnsExistingRowOnConflict.
func TestFindOrCreateFromManyGoroutinesReturnsOneRow(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()
	store := repositories.NewGORMStore(db)
	user := testutil.CreateUser(t, db, "cook@example.com")

	const workers = 8
	ids := make([]uint, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ingredient, err := store.Ingredients().FindOrCreate(ctx, user.ID, "Garlic")
			errs[i] = err
			if err == nil {
				ids[i] = ingredient.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	var count int64
	require.NoError(t, db.Model(&models.Ingredient{}).Where("user_id = ? AND name = ?", user.ID, "Garlic").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSetTagsReplacesLinks(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()
	store := repositories.NewGORMStore(db)
	user := testutil.CreateUser(t, db, "cook@example.com")
	recipe := createRecipe(t, store, user.ID, "Soup")

	a, _ := store.Tags().FindOrCreate(ctx, user.ID, "A")
	b, _ := store.Tags().FindOrCreate(ctx, user.ID, "B")
	c, _ := store.Tags().FindOrCreate(ctx, user.ID, "C")

	require.NoError(t, store.Recipes().SetTags(ctx, recipe.ID, []uint{a.ID, b.ID}))
	require.NoError(t, store.Recipes().SetTags(ctx, recipe.ID, []uint{b.ID, c.ID, c.ID}))

	loaded, err := store.Recipes().GetByID(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID, c.ID}, tagIDs(loaded.Tags))

	require.NoError(t, store.Recipes().SetTags(ctx, recipe.ID, nil))
	loaded, err = store.Recipes().GetByID(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Tags)

	// Unlinking never deletes the tags themselves.
	var count int64
	require.NoError(t, db.Model(&models.Tag{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestGetRecipeOfAnotherOwnerIsNotFound(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()
	store := repositories.NewGORMStore(db)
	owner := testutil.CreateUser(t, db, "owner@example.com")
	other := testutil.CreateUser(t, db, "other@example.com")
	recipe := createRecipe(t, store, owner.ID, "Private")

	_, err := store.Recipes().GetByID(ctx, other.ID, recipe.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	err = store.Recipes().Delete(ctx, other.ID, recipe.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = store.Recipes().GetByID(ctx, owner.ID, recipe.ID)
	assert.NoError(t, err)
}

func TestListRecipesFiltersAndDeduplicates(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()
	store := repositories.NewGORMStore(db)
	user := testutil.CreateUser(t, db, "cook@example.com")
	other := testutil.CreateUser(t, db, "other@example.com")

	curry := createRecipe(t, store, user.ID, "Curry")
	salad := createRecipe(t, store, user.ID, "Salad")
	stew := createRecipe(t, store, user.ID, "Stew")
	foreign := createRecipe(t, store, other.ID, "Foreign")

	vegan, _ := store.Tags().FindOrCreate(ctx, user.ID, "Vegan")
	quick, _ := store.Tags().FindOrCreate(ctx, user.ID, "Quick")
	rice, _ := store.Ingredients().FindOrCreate(ctx, user.ID, "Rice")

	require.NoError(t, store.Recipes().SetTags(ctx, curry.ID, []uint{vegan.ID, quick.ID}))
	require.NoError(t, store.Recipes().SetTags(ctx, salad.ID, []uint{quick.ID}))
	require.NoError(t, store.Recipes().SetIngredients(ctx, curry.ID, []uint{rice.ID}))
	require.NoError(t, store.Recipes().SetIngredients(ctx, stew.ID, []uint{rice.ID}))
	// A foreign recipe linked to this user's tag id must still never show up.
	require.NoError(t, store.Recipes().SetTags(ctx, foreign.ID, []uint{vegan.ID}))

	all, err := store.Recipes().List(ctx, user.ID, repositories.RecipeFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Stew", "Salad", "Curry"}, titles(all))

	byTags, err := store.Recipes().List(ctx, user.ID, repositories.RecipeFilter{TagIDs: []uint{vegan.ID, quick.ID}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Salad", "Curry"}, titles(byTags))

	both, err := store.Recipes().List(ctx, user.ID, repositories.RecipeFilter{
		TagIDs:        []uint{vegan.ID, quick.ID},
		IngredientIDs: []uint{rice.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Curry"}, titles(both))

	none, err := store.Recipes().List(ctx, user.ID, repositories.RecipeFilter{TagIDs: []uint{9999}})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func titles(recipes []models.Recipe) []string {
	out := make([]string, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, r.Title)
	}
	return out
}

func TestListTagsAssignedOnly(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()
	store := repositories.NewGORMStore(db)
	user := testutil.CreateUser(t, db, "cook@example.com")
	other := testutil.CreateUser(t, db, "other@example.com")

	breakfast, _ := store.Tags().FindOrCreate(ctx, user.ID, "Breakfast")
	_, _ = store.Tags().FindOrCreate(ctx, user.ID, "Lunch")
	dinner, _ := store.Tags().FindOrCreate(ctx, user.ID, "Dinner")
	_, _ = store.Tags().FindOrCreate(ctx, other.ID, "Brunch")

	eggs := createRecipe(t, store, user.ID, "Eggs")
	toast := createRecipe(t, store, user.ID, "Toast")
	require.NoError(t, store.Recipes().SetTags(ctx, eggs.ID, []uint{breakfast.ID}))
	require.NoError(t, store.Recipes().SetTags(ctx, toast.ID, []uint{breakfast.ID}))

	all, err := store.Tags().List(ctx, user.ID, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Lunch", all[0].Name)
	assert.Equal(t, "Dinner", all[1].Name)
	assert.Equal(t, "Breakfast", all[2].Name)

	assigned, err := store.Tags().List(ctx, user.ID, true)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, breakfast.ID, assigned[0].ID)

	// A link from another owner's recipe does not count as assigned.
	foreign := createRecipe(t, store, other.ID, "Foreign")
	require.NoError(t, store.Recipes().SetTags(ctx, foreign.ID, []uint{dinner.ID}))
	assigned, err = store.Tags().List(ctx, user.ID, true)
	require.NoError(t, err)
	assert.Len(t, assigned, 1)
}

func TestDeleteRecipeKeepsAttributes(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()
	store := repositories.NewGORMStore(db)
	user := testutil.CreateUser(t, db, "cook@example.com")
	recipe := createRecipe(t, store, user.ID, "Soup")
	tag, _ := store.Tags().FindOrCreate(ctx, user.ID, "Warm")
	require.NoError(t, store.Recipes().SetTags(ctx, recipe.ID, []uint{tag.ID}))

	require.NoError(t, store.Recipes().Delete(ctx, user.ID, recipe.ID))

	_, err := store.Recipes().GetByID(ctx, user.ID, recipe.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = store.Tags().GetByID(ctx, user.ID, tag.ID)
	assert.NoError(t, err)

	var links int64
	require.NoError(t, db.Model(&models.RecipeTag{}).Count(&links).Error)
	assert.Zero(t, links)
}

func TestDeleteTagSeversLinks(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()
	store := repositories.NewGORMStore(db)
	user := testutil.CreateUser(t, db, "cook@example.com")
	recipe := createRecipe(t, store, user.ID, "Soup")
	tag, _ := store.Tags().FindOrCreate(ctx, user.ID, "Warm")
	require.NoError(t, store.Recipes().SetTags(ctx, recipe.ID, []uint{tag.ID}))

	require.NoError(t, store.Tags().Delete(ctx, user.ID, tag.ID))

	loaded, err := store.Recipes().GetByID(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Tags)

	err = store.Tags().Delete(ctx, user.ID, tag.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestRenameToExistingNameConflicts(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()
	store := repositories.NewGORMStore(db)
	user := testutil.CreateUser(t, db, "cook@example.com")
	_, _ = store.Ingredients().FindOrCreate(ctx, user.ID, "Salt")
	pepper, _ := store.Ingredients().FindOrCreate(ctx, user.ID, "Pepper")

	_, err := store.Ingredients().Rename(ctx, user.ID, pepper.ID, "Salt")
	assert.ErrorIs(t, err, repositories.ErrDuplicateName)

	renamed, err := store.Ingredients().Rename(ctx, user.ID, pepper.ID, "Black pepper")
	require.NoError(t, err)
	assert.Equal(t, "Black pepper", renamed.Name)
}

func TestStoreTransactionRollsBack(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()
	store := repositories.NewGORMStore(db)
	user := testutil.CreateUser(t, db, "cook@example.com")
	boom := errors.New("boom")

	err := store.Transaction(ctx, func(tx repositories.Store) error {
		recipe := &models.Recipe{UserID: user.ID, Title: "Doomed", Price: 100}
		if err := tx.Recipes().Create(ctx, recipe); err != nil {
			return err
		}
		tag, err := tx.Tags().FindOrCreate(ctx, user.ID, "Temporary")
		if err != nil {
			return err
		}
		if err := tx.Recipes().SetTags(ctx, recipe.ID, []uint{tag.ID}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var recipes, tags, links int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&recipes).Error)
	require.NoError(t, db.Model(&models.Tag{}).Count(&tags).Error)
	require.NoError(t, db.Model(&models.RecipeTag{}).Count(&links).Error)
	assert.Zero(t, recipes)
	assert.Zero(t, tags)
	assert.Zero(t, links)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.CreateUser(t, db, "dup@example.com")
	err := repositories.NewGORMUserRepository(db).Create(context.Background(), &models.User{Email: "dup@example.com", Password: "x"})
	assert.ErrorIs(t, err, repositories.ErrDuplicateUser)
}
