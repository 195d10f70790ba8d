package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garden-care-backend/internal/model"
	"garden-care-backend/internal/store"
	"garden-care-backend/internal/testutil"
)

func TestBuiltin_IsValid(t *testing.T) {
	crops := Builtin()
	require.Len(t, crops, 5)
	for i := range crops {
		assert.NoError(t, Validate(&crops[i]), crops[i].Name)
	}

	// Strawberries are transplanted, so their cycle starts at seedling.
	assert.Equal(t, model.StageSeedling, crops[3].Stages[0].Stage)
	// Leaf crops end with an explicit harvest stage.
	assert.Equal(t, model.StageHarvest, crops[2].Stages[len(crops[2].Stages)-1].Stage)
}

func TestValidate(t *testing.T) {
	base := func() model.Crop {
		return model.Crop{
			Name: "Pea",
			Stages: []model.GrowthStageRule{
				{Sequence: 1, Stage: model.StageSeed, StageDays: 5},
				{Sequence: 2, Stage: model.StageGrowth, StageDays: 30},
			},
		}
	}

	testCases := []struct {
		name      string
		mutate    func(c *model.Crop)
		expectErr bool
	}{
		{name: "Valid crop", mutate: func(c *model.Crop) {}},
		{name: "Rules listed out of sequence are fine", mutate: func(c *model.Crop) {
			c.Stages[0], c.Stages[1] = c.Stages[1], c.Stages[0]
		}},
		{name: "No stages", mutate: func(c *model.Crop) { c.Stages = nil }, expectErr: true},
		{name: "Zero-day stage", mutate: func(c *model.Crop) { c.Stages[1].StageDays = 0 }, expectErr: true},
		{name: "Duplicate sequence", mutate: func(c *model.Crop) { c.Stages[1].Sequence = 1 }, expectErr: true},
		{name: "Unknown stage", mutate: func(c *model.Crop) { c.Stages[1].Stage = "dormant" }, expectErr: true},
		{name: "Stages out of biological order", mutate: func(c *model.Crop) {
			c.Stages[0].Stage = model.StageFruiting
		}, expectErr: true},
		{name: "Inverted band", mutate: func(c *model.Crop) {
			c.EnvironmentRequirements = requirements(model.EnvironmentRequirements{Temperature: band(30, 10, 20)})
		}, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := base()
			tc.mutate(&c)
			err := Validate(&c)
			if tc.expectErr {
				assert.ErrorIs(t, err, model.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCatalog_SeedAndLookup(t *testing.T) {
	ctx := context.Background()
	st := store.NewGormStore(testutil.NewDB(t))
	cat := New(st, time.Minute, zerolog.Nop())

	res, err := cat.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, res.CreatedCrops)
	assert.Equal(t, 5+5+4+4+4, res.CreatedStages)

	res, err = cat.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{}, res, "seeding twice creates nothing")

	crops, err := cat.Crops(ctx)
	require.NoError(t, err)
	require.Len(t, crops, 5)
	tomato := crops[0]
	assert.Equal(t, "Tomato", tomato.Name)
	assert.Equal(t, 25.0, tomato.Requirements().Temperature.Optimal)
	assert.Nil(t, tomato.Requirements().Light, "tomato defines sun hours, not a lux band")

	rules, err := cat.StageRules(ctx, tomato.ID)
	require.NoError(t, err)
	require.Len(t, rules, 5)
	assert.Equal(t, model.StageSeed, rules[0].Stage)
	assert.Equal(t, 7, rules[0].StageDays)
	assert.Len(t, rules[2].OtherTasks, 2)

	rule := RuleFor(rules, model.StageSeedling)
	require.NotNil(t, rule)
	assert.Equal(t, "nitrogen-rich", rule.FertilizerType)
	assert.Nil(t, RuleFor(rules, model.StageHarvest))

	_, err = cat.Crop(ctx, 9999)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCatalog_MemoizesLookups(t *testing.T) {
	ctx := context.Background()
	gormDB := testutil.NewDB(t)
	cat := New(store.NewGormStore(gormDB), time.Minute, zerolog.Nop())
	_, err := cat.Seed(ctx)
	require.NoError(t, err)

	crop, err := cat.Crop(ctx, 1)
	require.NoError(t, err)

	// A write behind the catalog's back is not seen until invalidation.
	require.NoError(t, gormDB.Model(&model.Crop{}).Where("id = ?", 1).Update("description", "changed").Error)
	again, err := cat.Crop(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, crop.Description, again.Description)

	cat.Invalidate()
	again, err = cat.Crop(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "changed", again.Description)
}
