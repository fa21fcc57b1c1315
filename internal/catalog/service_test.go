package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recordhub/internal/platform/metrics"
	"recordhub/pkg/domain"
	dErrors "recordhub/pkg/domain-errors"
)

func newTestService() *Service {
	return NewService(NewInMemoryStore(), nil)
}

func floatPtr(v float64) *float64 { return &v }

func TestCreateItem_Validation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	t.Run("collects every violation", func(t *testing.T) {
		_, err := svc.CreateItem(ctx, "", strings.Repeat("x", 501), floatPtr(-5), true)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

		fields := map[string]string{}
		for _, v := range dErrors.ViolationsOf(err) {
			fields[v.Field] = v.Rule
		}
		assert.Equal(t, "required", fields["name"])
		assert.Equal(t, "must be 500 characters or less", fields["description"])
		assert.Equal(t, "must not be negative", fields["price"])
	})

	t.Run("missing price reported as required, not negative", func(t *testing.T) {
		_, err := svc.CreateItem(ctx, "Widget", "", nil, true)
		require.Error(t, err)
		violations := dErrors.ViolationsOf(err)
		require.Len(t, violations, 1)
		assert.Equal(t, "price", violations[0].Field)
		assert.Equal(t, "required", violations[0].Rule)
	})

	t.Run("rejected item is not stored", func(t *testing.T) {
		_, err := svc.CreateItem(ctx, "", "", floatPtr(-1), false)
		require.Error(t, err)
		assert.Equal(t, 0, svc.ActiveCount(ctx))
	})

	t.Run("zero price is valid", func(t *testing.T) {
		item, err := svc.CreateItem(ctx, "Freebie", "", floatPtr(0), true)
		require.NoError(t, err)
		assert.Equal(t, 0.0, item.Price)
	})
}

func TestCreateItem_Defaults(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, "  Laptop  ", "portable", floatPtr(999.99), true)
	require.NoError(t, err)
	assert.Equal(t, "Laptop", item.Name, "name is trimmed")
	assert.False(t, item.ID.IsZero())
	assert.False(t, item.CreatedAt.IsZero())
	assert.Nil(t, item.UpdatedAt, "UpdatedAt unset until first update")
}

func TestUpdateItem(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, "Laptop", "old", floatPtr(999.99), true)
	require.NoError(t, err)

	t.Run("merges only supplied fields", func(t *testing.T) {
		updated, err := svc.UpdateItem(ctx, item.ID, Patch{Price: floatPtr(899.99)})
		require.NoError(t, err)
		assert.Equal(t, 899.99, updated.Price)
		assert.Equal(t, "Laptop", updated.Name)
		assert.Equal(t, "old", updated.Description)
		assert.NotNil(t, updated.UpdatedAt)
		assert.Equal(t, item.CreatedAt, updated.CreatedAt)
	})

	t.Run("invalid patch leaves record unchanged", func(t *testing.T) {
		_, err := svc.UpdateItem(ctx, item.ID, Patch{Price: floatPtr(-10)})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		violations := dErrors.ViolationsOf(err)
		require.Len(t, violations, 1)
		assert.Equal(t, "price", violations[0].Field)

		current, err := svc.GetItem(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, 899.99, current.Price)
	})

	t.Run("unknown ID maps to CodeNotFound", func(t *testing.T) {
		_, err := svc.UpdateItem(ctx, domain.NewItemID(), Patch{Price: floatPtr(1)})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestDeleteItem(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, "Gone", "", floatPtr(5), true)
	require.NoError(t, err)

	snapshot, err := svc.DeleteItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gone", snapshot.Name)

	_, err = svc.GetItem(ctx, item.ID)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = svc.DeleteItem(ctx, item.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestListItems_FilterValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	t.Run("negative bounds rejected before filtering", func(t *testing.T) {
		_, err := svc.ListItems(ctx, Filter{MinPrice: floatPtr(-1)})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))

		_, err = svc.ListItems(ctx, Filter{MaxPrice: floatPtr(-0.5)})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("empty collection lists empty", func(t *testing.T) {
		items, err := svc.ListItems(ctx, Filter{})
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestListItems_ObservesSearchDuration(t *testing.T) {
	m := metrics.New()
	svc := NewService(NewInMemoryStore(), m)
	ctx := context.Background()

	_, err := svc.CreateItem(ctx, "Widget", "", floatPtr(9.5), true)
	require.NoError(t, err)
	_, err = svc.ListItems(ctx, Filter{})
	require.NoError(t, err)

	assert.Equal(t, 1, testutil.CollectAndCount(m.SearchDuration), "filtered list recorded a duration sample")
}
