package shop

import (
	"context"
	"testing"

	"github.com/gomallhq/gomall/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemUpsertsQuantity(t *testing.T) {
	f := newMallFixture(t)
	svc := NewCartService(f.db)
	ctx := context.Background()
	ident := f.customerIdent()

	first, err := svc.AddItem(ctx, ident, f.widget.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Quantity)

	second, err := svc.AddItem(ctx, ident, f.widget.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.Quantity)

	assert.EqualValues(t, 1, countRows(t, f.db, &domain.CartItem{}))
}

func TestAddItemUnknownProduct(t *testing.T) {
	f := newMallFixture(t)
	svc := NewCartService(f.db)

	_, err := svc.AddItem(context.Background(), f.customerIdent(), 424242, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddItemUnpublishedProductHiddenFromOthers(t *testing.T) {
	f := newMallFixture(t)
	svc := NewCartService(f.db)
	ctx := context.Background()
	draft := seedProduct(t, f.db, "draft", f.category, f.seller, unpublished())

	_, err := svc.AddItem(ctx, f.customerIdent(), draft.ID, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	// The owner still sees their own unpublished listing.
	_, err = svc.AddItem(ctx, f.sellerIdent(), draft.ID, 1)
	assert.NoError(t, err)
}

func TestAddItemRejectsBadQuantity(t *testing.T) {
	f := newMallFixture(t)
	svc := NewCartService(f.db)

	_, err := svc.AddItem(context.Background(), f.customerIdent(), f.widget.ID, 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateQuantityFloorDeletesRow(t *testing.T) {
	f := newMallFixture(t)
	svc := NewCartService(f.db)
	ctx := context.Background()
	ident := f.customerIdent()

	item, err := svc.AddItem(ctx, ident, f.widget.ID, 1)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateQuantity(ctx, ident, item.ID, -1))

	assert.EqualValues(t, 0, countRows(t, f.db, &domain.CartItem{}))

	// No row with quantity <= 0 may ever exist.
	var below int64
	require.NoError(t, f.db.Model(&domain.CartItem{}).Where("quantity <= 0").Count(&below).Error)
	assert.EqualValues(t, 0, below)
}

func TestUpdateQuantityAppliesDelta(t *testing.T) {
	f := newMallFixture(t)
	svc := NewCartService(f.db)
	ctx := context.Background()
	ident := f.customerIdent()

	item, err := svc.AddItem(ctx, ident, f.widget.ID, 2)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateQuantity(ctx, ident, item.ID, 3))

	var got domain.CartItem
	require.NoError(t, f.db.First(&got, item.ID).Error)
	assert.Equal(t, 5, got.Quantity)
}

func TestCartOwnershipEnforced(t *testing.T) {
	f := newMallFixture(t)
	svc := NewCartService(f.db)
	ctx := context.Background()

	item, err := svc.AddItem(ctx, f.customerIdent(), f.widget.ID, 2)
	require.NoError(t, err)

	intruder := Identity{UserID: f.seller.ID, Username: f.seller.Username, Role: RoleUser}

	assert.ErrorIs(t, svc.UpdateQuantity(ctx, intruder, item.ID, 1), ErrForbidden)
	assert.ErrorIs(t, svc.RemoveItem(ctx, intruder, item.ID), ErrForbidden)

	// The row is untouched.
	var got domain.CartItem
	require.NoError(t, f.db.First(&got, item.ID).Error)
	assert.Equal(t, 2, got.Quantity)
}

func TestUpdateQuantityUnknownItem(t *testing.T) {
	f := newMallFixture(t)
	svc := NewCartService(f.db)

	err := svc.UpdateQuantity(context.Background(), f.customerIdent(), 990011, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListItemsTotals(t *testing.T) {
	f := newMallFixture(t)
	svc := NewCartService(f.db)
	ctx := context.Background()
	ident := f.customerIdent()

	_, err := svc.AddItem(ctx, ident, f.widget.ID, 2) // 2 x 10
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, ident, f.gadget.ID, 1) // 1 x 25
	require.NoError(t, err)

	items, total, err := svc.ListItems(ctx, ident)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.InDelta(t, 45, total, 0.001)
	for _, item := range items {
		require.NotNil(t, item.Product)
	}
}
