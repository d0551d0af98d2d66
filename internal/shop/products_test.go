package shop

import (
	"context"
	"testing"

	"github.com/gomallhq/gomall/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProductRequiresSellerRole(t *testing.T) {
	f := newMallFixture(t)
	svc := NewProductService(f.db)

	_, err := svc.Create(context.Background(), f.customerIdent(), ProductInput{
		Name:       "forbidden",
		Price:      1,
		CategoryID: f.category.ID,
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateProductValidation(t *testing.T) {
	f := newMallFixture(t)
	svc := NewProductService(f.db)
	ctx := context.Background()
	ident := f.sellerIdent()

	_, err := svc.Create(ctx, ident, ProductInput{Name: "  ", Price: 1, CategoryID: f.category.ID})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, ident, ProductInput{Name: "neg", Price: -1, CategoryID: f.category.ID})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, ident, ProductInput{Name: "lost", Price: 1, CategoryID: 990011})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProductOwnership(t *testing.T) {
	f := newMallFixture(t)
	svc := NewProductService(f.db)
	ctx := context.Background()

	rival := seedUser(t, f.db, "mallory", &domain.Role{ID: f.seller.RoleID})
	rivalIdent := Identity{UserID: rival.ID, Username: rival.Username, Role: "Seller"}

	_, err := svc.Update(ctx, rivalIdent, f.widget.ID, ProductInput{
		Name:       "hijacked",
		Price:      1,
		CategoryID: f.category.ID,
	})
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.Delete(ctx, rivalIdent, f.widget.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := svc.Update(ctx, f.sellerIdent(), f.widget.ID, ProductInput{
		Name:       "widget mk2",
		Price:      12,
		CategoryID: f.category.ID,
		Published:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, "widget mk2", got.Name)
	assert.InDelta(t, 12, got.Price, 0.001)
}

func TestListMineIncludesUnpublished(t *testing.T) {
	f := newMallFixture(t)
	svc := NewProductService(f.db)
	seedProduct(t, f.db, "draft", f.category, f.seller, unpublished())

	mine, err := svc.ListMine(context.Background(), f.sellerIdent())
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	_, err = svc.ListMine(context.Background(), f.customerIdent())
	assert.ErrorIs(t, err, ErrForbidden)
}
