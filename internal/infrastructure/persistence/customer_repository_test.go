package persistence

import (
	"context"
	"testing"

	"github.com/livesale/backend/internal/domain/customer"
	"github.com/livesale/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCustomerRepository_Upsert(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()
	phone := valueobject.MustNewPhone("(31) 99876-5432")

	first := customer.NewCustomer(phone)
	first.Merge(customer.Identity{SocialHandle: "@Maria.Live", Name: "Maria"})
	require.NoError(t, repo.Upsert(ctx, first))

	t.Run("second upsert for the same phone updates in place", func(t *testing.T) {
		again := customer.NewCustomer(phone)
		again.Merge(customer.Identity{SocialHandle: "@maria_nova"})
		require.NoError(t, repo.Upsert(ctx, again))

		found, err := repo.FindByPhone(ctx, phone)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, first.ID, found.ID)
		assert.Equal(t, "maria_nova", found.SocialHandle)
		assert.Equal(t, "Maria", found.Name, "empty name keeps the stored one")

		var count int64
		require.NoError(t, db.Table("customers").Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("find by handle ignores @ and case", func(t *testing.T) {
		found, err := repo.FindByHandle(ctx, "@MARIA_NOVA")

		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, phone, found.Phone)
	})
}

func TestGormCustomerRepository_UnknownReturnsNil(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()

	byPhone, err := repo.FindByPhone(ctx, valueobject.MustNewPhone("11912345678"))
	assert.NoError(t, err)
	assert.Nil(t, byPhone)

	byHandle, err := repo.FindByHandle(ctx, "@ninguem")
	assert.NoError(t, err)
	assert.Nil(t, byHandle)

	empty, err := repo.FindByHandle(ctx, "  @ ")
	assert.NoError(t, err)
	assert.Nil(t, empty)
}

func TestGormCustomerRepository_AddressRoundTrip(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()

	c := customer.NewCustomer(valueobject.MustNewPhone("21987654321"))
	addr, err := valueobject.NewAddress("Rua das Flores", "120", "Rio de Janeiro", "rj", "20040-020",
		valueobject.WithDistrict("Centro"))
	require.NoError(t, err)
	c.Address = addr
	require.NoError(t, repo.Upsert(ctx, c))

	found, err := repo.FindByPhone(ctx, c.Phone)
	require.NoError(t, err)
	assert.Equal(t, "RJ", found.Address.State())
	assert.Equal(t, "Centro", found.Address.District())
	assert.Equal(t, "20040020", found.Address.PostalCode().String())
}
