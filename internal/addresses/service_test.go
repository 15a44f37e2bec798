package addresses

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/vendora/internal/integrity"
	"github.com/angelmondragon/vendora/pkg/db/dbtest"
	"github.com/angelmondragon/vendora/pkg/db/models"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
)

func newService(t *testing.T) (Service, *integrity.Store, *dbtest.Fixtures) {
	t.Helper()
	client := dbtest.Open(t)
	store, err := integrity.New(integrity.Params{DB: client})
	require.NoError(t, err)
	svc, err := NewService(store, NewRepository(client.DB()))
	require.NoError(t, err)
	return svc, store, dbtest.NewFixtures(t, client.DB())
}

func homeInput(makeDefault bool) CreateInput {
	return CreateInput{
		FullName:    " Ada Obi ",
		PhoneNumber: "08031234567",
		Address:     "4 Broad Street",
		City:        "Lagos",
		State:       "Lagos",
		MakeDefault: makeDefault,
	}
}

func defaultAddress(t *testing.T, store *integrity.Store, user *models.User) *models.User {
	t.Helper()
	got, err := integrity.GetAs[*models.User](context.Background(), store, user.ID)
	require.NoError(t, err)
	return got
}

func TestCreateAppliesDefaults(t *testing.T) {
	svc, store, fx := newService(t)
	ctx := context.Background()
	user := fx.User()

	plain, err := svc.Create(ctx, user.ID, homeInput(false))
	require.NoError(t, err)
	assert.Equal(t, "Ada Obi", plain.FullName)
	assert.Equal(t, models.DefaultCountry, plain.Country)
	assert.Nil(t, defaultAddress(t, store, user).DefaultShippingAddressID)

	preferred, err := svc.Create(ctx, user.ID, homeInput(true))
	require.NoError(t, err)
	got := defaultAddress(t, store, user).DefaultShippingAddressID
	require.NotNil(t, got)
	assert.Equal(t, preferred.ID, *got)

	list, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCreateRollsBackWhenInvalid(t *testing.T) {
	svc, _, fx := newService(t)
	ctx := context.Background()
	user := fx.User()

	input := homeInput(true)
	input.PhoneNumber = "123"
	_, err := svc.Create(ctx, user.ID, input)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeRangeViolation))

	list, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpdateAndDeleteRequireOwnership(t *testing.T) {
	svc, _, fx := newService(t)
	ctx := context.Background()
	owner := fx.User()
	stranger := fx.User()
	address, err := svc.Create(ctx, owner.ID, homeInput(false))
	require.NoError(t, err)

	city := "Abuja"
	_, err = svc.Update(ctx, stranger.ID, address.ID, UpdateInput{City: &city})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
	assert.True(t, pkgerrors.Is(svc.Delete(ctx, stranger.ID, address.ID), pkgerrors.CodeNotFound))

	updated, err := svc.Update(ctx, owner.ID, address.ID, UpdateInput{City: &city})
	require.NoError(t, err)
	assert.Equal(t, "Abuja", updated.City)

	require.NoError(t, svc.Delete(ctx, owner.ID, address.ID))
}

func TestDefaultAddressCannotBeDeleted(t *testing.T) {
	svc, _, fx := newService(t)
	ctx := context.Background()
	user := fx.User()
	first, err := svc.Create(ctx, user.ID, homeInput(true))
	require.NoError(t, err)
	second, err := svc.Create(ctx, user.ID, homeInput(false))
	require.NoError(t, err)

	err = svc.Delete(ctx, user.ID, first.ID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeForeignKeyViolation))

	require.NoError(t, svc.MakeDefault(ctx, user.ID, second.ID))
	require.NoError(t, svc.Delete(ctx, user.ID, first.ID))

	other := fx.User()
	err = svc.MakeDefault(ctx, other.ID, second.ID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeForeignKeyViolation))
}
