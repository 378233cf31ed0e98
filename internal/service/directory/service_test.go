package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBoxService/internal/testutil/memstore"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/logger"
)

const org = "org-1"

func TestResolver_ResolveCenterIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	resolver := NewResolver(store, org, logger.NewNop())

	first, created, err := resolver.ResolveCenter(ctx, "Centro Norte")
	require.NoError(t, err)
	assert.True(t, created)

	for _, name := range []string{"centro norte", "  CENTRO NORTE ", "Centro Norte"} {
		center, created, err := resolver.ResolveCenter(ctx, name)
		require.NoError(t, err)
		assert.False(t, created, name)
		assert.Equal(t, first.ID, center.ID)
	}

	assert.Len(t, store.Centers(), 1)
	assert.Equal(t, 1, resolver.Stats().CentersCreated)
	assert.Equal(t, "Centro Norte", store.Centers()[0].Name)
}

func TestResolver_LoadsExistingEntities(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	seed := NewResolver(store, org, logger.NewNop())
	center, _, err := seed.ResolveCenter(ctx, "Centro")
	require.NoError(t, err)
	box, _, err := seed.ResolveBox(ctx, center.ID, "Box 1")
	require.NoError(t, err)
	doctor, _, err := seed.ResolveDoctor(ctx, center.ID, "Dra. Rojas")
	require.NoError(t, err)

	resolver := NewResolver(store, org, logger.NewNop())

	gotBox, created, err := resolver.ResolveBox(ctx, center.ID, "box 1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, box.ID, gotBox.ID)

	gotDoctor, err := resolver.DoctorByID(ctx, center.ID, doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dra. Rojas", gotDoctor.Name)

	_, found, err := resolver.FindBox(ctx, center.ID, "Box 2")
	require.NoError(t, err)
	assert.False(t, found)

	assert.Equal(t, ResolverStats{}, resolver.Stats())
}

func TestResolver_OrgIsolation(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	_, _, err := NewResolver(store, "org-a", logger.NewNop()).ResolveCenter(ctx, "Centro")
	require.NoError(t, err)

	_, created, err := NewResolver(store, "org-b", logger.NewNop()).ResolveCenter(ctx, "Centro")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Len(t, store.Centers(), 2)
}

func TestResolver_EmptyName(t *testing.T) {
	resolver := NewResolver(memstore.New(), org, logger.NewNop())

	_, _, err := resolver.ResolveCenter(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestResolver_DoctorFromOtherCenter(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	resolver := NewResolver(store, org, logger.NewNop())

	a, _, err := resolver.ResolveCenter(ctx, "A")
	require.NoError(t, err)
	b, _, err := resolver.ResolveCenter(ctx, "B")
	require.NoError(t, err)
	doctor, _, err := resolver.ResolveDoctor(ctx, a.ID, "Dr. Soto")
	require.NoError(t, err)

	_, err = resolver.DoctorByID(ctx, b.ID, doctor.ID)
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestService_ListBoxesNaturalOrder(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memstore.New(), logger.NewNop())

	center, created, err := svc.CreateCenter(ctx, org, "Centro")
	require.NoError(t, err)
	require.True(t, created)

	for _, name := range []string{"Box 10", "Box 2", "Box 1"} {
		_, _, err := svc.CreateBox(ctx, org, center.ID, name)
		require.NoError(t, err)
	}

	boxes, err := svc.ListBoxes(ctx, org, center.ID)
	require.NoError(t, err)
	require.Len(t, boxes, 3)
	assert.Equal(t, "Box 1", boxes[0].Name)
	assert.Equal(t, "Box 2", boxes[1].Name)
	assert.Equal(t, "Box 10", boxes[2].Name)
}

func TestService_CreateDuplicateReturnsExisting(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memstore.New(), logger.NewNop())

	center, _, err := svc.CreateCenter(ctx, org, "Centro")
	require.NoError(t, err)

	first, created, err := svc.CreateDoctor(ctx, org, center.ID, "Dr. Pérez")
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := svc.CreateDoctor(ctx, org, center.ID, "dr. pérez")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	doctors, err := svc.ListDoctors(ctx, org, center.ID)
	require.NoError(t, err)
	assert.Len(t, doctors, 1)
}

func TestService_UnknownCenter(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memstore.New(), logger.NewNop())

	_, _, err := svc.CreateBox(ctx, org, "missing", "Box 1")
	assert.ErrorIs(t, err, ErrCenterNotFound)

	_, err = svc.ListDoctors(ctx, org, "missing")
	assert.ErrorIs(t, err, ErrCenterNotFound)
}

func TestService_ValidateName(t *testing.T) {
	svc := NewService(memstore.New(), logger.NewNop())

	_, _, err := svc.CreateCenter(context.Background(), org, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
