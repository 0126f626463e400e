package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/fashly/pkg/errors"
)

func TestRecordRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewRecordRepository()

	_, err := repo.Get(ctx, "cart:s1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	data := []byte(`[{"id":1}]`)
	require.NoError(t, repo.Save(ctx, "cart:s1", data))
	data[0] = 'X'

	got, err := repo.Get(ctx, "cart:s1")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, string(got))

	got[0] = 'Y'
	again, _ := repo.Get(ctx, "cart:s1")
	assert.Equal(t, `[{"id":1}]`, string(again))
	assert.Equal(t, 1, repo.Len())

	require.NoError(t, repo.Delete(ctx, "cart:s1"))
	require.NoError(t, repo.Delete(ctx, "cart:s1"))
	_, err = repo.Get(ctx, "cart:s1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
