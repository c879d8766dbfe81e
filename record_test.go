package asenum_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/asenum"
)

func TestFields(t *testing.T) {
	var f asenum.Fields
	_, ok := f.Field("gender_cd")
	assert.False(t, ok)

	require.NoError(t, f.SetField("gender_cd", int64(1)))
	v, ok := f.Field("gender_cd")
	require.True(t, ok)
	assert.Equal(t, int64(1), v)
	assert.True(t, f.FieldChanged("gender_cd"))
	assert.Equal(t, []string{"gender_cd"}, f.ChangedFields())

	old, err := f.OldField(context.Background(), "gender_cd")
	require.NoError(t, err)
	assert.Nil(t, old)

	f.Commit()
	assert.Empty(t, f.ChangedFields())
	assert.Equal(t, map[string]asenum.Value{"gender_cd": int64(1)}, f.Map())
}

func TestFields_ChangeBack(t *testing.T) {
	f := asenum.NewFields(map[string]asenum.Value{"status_cd": int64(0)})
	assert.Empty(t, f.ChangedFields())

	require.NoError(t, f.SetField("status_cd", int64(2)))
	require.NoError(t, f.SetField("status_cd", int64(1)))
	old, err := f.OldField(context.Background(), "status_cd")
	require.NoError(t, err)
	assert.Equal(t, int64(0), old, "first value before the change is kept")

	require.NoError(t, f.SetField("status_cd", int64(0)))
	assert.False(t, f.FieldChanged("status_cd"))
}
