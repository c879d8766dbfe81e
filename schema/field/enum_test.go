package field_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/asenum/schema/field"
)

func TestEnum_Values(t *testing.T) {
	fd := field.Enum("status").
		Values("deleted", "active").
		Values("disabled").
		Comment("comment").
		Descriptor()
	assert.Equal(t, "status", fd.Name)
	assert.Equal(t, []field.Value{{N: "deleted", C: 0}, {N: "active", C: 1}, {N: "disabled", C: 2}}, fd.Values)
	assert.Equal(t, []int64{0, 1, 2}, fd.Codes())
	assert.Equal(t, "comment", fd.Comment)
	assert.True(t, fd.Whiny)
	assert.False(t, fd.Slim)
	assert.NoError(t, fd.Err)
}

func TestEnum_ExplicitCodes(t *testing.T) {
	fd := field.Enum("gender").Value("female", 1).Value("male", 0).Descriptor()
	assert.Equal(t, []field.Value{{N: "female", C: 1}, {N: "male", C: 0}}, fd.Values)

	fd = field.Enum("gender").Pairs("female", 1, "male", uint8(0)).Descriptor()
	require.NoError(t, fd.Err)
	assert.Equal(t, []field.Value{{N: "female", C: 1}, {N: "male", C: 0}}, fd.Values)

	fd = field.Enum("gender").Map(map[string]int64{"female": 1, "male": 0, "other": 1}).Descriptor()
	assert.Equal(t, []field.Value{{N: "male", C: 0}, {N: "female", C: 1}, {N: "other", C: 1}}, fd.Values)
}

func TestEnum_PairsErrors(t *testing.T) {
	fd := field.Enum("gender").Pairs("female", 1, "male").Descriptor()
	assert.ErrorContains(t, fd.Err, "odd number of arguments")

	fd = field.Enum("gender").Pairs(1, 1).Descriptor()
	assert.ErrorContains(t, fd.Err, "expect string name")

	fd = field.Enum("gender").Pairs("female", "one").Descriptor()
	assert.ErrorContains(t, fd.Err, `value "female"`)
	assert.Empty(t, fd.Values)
}

func TestEnum_Options(t *testing.T) {
	fd := field.Enum("gender").
		Values("male", "female").
		Column("sex").
		PrefixAttribute().
		Slim().
		Whiny(false).
		Dirty().
		Descriptor()
	assert.Equal(t, "sex", fd.Column)
	assert.True(t, fd.PrefixAttribute())
	assert.Empty(t, fd.Prefix)
	assert.True(t, fd.Slim)
	assert.False(t, fd.Whiny)
	assert.True(t, fd.Dirty)

	fd = field.Enum("gender").PrefixAttribute().Prefix("sex").StorageKey("g").Descriptor()
	assert.False(t, fd.PrefixAttribute())
	assert.Equal(t, "sex", fd.Prefix)
	assert.Equal(t, "g", fd.Column)
}

func TestIntCode(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    int64
		wantErr bool
	}{
		{"int", 3, 3, false},
		{"int8", int8(-1), -1, false},
		{"int16", int16(7), 7, false},
		{"int32", int32(8), 8, false},
		{"int64", int64(9), 9, false},
		{"uint8", uint8(1), 1, false},
		{"uint16", uint16(2), 2, false},
		{"uint32", uint32(3), 3, false},
		{"uint", uint(4), 4, false},
		{"uint64", uint64(5), 5, false},
		{"uint64 overflow", uint64(1 << 63), 0, true},
		{"string", "1", 0, true},
		{"float", 1.0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := field.IntCode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
