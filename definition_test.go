package asenum_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/asenum"
	"github.com/syssam/asenum/schema/field"
)

func TestBuild_Sequence(t *testing.T) {
	names := []string{"deleted", "active", "disabled", "archived"}
	d, err := asenum.Build(field.Enum("status").Values(names...).Descriptor())
	require.NoError(t, err)
	for i, n := range names {
		c, ok := d.Code(n)
		require.True(t, ok)
		assert.Equal(t, int64(i), c)
	}
	assert.Equal(t, names, d.Names())
	assert.Equal(t, []int64{0, 1, 2, 3}, d.Codes())
	assert.Equal(t, 4, d.Len())
}

func TestBuild_RoundTrip(t *testing.T) {
	d, err := asenum.Build(field.Enum("level").Pairs("low", 10, "mid", 20, "high", 99).Descriptor())
	require.NoError(t, err)
	for _, n := range []string{"low", "mid", "high"} {
		c, ok := d.Code(n)
		require.True(t, ok)
		name, ok := d.Name(c)
		require.True(t, ok)
		assert.Equal(t, n, name)
	}
	_, ok := d.Name(11)
	assert.False(t, ok)
}

func TestBuild_Defaults(t *testing.T) {
	d, err := asenum.Build(field.Enum("gender").Values("male", "female").Descriptor())
	require.NoError(t, err)
	assert.Equal(t, "gender", d.Attribute())
	assert.Equal(t, "gender_cd", d.Column())
	assert.Empty(t, d.Prefix())
	assert.True(t, d.Shortcuts())
	assert.True(t, d.Whiny())
	assert.False(t, d.Dirty())
	assert.Equal(t, "female", d.ShortcutName("female"))
	assert.Equal(t, "female?", d.PredicateName("female"))
	assert.Equal(t, "female!", d.BangName("female"))

	d, err = asenum.Build(field.Enum("gender").Values("male").PrefixAttribute().Column("sex").Slim().Whiny(false).Descriptor())
	require.NoError(t, err)
	assert.Equal(t, "sex", d.Column())
	assert.Equal(t, "gender", d.Prefix())
	assert.Equal(t, "gender_male?", d.PredicateName("male"))
	assert.False(t, d.Shortcuts())
	assert.False(t, d.Whiny())
}

func TestBuild_ValuesCopy(t *testing.T) {
	d, err := asenum.Build(field.Enum("gender").Values("male", "female").Descriptor())
	require.NoError(t, err)
	vs := d.Values()
	vs[0].C = 42
	c, _ := d.Code("male")
	assert.Equal(t, int64(0), c)
	assert.Equal(t, int64(0), d.Values()[0].C)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		desc *field.Descriptor
		msg  string
	}{
		{"duplicate code", field.Enum("gender").Value("female", 1).Value("male", 1).Descriptor(), `duplicate code 1 for values "female" and "male"`},
		{"duplicate name", field.Enum("gender").Value("female", 1).Value("female", 2).Descriptor(), `duplicate value "female"`},
		{"negative code", field.Enum("gender").Value("female", -1).Descriptor(), `negative code -1`},
		{"invalid name", field.Enum("gender").Values("fe male").Descriptor(), `value "fe male" is not a valid identifier`},
		{"empty name", field.Enum("gender").Values("").Descriptor(), `value "" is not a valid identifier`},
		{"no values", field.Enum("gender").Descriptor(), "missing values"},
		{"invalid attribute", field.Enum("1gender").Values("a").Descriptor(), `attribute name "1gender"`},
		{"invalid column", field.Enum("gender").Values("a").Column("gender-cd").Descriptor(), `column "gender-cd"`},
		{"invalid prefix", field.Enum("gender").Values("a").Prefix("a b").Descriptor(), `prefix "a b"`},
		{"builder error", field.Enum("gender").Pairs("a").Descriptor(), "odd number of arguments"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := asenum.Build(tt.desc)
			require.Error(t, err)
			assert.Nil(t, d)
			assert.ErrorContains(t, err, tt.msg)
			assert.True(t, errors.Is(err, asenum.ErrConfiguration))
			assert.True(t, asenum.IsConfigurationError(fmt.Errorf("load: %w", err)))
		})
	}

	_, err := asenum.Build(nil)
	assert.True(t, asenum.IsConfigurationError(err))
}

func TestBuild_AllErrorsReported(t *testing.T) {
	_, err := asenum.Build(field.Enum("gender").Value("a", 1).Value("b", 1).Value("c", -2).Descriptor())
	var cerr *asenum.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "gender", cerr.Attribute)
	assert.Len(t, cerr.Messages, 2)
	assert.Equal(t, `asenum: invalid enum declaration "gender": duplicate code 1 for values "a" and "b"; value "c" has negative code -2`, err.Error())
}
