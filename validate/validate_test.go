package validate_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/asenum/validate"
)

type account struct {
	role   string
	active bool
}

func requireRole(o validate.Options[*account]) validate.Validator[*account] {
	return validate.Conditional(o, validate.Func[*account](func(_ context.Context, a *account) []validate.Violation {
		if a.role == "" {
			return []validate.Violation{{Code: validate.CodeRequired, Field: "role", Message: o.MessageOr("can't be blank")}}
		}
		return nil
	}))
}

func TestValidators(t *testing.T) {
	ctx := context.Background()
	vs := validate.Validators[*account]{
		requireRole(validate.Options[*account]{}),
		validate.Func[*account](func(context.Context, *account) []validate.Violation {
			return []validate.Violation{{Code: validate.CodeInclusion, Field: "state", Message: validate.DefaultMessage}}
		}),
	}
	violations := vs.Validate(ctx, &account{})
	require.Len(t, violations, 2)
	assert.Equal(t, "role can't be blank", violations[0].String())
	assert.Equal(t, "state is invalid", violations[1].String())

	err := vs.Check(ctx, &account{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, validate.ErrInvalid))
	assert.Equal(t, "validate: multiple violations:\n  [1] role can't be blank\n  [2] state is invalid", err.Error())

	var verr *validate.Error
	require.True(t, errors.As(fmt.Errorf("save: %w", err), &verr))
	assert.Len(t, verr.On("role"), 1)
	assert.Empty(t, verr.On("name"))
}

func TestValidators_Check(t *testing.T) {
	vs := validate.Validators[*account]{requireRole(validate.Options[*account]{Message: "missing"})}
	assert.NoError(t, vs.Check(context.Background(), &account{role: "admin"}))

	err := vs.Check(context.Background(), &account{})
	assert.EqualError(t, err, "validate: role missing")
}

func TestConditional(t *testing.T) {
	ctx := context.Background()
	isActive := func(_ context.Context, a *account) bool { return a.active }

	tests := []struct {
		name string
		opts validate.Options[*account]
		acc  *account
		want int
	}{
		{"no conditions", validate.Options[*account]{}, &account{}, 1},
		{"if true", validate.Options[*account]{If: isActive}, &account{active: true}, 1},
		{"if false", validate.Options[*account]{If: isActive}, &account{}, 0},
		{"unless true", validate.Options[*account]{Unless: isActive}, &account{active: true}, 0},
		{"unless false", validate.Options[*account]{Unless: isActive}, &account{}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, requireRole(tt.opts).Validate(ctx, tt.acc), tt.want)
		})
	}
}

func TestOptions_MessageOr(t *testing.T) {
	assert.Equal(t, validate.DefaultMessage, validate.Options[int]{}.MessageOr(validate.DefaultMessage))
	assert.Equal(t, "nope", validate.Options[int]{Message: "nope"}.MessageOr(validate.DefaultMessage))
}
