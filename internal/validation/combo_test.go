package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/combosss/combo-api/internal/model"
)

func validSubmission() model.ComboSubmission {
	return model.ComboSubmission{
		Combo:     model.ComboFields{CharacterID: 1, ComboName: "launcher"},
		Positions: []model.PositionFields{{PositionName: "crouch"}},
		Inputs:    [][]model.InputFields{{{InputName: "LK", InputSrc: "https://x/lk.png"}}},
	}
}

func fields(t *testing.T, err error) []string {
	t.Helper()
	var verrs Errors
	require.True(t, errors.As(err, &verrs), "expected validation.Errors, got %v", err)
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fe.Field)
	}
	return out
}

func TestCombo_Valid(t *testing.T) {
	assert.NoError(t, Struct(validSubmission()))
	s := validSubmission()
	assert.NoError(t, Struct(&s))
}

func TestCombo_EmptyArrays(t *testing.T) {
	s := validSubmission()
	s.Positions = []model.PositionFields{}
	s.Inputs = [][]model.InputFields{}
	assert.NoError(t, Struct(s))
}

func TestCombo_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.ComboSubmission)
		want   []string
	}{
		{
			name:   "positions and inputs missing",
			mutate: func(s *model.ComboSubmission) { s.Positions, s.Inputs = nil, nil },
			want:   []string{"positions", "inputs"},
		},
		{
			name: "more input groups than positions",
			mutate: func(s *model.ComboSubmission) {
				s.Inputs = append(s.Inputs, []model.InputFields{{InputName: "HP", InputSrc: "https://x/hp.png"}})
			},
			want: []string{"inputs"},
		},
		{
			name:   "fewer input groups than positions",
			mutate: func(s *model.ComboSubmission) { s.Inputs = [][]model.InputFields{} },
			want:   []string{"inputs"},
		},
		{
			name:   "non positive character",
			mutate: func(s *model.ComboSubmission) { s.Combo.CharacterID = 0 },
			want:   []string{"combo.characterID"},
		},
		{
			name:   "blank combo name",
			mutate: func(s *model.ComboSubmission) { s.Combo.ComboName = "  " },
			want:   []string{"combo.comboName"},
		},
		{
			name:   "blank position name",
			mutate: func(s *model.ComboSubmission) { s.Positions[0].PositionName = "" },
			want:   []string{"positions[0].positionName"},
		},
		{
			name: "bad input",
			mutate: func(s *model.ComboSubmission) {
				s.Inputs[0][0] = model.InputFields{InputName: "", InputSrc: "lk.png"}
			},
			want: []string{"inputs[0][0].inputName", "inputs[0][0].inputSrc"},
		},
		{
			name: "mismatch listed first",
			mutate: func(s *model.ComboSubmission) {
				s.Combo.ComboName = ""
				s.Inputs = append(s.Inputs, []model.InputFields{{InputName: "HP", InputSrc: "https://x/hp.png"}})
			},
			want: []string{"inputs", "combo.comboName"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSubmission()
			tt.mutate(&s)
			assert.Equal(t, tt.want, fields(t, Struct(s)))
		})
	}
}

func TestCatalogFields(t *testing.T) {
	assert.NoError(t, Struct(model.InputFields{InputName: "LK", InputSrc: "http://localhost:8080/a"}))
	assert.Equal(t, []string{"inputSrc"}, fields(t, Struct(model.InputFields{InputName: "LK", InputSrc: "ftp://x/lk.png"})))
	assert.Equal(t, []string{"positionName"}, fields(t, Struct(model.PositionFields{})))
}

func TestErrors_Error(t *testing.T) {
	err := Errors{{Field: "inputs", Message: "mismatch"}, {Field: "combo.comboName", Message: "required"}}
	assert.Equal(t, "validation failed: inputs: mismatch; combo.comboName: required", err.Error())
	assert.Nil(t, Errors(nil).Err())
}

func TestStruct_NotAStruct(t *testing.T) {
	err := Struct(42)
	require.Error(t, err)
	var verrs Errors
	assert.False(t, errors.As(err, &verrs))
}
