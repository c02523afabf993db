package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID(t *testing.T) {
	a := NewID()
	b := NewID()

	assert.Len(t, a, 24)
	assert.True(t, ValidID(a))
	assert.NotEqual(t, a, b)
	assert.Less(t, a, b)
}

func TestParseID(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "missing", input: "", wantErr: ErrMissingID},
		{name: "whitespace", input: "  ", wantErr: ErrMissingID},
		{name: "wrong length", input: "1234", wantErr: ErrInvalidID},
		{name: "non hex", input: "65f1c2a9e4b0a1b2c3d4e5fg", wantErr: ErrInvalidID},
		{name: "normalized", input: " 65F1C2A9E4B0A1B2C3D4E5F6 ", want: "65f1c2a9e4b0a1b2c3d4e5f6"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseID(tc.input)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, tc.want, got)
		})
	}
}
