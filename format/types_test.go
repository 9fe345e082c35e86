package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldType_String(t *testing.T) {
	tests := []struct {
		ft   FieldType
		want string
	}{
		{TagInt64, "Int64"},
		{TagFloat64, "Float64"},
		{FieldType(0xFF), "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.ft.String())
	}
}

func TestSizes(t *testing.T) {
	assert.Equal(t, 24, HeaderSize)
	assert.Equal(t, 54, RecordSize)
	assert.Equal(t, 6, FieldCount)
}
