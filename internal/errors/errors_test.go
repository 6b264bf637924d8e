package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *PipelineError
		want string
	}{
		{
			name: "without cause",
			err:  NewInvalidRangeError("head quantity 10 exceeds 5 rows"),
			want: "[INVALID_RANGE] head quantity 10 exceeds 5 rows",
		},
		{
			name: "with cause",
			err:  NewIngestionError("open feed", stderrors.New("no such file")),
			want: "[INGESTION] open feed: no such file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("disk gone")
	err := NewIngestionError("read feed", cause)

	assert.True(t, stderrors.Is(err, cause))

	var pe *PipelineError
	require.True(t, stderrors.As(err, &pe))
	assert.Equal(t, ErrTypeIngestion, pe.Type)
}

func TestTypePredicates(t *testing.T) {
	assert.True(t, IsSchema(NewSchemaError("note")))
	assert.True(t, IsInvalidRange(NewInvalidRangeError("bad range")))
	assert.True(t, IsInsufficientData(NewInsufficientDataError("single row")))
	assert.True(t, IsIngestion(NewIngestionError("bad feed", nil)))

	assert.False(t, IsSchema(NewIngestionError("bad feed", nil)))
	assert.False(t, IsInvalidRange(stderrors.New("plain error")))
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("select window: %w", NewInvalidRangeError("end before begin"))
	assert.True(t, IsInvalidRange(err))
}

func TestWithContext(t *testing.T) {
	err := NewSchemaError("lat")
	assert.Equal(t, "lat", err.Context["column"])

	err.WithContext("feed", "regional")
	assert.Equal(t, "regional", err.Context["feed"])
}
