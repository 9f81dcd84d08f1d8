package cloudwriter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3Writer_BuffersUntilClose(t *testing.T) {
	w := &S3Writer{bucket: "ro-telemetry", objectPath: "ro_data/readings/data.parquet"}

	n, err := w.Write([]byte("PAR1"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = w.Write([]byte("rows"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	// nothing is flushed before Close
	assert.Equal(t, "PAR1rows", w.buffer.String())
}
