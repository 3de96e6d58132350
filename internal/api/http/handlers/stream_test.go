package handlers

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteEventFraming(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeEvent(&buf, "snapshot", []string{"a"}))
	assert.Equal(t, "event: snapshot\ndata: [\"a\"]\n\n", buf.String())

	assert.Error(t, writeEvent(&buf, "snapshot", func() {}))
}
