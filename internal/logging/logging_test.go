// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/literature-helper/pkg/types"
)

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(types.LogConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	logger, err := New(types.LogConfig{Level: "debug", File: path})
	require.NoError(t, err)

	logger.Info("hello", zap.String("paper", "2020-A"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"paper":"2020-A"`)
}

func TestWriter(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	w := Writer{Logger: zap.New(core)}

	n, err := fmt.Fprintf(w, "warning: skipping record %d\n", 3)
	require.NoError(t, err)
	assert.Equal(t, len("warning: skipping record 3\n"), n)

	fmt.Fprint(w, "\n")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "warning: skipping record 3", logs.All()[0].Message)
}
