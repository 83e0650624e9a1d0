// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLocalGate verifies the default gate admits immediately.
func TestLocalGate(t *testing.T) {
	g := NewLocalGate()
	assert.True(t, g.IsSessionLoaded())
	assert.True(t, g.IsSignedIn())
}

// TestTokenFileGate verifies presence-based sign-in.
func TestTokenFileGate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	g := NewTokenFileGate(path)

	assert.True(t, g.IsSessionLoaded())
	assert.False(t, g.IsSignedIn(), "missing file means signed out")

	require.NoError(t, os.WriteFile(path, []byte("   \n"), 0600))
	assert.False(t, g.IsSignedIn(), "blank token means signed out")

	require.NoError(t, os.WriteFile(path, []byte("tok-abc\n"), 0600))
	assert.True(t, g.IsSignedIn())
}
