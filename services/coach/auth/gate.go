// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This file defines an extension point. Per AGPL v3 Section 7,
// alternative implementations of these interfaces may be licensed
// separately. See NOTICE.txt for details.

// Package auth gates entry into the coaching workflow.
//
// The gate is intentionally opaque to the rest of the app: callers ask
// two yes/no questions and never see tokens, providers, or identity
// details. The default gate treats the local user as signed in, which
// matches a single-user installation talking to a LAN backend.
package auth

import (
	"os"
	"strings"
)

// SessionGate answers whether the auth layer is ready and whether a
// user is signed in. Implementations must be safe for concurrent use.
type SessionGate interface {
	// IsSessionLoaded reports whether the gate has finished restoring
	// its state. Callers wait for this before routing.
	IsSessionLoaded() bool

	// IsSignedIn reports whether a user is signed in. Only meaningful
	// once IsSessionLoaded returns true.
	IsSignedIn() bool
}

// LocalGate is the default gate: always loaded, always signed in.
type LocalGate struct{}

// NewLocalGate returns the default gate.
func NewLocalGate() *LocalGate { return &LocalGate{} }

func (*LocalGate) IsSessionLoaded() bool { return true }
func (*LocalGate) IsSignedIn() bool      { return true }

// TokenFileGate is signed in when a non-empty token file exists. It is
// the simplest real gate: an external tool writes the token, this gate
// only checks presence and never reads the token's meaning.
type TokenFileGate struct {
	path string
}

// NewTokenFileGate returns a gate backed by the file at path.
func NewTokenFileGate(path string) *TokenFileGate {
	return &TokenFileGate{path: path}
}

// IsSessionLoaded always reports true; a file check has no async
// restore step.
func (*TokenFileGate) IsSessionLoaded() bool { return true }

// IsSignedIn reports whether the token file exists and is non-blank.
func (g *TokenFileGate) IsSignedIn() bool {
	raw, err := os.ReadFile(g.path)
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(raw)) != ""
}

var (
	_ SessionGate = (*LocalGate)(nil)
	_ SessionGate = (*TokenFileGate)(nil)
)
