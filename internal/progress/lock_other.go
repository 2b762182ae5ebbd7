// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build !unix

package progress

// lockFile is a no-op off unix; only the in-process mutex applies.
func lockFile(string) (func(), error) {
	return func() {}, nil
}
