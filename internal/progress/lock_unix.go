// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build unix

package progress

import (
	"os"
	"syscall"
)

// lockFile takes an exclusive flock(2) on path, blocking until it is
// available. The returned func releases the lock and closes the file.
func lockFile(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		f.Close()
		return nil, err
	}
	return func() {
		syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
		f.Close()
	}, nil
}
