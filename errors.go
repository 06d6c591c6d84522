package main

import "github.com/pkg/errors"

var (
	// ErrDesync means an identifier did not match the record at its computed
	// offset, or an id set was not contiguous. The registries cannot recover.
	ErrDesync = errors.New("protocol desync")

	// ErrProtocol is returned for malformed input lines
	ErrProtocol = errors.New("malformed input")
)

func desyncf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrDesync, format, args...)
}

func protocolf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrProtocol, format, args...)
}
