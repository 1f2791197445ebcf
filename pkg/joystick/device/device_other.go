//go:build !linux
// +build !linux

package device

// Open is not supported.
func Open(index int) (Device, error) {
	return nil, ErrUnsupported
}
