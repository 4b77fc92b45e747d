//go:build !linux

package workerpool

// PinToCPU is not supported outside Linux.
func PinToCPU(int) error { return ErrPinUnsupported }
