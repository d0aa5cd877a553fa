package vm

import "fortio.org/safecast"

// Arithmetic is done in int64 and narrowed back; safecast reports values
// that do not fit into int32 instead of wrapping.

func addInt32Checked(a, b int32) (int32, bool) {
	r, err := safecast.Conv[int32](int64(a) + int64(b))
	return r, err == nil
}

func subInt32Checked(a, b int32) (int32, bool) {
	r, err := safecast.Conv[int32](int64(a) - int64(b))
	return r, err == nil
}

func mulInt32Checked(a, b int32) (int32, bool) {
	r, err := safecast.Conv[int32](int64(a) * int64(b))
	return r, err == nil
}

func negInt32Checked(a int32) (int32, bool) {
	r, err := safecast.Conv[int32](-int64(a))
	return r, err == nil
}
