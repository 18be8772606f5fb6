// Package swizzle converts packed pixel buffers between channel orders in
// place.
package swizzle

// BGR converts a tightly packed 3-byte pixel buffer between RGB and BGR byte
// orders. Buffers whose length is not a multiple of 3 are left untouched.
func BGR(p []byte) {
	if len(p)%3 != 0 {
		return
	}
	for i := 0; i < len(p); i += 3 {
		p[i+0], p[i+2] = p[i+2], p[i+0]
	}
}
