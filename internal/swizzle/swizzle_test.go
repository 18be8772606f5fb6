package swizzle

import (
	"bytes"
	"testing"
)

func TestBGR(t *testing.T) {
	p := []byte{1, 2, 3, 4, 5, 6}
	BGR(p)
	if want := []byte{3, 2, 1, 6, 5, 4}; !bytes.Equal(p, want) {
		t.Fatalf("BGR = %v, want %v", p, want)
	}
	BGR(p)
	if want := []byte{1, 2, 3, 4, 5, 6}; !bytes.Equal(p, want) {
		t.Fatalf("BGR twice = %v, want %v", p, want)
	}
}

func TestBGRIgnoresRaggedBuffer(t *testing.T) {
	p := []byte{1, 2, 3, 4}
	BGR(p)
	if want := []byte{1, 2, 3, 4}; !bytes.Equal(p, want) {
		t.Fatalf("BGR ragged = %v, want unchanged", p)
	}
}
