package token

import "testing"

func TestLineCol(t *testing.T) {
	d := []byte("ab\ncd\n\nef")
	pd := NewPosDoc(d)
	for _, tc := range []struct {
		off, line, col int
	}{
		{0, 0, 0},
		{2, 0, 2},
		{3, 1, 0},
		{4, 1, 1},
		{6, 2, 0},
		{7, 3, 0},
		{9, 3, 2},
	} {
		l, c := pd.LineCol(tc.off)
		if l != tc.line || c != tc.col {
			t.Errorf("LineCol(%d) = %d,%d want %d,%d", tc.off, l, c, tc.line, tc.col)
		}
		off, err := pd.Offset(tc.line, tc.col)
		if err != nil {
			t.Errorf("Offset(%d, %d): %v", tc.line, tc.col, err)
			continue
		}
		if off != tc.off {
			t.Errorf("Offset(%d, %d) = %d want %d", tc.line, tc.col, off, tc.off)
		}
	}
	if _, err := pd.Offset(1, 5); err == nil {
		t.Errorf("expected error past end of line")
	}
}

func TestUTF16(t *testing.T) {
	// "é" is 2 bytes and 1 UTF-16 unit, "😀" is 4 bytes and 2 units.
	d := []byte("a: é😀x\nb")
	pd := NewPosDoc(d)
	off, err := pd.UTF16Offset(0, 6)
	if err != nil {
		t.Fatal(err)
	}
	if d[off] != 'x' {
		t.Errorf("UTF16Offset(0, 6) = %d (%q)", off, d[off])
	}
	l, c := pd.UTF16LineCol(off)
	if l != 0 || c != 6 {
		t.Errorf("UTF16LineCol(%d) = %d,%d", off, l, c)
	}
	off, _ = pd.UTF16Offset(0, 100)
	if d[off] != '\n' {
		t.Errorf("expected clamp to line end, got %d", off)
	}
	off, _ = pd.UTF16Offset(1, 0)
	if d[off] != 'b' {
		t.Errorf("UTF16Offset(1, 0) = %d", off)
	}
}
