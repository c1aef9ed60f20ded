package token

import (
	"fmt"
	"sort"
	"strconv"
	"unicode/utf8"
)

// PosDoc translates between byte offsets and line/column positions of a
// document.
type PosDoc struct {
	d []byte
	n []int
}

func NewPosDoc(d []byte) *PosDoc {
	p := &PosDoc{d: d}
	for i, c := range d {
		if c == '\n' {
			p.n = append(p.n, i)
		}
	}
	return p
}

func (p *PosDoc) Bytes() []byte {
	return p.d
}

// LineCol returns the 0 based line and byte column of off.
func (p *PosDoc) LineCol(off int) (int, int) {
	N := len(p.n)
	di := sort.Search(N, func(i int) bool {
		return p.n[i] >= off
	})
	switch di {
	case 0:
		return 0, off
	default:
		return di, off - p.n[di-1] - 1
	}
}

// LineStart returns the offset of the first byte of line, clamped to
// the document.
func (p *PosDoc) LineStart(line int) int {
	switch {
	case line <= 0:
		return 0
	case line > len(p.n):
		return len(p.d)
	default:
		return p.n[line-1] + 1
	}
}

func (p *PosDoc) lineEnd(line int) int {
	if line < len(p.n) {
		return p.n[line]
	}
	return len(p.d)
}

// Offset returns the byte offset of a line and byte column.
func (p *PosDoc) Offset(line, col int) (int, error) {
	if line < 0 || line > len(p.n) || col < 0 {
		return 0, fmt.Errorf("%w: line %d col %d", ErrPosition, line, col)
	}
	start := p.LineStart(line)
	end := p.lineEnd(line)
	if start+col > end {
		return end, fmt.Errorf("%w: line %d col %d", ErrPosition, line, col)
	}
	return start + col, nil
}

// UTF16Offset returns the byte offset of a line and UTF-16 code unit
// column, the unit language server positions use.  Columns past the end
// of the line clamp to the line end.
func (p *PosDoc) UTF16Offset(line, char int) (int, error) {
	if line < 0 || char < 0 {
		return 0, fmt.Errorf("%w: line %d char %d", ErrPosition, line, char)
	}
	if line > len(p.n) {
		return len(p.d), nil
	}
	i := p.LineStart(line)
	end := p.lineEnd(line)
	for u := 0; u < char && i < end; {
		r, sz := utf8.DecodeRune(p.d[i:end])
		if r >= 0x10000 {
			u += 2
		} else {
			u++
		}
		i += sz
	}
	return i, nil
}

// UTF16LineCol returns the line and UTF-16 column of off.
func (p *PosDoc) UTF16LineCol(off int) (int, int) {
	off = min(max(off, 0), len(p.d))
	line, _ := p.LineCol(off)
	i := p.LineStart(line)
	u := 0
	for i < off {
		r, sz := utf8.DecodeRune(p.d[i:off])
		if r >= 0x10000 {
			u += 2
		} else {
			u++
		}
		i += sz
	}
	return line, u
}

func (d *PosDoc) Pos(i int) *Pos {
	return &Pos{
		I: i,
		D: d,
	}
}

type Pos struct {
	I int
	D *PosDoc
}

func (p *Pos) LineCol() (int, int) {
	return p.D.LineCol(p.I)
}

func (p *Pos) Line() int {
	l, _ := p.LineCol()
	return l
}

func (p *Pos) Col() int {
	_, c := p.LineCol()
	return c
}

func (p Pos) String() string {
	sample := string(p.D.d[max(0, min(p.I, len(p.D.d))-5):min(p.I+5, len(p.D.d))])
	sample = strconv.Quote(sample)
	sample = sample[1 : len(sample)-1]
	return fmt.Sprintf("`...%s...` at offset %d (line=%d, col=%d)", sample, p.I, p.Line(), p.Col())
}
