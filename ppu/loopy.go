package ppu

// loopy stores a PPU scroll register (v or t) and exposes the
// sub-fields used by the background pipeline:
// yyy NN YYYYY XXXXX
// ||| || ||||| +++++-- coarse X scroll
// ||| || +++++-------- coarse Y scroll
// ||| ++-------------- nametable select
// +++----------------- fine Y scroll
type loopy struct {
	data uint16 // only 15 bits used
}

func (l *loopy) coarseX() uint16 { return l.data & 0x001F }

func (l *loopy) setCoarseX(n uint16) { l.data = (l.data & 0xFFE0) | (n & 0x001F) }

// incrementCoarseX wraps at 31 into the next horizontal nametable,
// per spec.md's background pipeline dot-257-adjacent coarse-X step.
func (l *loopy) incrementCoarseX() {
	if l.coarseX() == 31 {
		l.data &^= 0x001F
		l.toggleNametableX()
		return
	}
	l.data++
}

func (l *loopy) coarseY() uint16 { return (l.data & 0x03E0) >> 5 }

func (l *loopy) setCoarseY(n uint16) { l.data = (l.data & 0xFC1F) | ((n & 0x1F) << 5) }

// incrementCoarseY wraps at 29 (the last row of real tile data) into
// the next vertical nametable, skipping the two attribute rows (30,
// 31) a naive mod-32 wrap would otherwise walk into, per spec.md's
// documented "skip 31" fine-Y increment edge case.
func (l *loopy) incrementCoarseY() {
	y := l.coarseY()
	switch {
	case y == 29:
		l.setCoarseY(0)
		l.toggleNametableY()
	case y == 31:
		l.setCoarseY(0)
	default:
		l.setCoarseY(y + 1)
	}
}

func (l *loopy) nametableX() uint16 { return (l.data & 0x0400) >> 10 }

func clearBit(n, pos uint16) uint16 {
	return n &^ (uint16(1) << (pos - 1))
}

func (l *loopy) setNametableX(v uint16) {
	if v&1 != 0 {
		l.data |= 1 << 10
	} else {
		l.data = clearBit(l.data, 11)
	}
}

func (l *loopy) toggleNametableX() { l.setNametableX(l.nametableX() ^ 1) }

func (l *loopy) nametableY() uint16 { return (l.data & 0x0800) >> 11 }

func (l *loopy) setNametableY(v uint16) {
	if v&1 != 0 {
		l.data |= 1 << 11
	} else {
		l.data = clearBit(l.data, 12)
	}
}

func (l *loopy) toggleNametableY() { l.setNametableY(l.nametableY() ^ 1) }

func (l *loopy) fineY() uint16 { return (l.data & 0x7000) >> 12 }

func (l *loopy) incrementFineY() {
	if l.fineY() == 7 {
		l.data &= 0x0FFF
		l.incrementCoarseY()
		return
	}
	l.data = (l.data & 0x0FFF) | ((l.fineY() + 1) << 12)
}

func (l *loopy) setFineY(n uint16) { l.data = (l.data & 0x0FFF) | ((n & 0x07) << 12) }

// transferX copies the horizontal scroll position (coarse X,
// nametable X) from src into l - the dot-257 "horizontal t->v copy"
// spec.md describes.
func (l *loopy) transferX(src *loopy) {
	l.setCoarseX(src.coarseX())
	l.setNametableX(src.nametableX())
}

// transferY copies the vertical scroll position (coarse Y, fine Y,
// nametable Y) from src into l - the dots-280-304 "vertical t->v
// copy" on the pre-render scanline.
func (l *loopy) transferY(src *loopy) {
	l.setCoarseY(src.coarseY())
	l.setFineY(src.fineY())
	l.setNametableY(src.nametableY())
}
