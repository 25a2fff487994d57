package term

// brailleBuf is a per-cell 8-bit dot mask with one colour per cell.
type brailleBuf struct {
	w, h  int       // in cells
	m     [][]uint8 // per-cell 8-bit mask
	color [][]string
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	c := make([][]string, h)
	for i := range m {
		m[i] = make([]uint8, w)
		c[i] = make([]string, w)
	}
	return &brailleBuf{w: w, h: h, m: m, color: c}
}

// dotBit maps a dot position within its cell (2 wide, 4 tall) to the
// braille bit.
func dotBit(rx, ry int) uint8 {
	if rx == 0 {
		switch ry {
		case 0:
			return 0x01
		case 1:
			return 0x02
		case 2:
			return 0x04
		case 3:
			return 0x40
		}
	} else {
		switch ry {
		case 0:
			return 0x08
		case 1:
			return 0x10
		case 2:
			return 0x20
		case 3:
			return 0x80
		}
	}
	return 0
}

// setPixel sets a dot at dot coords (2x4 per cell)
func (b *brailleBuf) setPixel(mx, my int) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/2, mx%2
	cy, ry := my/4, my%4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= dotBit(rx, ry)
}

// fill order for density shading: bottom row first
var fillOrder = [8][2]int{{0, 3}, {1, 3}, {0, 2}, {1, 2}, {0, 1}, {1, 1}, {0, 0}, {1, 0}}

// fillLevel lights n of the 8 dots of a cell.
func (b *brailleBuf) fillLevel(cx, cy, n int, color string) {
	if cx < 0 || cy < 0 || cx >= b.w || cy >= b.h || n <= 0 {
		return
	}
	if n > 8 {
		n = 8
	}
	for i := 0; i < n; i++ {
		b.setPixel(cx*2+fillOrder[i][0], cy*4+fillOrder[i][1])
	}
	b.color[cy][cx] = color
}

func (b *brailleBuf) cell(cx, cy int) (rune, string) {
	mask := b.m[cy][cx]
	if mask == 0 {
		return ' ', ""
	}
	return rune(0x2800 + int(mask)), b.color[cy][cx]
}
