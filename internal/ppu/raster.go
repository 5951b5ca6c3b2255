package ppu

import "github.com/FabianRolfMatthiasNoll/dmgemu/internal/mmu"

// OAM attribute bits.
const (
	attrXFlip = 1 << 5
	attrYFlip = 1 << 6
)

// raster composes the full frame: background first, sampled per line with
// the scroll values captured during that line's pixel transfer, then the
// 40 OAM sprites on top.
func (p *PPU) raster() {
	p.composeBackground()

	for y := 0; y < Height; y++ {
		scy := p.params[y].scy
		scx := p.params[y].scx
		for x := 0; x < Width; x++ {
			p.fb[y][x] = p.bg[byte(y)+scy][byte(x)+scx]
		}
	}

	p.drawSprites()
}

// composeBackground paints the 32x32 tile map into the 256x256 composite,
// already mapped through the BG palette.
func (p *PPU) composeBackground() {
	palette := p.mmu.Read(mmu.AddrBGP)
	for ty := 0; ty < 32; ty++ {
		for tx := 0; tx < 32; tx++ {
			tile := p.mmu.BGTileAddr(tx, ty)
			for y := 0; y < 8; y++ {
				hi := p.mmu.Read(tile + uint16(y)*2)
				lo := p.mmu.Read(tile + uint16(y)*2 + 1)
				for x := 0; x < 8; x++ {
					color := ((hi>>(7-x))&1)<<1 | ((lo >> (7 - x)) & 1)
					p.bg[ty*8+y][tx*8+x] = (palette >> (color * 2)) & 3
				}
			}
		}
	}
}

// drawSprites walks the 40 OAM entries. Sprite tiles address unsigned from
// 0x8000; palette index 0 is transparent. 8x16 sprites and the priority
// bit are not handled.
func (p *PPU) drawSprites() {
	palette := p.mmu.Read(mmu.AddrOBP0)

	for entry := uint16(0xFE00); entry < 0xFEA0; entry += 4 {
		y := int(p.mmu.Read(entry)) - 16
		x := int(p.mmu.Read(entry+1)) - 8
		tile := p.mmu.Read(entry + 2)
		attr := p.mmu.Read(entry + 3)

		if x+8 <= 0 || x >= Width || y+8 <= 0 || y >= Height {
			continue
		}

		base := 0x8000 + uint16(tile)*16
		for py := 0; py < 8; py++ {
			row := py
			if attr&attrYFlip != 0 {
				row = 7 - py
			}
			hi := p.mmu.Read(base + uint16(row)*2)
			lo := p.mmu.Read(base + uint16(row)*2 + 1)
			for px := 0; px < 8; px++ {
				col := px
				if attr&attrXFlip != 0 {
					col = 7 - px
				}
				color := ((hi>>(7-col))&1)<<1 | ((lo >> (7 - col)) & 1)
				if color == 0 {
					continue
				}
				fx, fy := x+px, y+py
				if fx < 0 || fx >= Width || fy < 0 || fy >= Height {
					continue
				}
				p.fb[fy][fx] = (palette >> (color * 2)) & 3
			}
		}
	}
}
