package mappers

func init() {
	RegisterMapper(0, &mapper0{baseMapper: &baseMapper{id: 0, name: "NROM"}})
}

// mapper0 implements iNES mapper 0 (NROM): no bank switching at all.
// $8000-$BFFF and $C000-$FFFF both address the cart's PRG data
// directly, with a 16KB ROM mirrored across both halves.
type mapper0 struct {
	*baseMapper
}

func (m *mapper0) New() Mapper {
	return &mapper0{baseMapper: &baseMapper{id: m.id, name: m.name}}
}

func (m *mapper0) PrgRead(addr uint16) uint8 {
	a := addr - 0x8000
	if m.rom.PrgSize() == 0x4000 {
		a %= 0x4000
	}
	return m.rom.PrgRead(int(a))
}

func (m *mapper0) PrgWrite(addr uint16, val uint8) {}

func (m *mapper0) ChrRead(addr uint16) uint8       { return m.rom.ChrRead(int(addr)) }
func (m *mapper0) ChrWrite(addr uint16, val uint8) {
	if m.rom.HasChrRAM() {
		m.rom.ChrWrite(int(addr), val)
	}
}
