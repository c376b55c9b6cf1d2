package mappers

import "github.com/bdwalton/nescore/nesrom"

func init() {
	RegisterMapper(3, &mapper3{baseMapper: &baseMapper{id: 3, name: "CNROM"}})
}

// mapper3 implements iNES mapper 3 (CNROM): fixed PRG, with any write
// to $8000-$FFFF selecting an 8KB CHR bank.
type mapper3 struct {
	*baseMapper

	chrBank uint8
}

func (m *mapper3) New() Mapper { return &mapper3{baseMapper: &baseMapper{id: m.id, name: m.name}} }

func (m *mapper3) PrgRead(addr uint16) uint8 {
	a := addr - 0x8000
	if m.rom.PrgSize() == 0x4000 {
		a %= 0x4000
	}
	return m.rom.PrgRead(int(a))
}

func (m *mapper3) PrgWrite(addr uint16, val uint8) {
	if addr < 0x8000 {
		return
	}
	numBanks := uint8(m.rom.ChrSize() / 0x2000)
	if numBanks > 0 {
		m.chrBank = val % numBanks
	}
}

func (m *mapper3) ChrRead(addr uint16) uint8 {
	return m.rom.ChrRead(int(m.chrBank)*0x2000 + int(addr))
}

func (m *mapper3) ChrWrite(addr uint16, val uint8) {}

func (m *mapper3) SerializeState(w *nesrom.StateWriter, r *nesrom.StateReader) {
	if w != nil {
		w.Uint8("mapper3.chrBank", m.chrBank)
		return
	}
	m.chrBank = r.Uint8("mapper3.chrBank")
}
