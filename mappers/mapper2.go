package mappers

import "github.com/bdwalton/nescore/nesrom"

func init() {
	RegisterMapper(2, &mapper2{baseMapper: &baseMapper{id: 2, name: "UxROM"}})
}

// mapper2 implements iNES mapper 2 (UxROM): a single switchable 16KB
// PRG bank at $8000-$BFFF, selected by any write to $8000-$FFFF, with
// $C000-$FFFF fixed to the last bank. CHR is always RAM.
type mapper2 struct {
	*baseMapper

	bank uint8
}

func (m *mapper2) New() Mapper { return &mapper2{baseMapper: &baseMapper{id: m.id, name: m.name}} }

func (m *mapper2) PrgRead(addr uint16) uint8 {
	numBanks := m.rom.PrgSize() / 0x4000
	if addr < 0xC000 {
		return m.rom.PrgRead(int(m.bank)*0x4000 + int(addr-0x8000))
	}
	return m.rom.PrgRead((numBanks-1)*0x4000 + int(addr-0xC000))
}

func (m *mapper2) PrgWrite(addr uint16, val uint8) {
	if addr < 0x8000 {
		return
	}
	numBanks := uint8(m.rom.PrgSize() / 0x4000)
	m.bank = val % numBanks
}

func (m *mapper2) ChrRead(addr uint16) uint8       { return m.rom.ChrRead(int(addr)) }
func (m *mapper2) ChrWrite(addr uint16, val uint8) { m.rom.ChrWrite(int(addr), val) }

func (m *mapper2) SerializeState(w *nesrom.StateWriter, r *nesrom.StateReader) {
	if w != nil {
		w.Uint8("mapper2.bank", m.bank)
		return
	}
	m.bank = r.Uint8("mapper2.bank")
}
