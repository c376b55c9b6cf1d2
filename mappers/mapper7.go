package mappers

import "github.com/bdwalton/nescore/nesrom"

func init() {
	RegisterMapper(7, &mapper7{baseMapper: &baseMapper{id: 7, name: "AxROM"}})
}

// mapper7 implements iNES mapper 7 (AxROM): a single switchable 32KB
// PRG bank spanning the whole $8000-$FFFF window, with one-screen
// mirroring selected by the same register write (bit 4).
type mapper7 struct {
	*baseMapper

	bank      uint8
	mirroring nesrom.MirrorMode
}

func (m *mapper7) New() Mapper {
	return &mapper7{baseMapper: &baseMapper{id: m.id, name: m.name}, mirroring: nesrom.MirrorOneScreenLower}
}

func (m *mapper7) NametableMirroring() (nesrom.MirrorMode, bool) { return m.mirroring, true }

func (m *mapper7) PrgRead(addr uint16) uint8 {
	return m.rom.PrgRead(int(m.bank)*0x8000 + int(addr-0x8000))
}

func (m *mapper7) PrgWrite(addr uint16, val uint8) {
	if addr < 0x8000 {
		return
	}
	numBanks := uint8(m.rom.PrgSize() / 0x8000)
	m.bank = val & 0x07
	if numBanks > 0 {
		m.bank %= numBanks
	}
	if val&0x10 != 0 {
		m.mirroring = nesrom.MirrorOneScreenUpper
	} else {
		m.mirroring = nesrom.MirrorOneScreenLower
	}
}

func (m *mapper7) ChrRead(addr uint16) uint8       { return m.rom.ChrRead(int(addr)) }
func (m *mapper7) ChrWrite(addr uint16, val uint8) { m.rom.ChrWrite(int(addr), val) }

func (m *mapper7) SerializeState(w *nesrom.StateWriter, r *nesrom.StateReader) {
	if w != nil {
		w.Uint8("mapper7.bank", m.bank)
		w.Uint8("mapper7.mirroring", uint8(m.mirroring))
		return
	}
	m.bank = r.Uint8("mapper7.bank")
	m.mirroring = nesrom.MirrorMode(r.Uint8("mapper7.mirroring"))
}
