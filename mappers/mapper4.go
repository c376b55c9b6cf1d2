package mappers

import "github.com/bdwalton/nescore/nesrom"

func init() {
	RegisterMapper(4, &mapper4{baseMapper: &baseMapper{id: 4, name: "MMC3"}})
}

// mapper4 implements iNES mapper 4 (MMC3): two paired registers
// (bank-select / bank-data) drive eight internal bank slots covering
// PRG (8KB granularity) and CHR (1KB/2KB granularity), plus a scanline
// counter that asserts an IRQ on underflow - spec.md §8's literal
// scenario (reload=5, 6th tick asserts, $E000 acks) is this counter.
type mapper4 struct {
	*baseMapper

	bankSelect uint8
	prgMode    uint8
	chrMode    uint8
	regs       [8]uint8

	mirroring nesrom.MirrorMode

	prgRAMEnabled      bool
	prgRAMWriteProtect bool

	irqLatch      uint8
	irqCounter    uint8
	irqEnabled    bool
	irqPending    bool
	irqReloadFlag bool
}

func (m *mapper4) New() Mapper {
	return &mapper4{baseMapper: &baseMapper{id: m.id, name: m.name}, prgRAMEnabled: true}
}

func (m *mapper4) Init(r *nesrom.ROM) {
	m.baseMapper.Init(r)
	m.prgRAMEnabled = true
	m.mirroring = r.MirroringMode()
}

func (m *mapper4) NametableMirroring() (nesrom.MirrorMode, bool) { return m.mirroring, true }

// PrgRead/PrgWrite only ever see addresses in $8000-$FFFF; Bus routes
// $6000-$7FFF SAV-RAM accesses through SavRead/SavWrite instead.
func (m *mapper4) PrgRead(addr uint16) uint8 {
	numBanks := m.rom.PrgSize() / 0x2000

	var bank int
	switch {
	case addr < 0xA000:
		if m.prgMode == 0 {
			bank = int(m.regs[6])
		} else {
			bank = numBanks - 2
		}
		return m.rom.PrgRead(bank*0x2000 + int(addr-0x8000))
	case addr < 0xC000:
		bank = int(m.regs[7])
		return m.rom.PrgRead(bank*0x2000 + int(addr-0xA000))
	case addr < 0xE000:
		if m.prgMode == 0 {
			bank = numBanks - 2
		} else {
			bank = int(m.regs[6])
		}
		return m.rom.PrgRead(bank*0x2000 + int(addr-0xC000))
	default:
		bank = numBanks - 1
		return m.rom.PrgRead(bank*0x2000 + int(addr-0xE000))
	}
}

func (m *mapper4) PrgWrite(addr uint16, val uint8) {
	switch {
	case addr < 0xA000:
		if addr&1 == 0 {
			m.bankSelect = val & 0x07
			m.prgMode = (val >> 6) & 0x01
			m.chrMode = (val >> 7) & 0x01
		} else {
			m.regs[m.bankSelect] = m.maskBankReg(m.bankSelect, val)
		}
	case addr < 0xC000:
		if addr&1 == 0 {
			if val&1 == 0 {
				m.mirroring = nesrom.MirrorVertical
			} else {
				m.mirroring = nesrom.MirrorHorizontal
			}
		} else {
			m.prgRAMWriteProtect = val&0x40 != 0
			m.prgRAMEnabled = val&0x80 != 0
		}
	case addr < 0xE000:
		if addr&1 == 0 {
			m.irqLatch = val
		} else {
			m.irqCounter = 0
			m.irqReloadFlag = true
		}
	default:
		if addr&1 == 0 {
			m.irqEnabled = false
			m.irqPending = false
		} else {
			m.irqEnabled = true
		}
	}
}

// maskBankReg bounds a loaded bank-data register to the actual number
// of banks available: 8KB PRG units for slots 6/7, 1KB CHR units for
// slots 0-5, the way mapper2/mapper3/mapper7 bound their own bank
// registers at write time. A zero bank count (CHR-RAM) is a no-op,
// since ChrRead/ChrWrite never index the backing array in that case.
func (m *mapper4) maskBankReg(slot, val uint8) uint8 {
	var numBanks uint8
	switch slot {
	case 6, 7:
		numBanks = uint8(m.rom.PrgSize() / 0x2000)
	default:
		numBanks = uint8(m.rom.ChrSize() / 0x400)
	}
	if numBanks == 0 {
		return val
	}
	return val % numBanks
}

func (m *mapper4) chrOffset(addr uint16) int {
	r := m.regs
	if m.chrMode == 0 {
		switch {
		case addr < 0x0800:
			return int(r[0]&0xFE)*0x400 + int(addr)
		case addr < 0x1000:
			return int(r[1]&0xFE)*0x400 + int(addr-0x0800)
		case addr < 0x1400:
			return int(r[2])*0x400 + int(addr-0x1000)
		case addr < 0x1800:
			return int(r[3])*0x400 + int(addr-0x1400)
		case addr < 0x1C00:
			return int(r[4])*0x400 + int(addr-0x1800)
		default:
			return int(r[5])*0x400 + int(addr-0x1C00)
		}
	}
	switch {
	case addr < 0x0400:
		return int(r[2])*0x400 + int(addr)
	case addr < 0x0800:
		return int(r[3])*0x400 + int(addr-0x0400)
	case addr < 0x0C00:
		return int(r[4])*0x400 + int(addr-0x0800)
	case addr < 0x1000:
		return int(r[5])*0x400 + int(addr-0x0C00)
	case addr < 0x1800:
		return int(r[0]&0xFE)*0x400 + int(addr-0x1000)
	default:
		return int(r[1]&0xFE)*0x400 + int(addr-0x1800)
	}
}

// SavRead/SavWrite gate PRG-RAM access on the enable/write-protect
// bits latched from the last $A001 write.
func (m *mapper4) SavRead(addr uint16) uint8 {
	if !m.prgRAMEnabled {
		return 0
	}
	return m.rom.SavRead(int(addr))
}

func (m *mapper4) SavWrite(addr uint16, val uint8) {
	if !m.prgRAMEnabled || m.prgRAMWriteProtect {
		return
	}
	m.rom.SavWrite(int(addr), val)
}

func (m *mapper4) ChrRead(addr uint16) uint8 { return m.rom.ChrRead(m.chrOffset(addr)) }
func (m *mapper4) ChrWrite(addr uint16, val uint8) {
	if m.rom.HasChrRAM() {
		m.rom.ChrWrite(m.chrOffset(addr), val)
	}
}

// TickScanline decrements the IRQ counter, reloading it from the
// latch on underflow or when a reload was requested via $C001, and
// raises IRQPending once the (post-reload) counter hits zero with IRQs
// enabled.
func (m *mapper4) TickScanline() {
	if m.irqCounter == 0 || m.irqReloadFlag {
		m.irqCounter = m.irqLatch
		m.irqReloadFlag = false
	} else {
		m.irqCounter--
	}

	if m.irqCounter == 0 && m.irqEnabled {
		m.irqPending = true
	}
}

func (m *mapper4) IRQPending() bool { return m.irqPending }
func (m *mapper4) ClearIRQ()        { m.irqPending = false }

func (m *mapper4) SerializeState(w *nesrom.StateWriter, r *nesrom.StateReader) {
	if w != nil {
		w.Uint8("mapper4.bankSelect", m.bankSelect)
		w.Uint8("mapper4.prgMode", m.prgMode)
		w.Uint8("mapper4.chrMode", m.chrMode)
		w.Field("mapper4.regs", m.regs[:])
		w.Uint8("mapper4.mirroring", uint8(m.mirroring))
		w.Bool("mapper4.prgRAMEnabled", m.prgRAMEnabled)
		w.Bool("mapper4.prgRAMWriteProtect", m.prgRAMWriteProtect)
		w.Uint8("mapper4.irqLatch", m.irqLatch)
		w.Uint8("mapper4.irqCounter", m.irqCounter)
		w.Bool("mapper4.irqEnabled", m.irqEnabled)
		w.Bool("mapper4.irqPending", m.irqPending)
		w.Bool("mapper4.irqReloadFlag", m.irqReloadFlag)
		return
	}

	m.bankSelect = r.Uint8("mapper4.bankSelect")
	m.prgMode = r.Uint8("mapper4.prgMode")
	m.chrMode = r.Uint8("mapper4.chrMode")
	r.Field("mapper4.regs", m.regs[:])
	m.mirroring = nesrom.MirrorMode(r.Uint8("mapper4.mirroring"))
	m.prgRAMEnabled = r.Bool("mapper4.prgRAMEnabled")
	m.prgRAMWriteProtect = r.Bool("mapper4.prgRAMWriteProtect")
	m.irqLatch = r.Uint8("mapper4.irqLatch")
	m.irqCounter = r.Uint8("mapper4.irqCounter")
	m.irqEnabled = r.Bool("mapper4.irqEnabled")
	m.irqPending = r.Bool("mapper4.irqPending")
	m.irqReloadFlag = r.Bool("mapper4.irqReloadFlag")
}
