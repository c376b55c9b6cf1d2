package console

import (
	"github.com/bdwalton/nescore/mappers"
	"github.com/bdwalton/nescore/nesrom"
)

// fakeMapper is a minimal mappers.Mapper used to exercise Bus and
// Machine without needing a real iNES image on disk.
type fakeMapper struct {
	prg [0x8000]uint8
	chr [0x2000]uint8
	sav [0x2000]uint8

	mirroring  nesrom.MirrorMode
	irqPending bool
	tickCalls  int
}

func (m *fakeMapper) ID() uint16   { return 0xFFFF }
func (m *fakeMapper) Name() string { return "fake" }
func (m *fakeMapper) New() mappers.Mapper {
	return &fakeMapper{mirroring: m.mirroring}
}
func (m *fakeMapper) Init(*nesrom.ROM) {}

func (m *fakeMapper) PrgRead(addr uint16) uint8       { return m.prg[addr-0x8000] }
func (m *fakeMapper) PrgWrite(addr uint16, val uint8) { m.prg[addr-0x8000] = val }
func (m *fakeMapper) ChrRead(addr uint16) uint8       { return m.chr[addr] }
func (m *fakeMapper) ChrWrite(addr uint16, val uint8) { m.chr[addr] = val }

func (m *fakeMapper) SavRead(addr uint16) uint8       { return m.sav[addr] }
func (m *fakeMapper) SavWrite(addr uint16, val uint8) { m.sav[addr] = val }
func (m *fakeMapper) HasSaveRAM() bool                { return true }

func (m *fakeMapper) MirroringMode() nesrom.MirrorMode           { return m.mirroring }
func (m *fakeMapper) NametableMirroring() (nesrom.MirrorMode, bool) { return 0, false }

func (m *fakeMapper) TickScanline() { m.tickCalls++ }
func (m *fakeMapper) IRQPending() bool { return m.irqPending }
func (m *fakeMapper) ClearIRQ()        { m.irqPending = false }

func (m *fakeMapper) SerializeState(w *nesrom.StateWriter, r *nesrom.StateReader) {}

// setResetVector points $FFFC/$FFFD at addr.
func (m *fakeMapper) setResetVector(addr uint16) {
	m.prg[0xFFFC-0x8000] = uint8(addr)
	m.prg[0xFFFD-0x8000] = uint8(addr >> 8)
}
