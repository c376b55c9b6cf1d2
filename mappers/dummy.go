package mappers

import (
	"math"

	"github.com/bdwalton/nescore/nesrom"
)

// dummyMapper is a flat 64KB address space with no bank switching,
// for unit tests that need a Mapper but don't care about real
// cartridge semantics.
type dummyMapper struct {
	memory []uint8
	mm     nesrom.MirrorMode // tests can set via SetMirroringMode
}

func (dm *dummyMapper) ID() uint16 { return 0xFFFF }
func (dm *dummyMapper) Name() string { return "dummy mapper" }

func (dm *dummyMapper) New() Mapper {
	return &dummyMapper{memory: make([]uint8, math.MaxUint16+1)}
}

func (dm *dummyMapper) Init(r *nesrom.ROM) {}

func (dm *dummyMapper) PrgRead(addr uint16) uint8       { return dm.memory[addr] }
func (dm *dummyMapper) PrgWrite(addr uint16, val uint8) { dm.memory[addr] = val }
func (dm *dummyMapper) ChrRead(addr uint16) uint8       { return dm.memory[addr] }
func (dm *dummyMapper) ChrWrite(addr uint16, val uint8) { dm.memory[addr] = val }
func (dm *dummyMapper) SavRead(addr uint16) uint8       { return dm.memory[addr] }
func (dm *dummyMapper) SavWrite(addr uint16, val uint8) { dm.memory[addr] = val }

func (dm *dummyMapper) MirroringMode() nesrom.MirrorMode { return dm.mm }
func (dm *dummyMapper) SetMirroringMode(mm nesrom.MirrorMode) { dm.mm = mm }
func (dm *dummyMapper) NametableMirroring() (nesrom.MirrorMode, bool) { return dm.mm, true }

func (dm *dummyMapper) HasSaveRAM() bool { return true }

func (dm *dummyMapper) TickScanline()    {}
func (dm *dummyMapper) IRQPending() bool { return false }
func (dm *dummyMapper) ClearIRQ()        {}

func (dm *dummyMapper) SerializeState(w *nesrom.StateWriter, r *nesrom.StateReader) {}

// Dummy is a shared instance for tests that don't need per-test
// isolation; tests wanting a fresh address space should call
// Dummy.New() instead.
var Dummy *dummyMapper = &dummyMapper{memory: make([]uint8, math.MaxUint16+1)}
