// Package mappers implements and registers the cartridge mappers
// referenced numerically by iNES and NES2.0 ROM files (spec.md's
// Cartridge/Mapper module). Dispatch is a tagged-enum style registry
// keyed by mapper id rather than a type hierarchy: spec.md's Design
// Notes call this out explicitly in preference to virtual
// inheritance, and it's the shape the teacher already used.
package mappers

import (
	"fmt"

	"github.com/bdwalton/nescore/nesrom"
)

// allMappers is a global registry of mapper prototypes, keyed by
// mapper id. Get clones the matching prototype's wiring against a
// freshly-loaded ROM.
var allMappers map[uint16]Mapper = map[uint16]Mapper{}

func RegisterMapper(id uint16, m Mapper) {
	if om, ok := allMappers[id]; ok {
		panic(fmt.Sprintf("can't re-register mapper id %d, already used by %q", id, om.Name()))
	}
	allMappers[id] = m
}

// Get returns a ready-to-use mapper for rom's declared mapper id, or
// an error if the id isn't registered - spec.md §7's "unsupported
// mapper" load error.
func Get(rom *nesrom.ROM) (Mapper, error) {
	id := rom.MapperNum()
	proto, ok := allMappers[id]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported mapper id %d", nesrom.ErrUnsupportedROM, id)
	}

	m := proto.New()
	m.Init(rom)
	return m, nil
}

// Mapper is the capability interface every cartridge board
// implements: bank-switched PRG/CHR access plus the two optional
// runtime hooks (mirroring override, scanline IRQ) a handful of
// boards need. PrgRead/PrgWrite/ChrRead/ChrWrite take CPU/PPU
// addresses (spec's 16-bit/14-bit address spaces); each mapper
// computes its own bank-relative int offset before indexing into the
// underlying *nesrom.ROM.
type Mapper interface {
	ID() uint16
	Name() string
	New() Mapper     // returns a fresh, uninitialized instance of this mapper kind
	Init(*nesrom.ROM) // binds the mapper to a loaded cartridge image

	PrgRead(addr uint16) uint8
	PrgWrite(addr uint16, val uint8)
	ChrRead(addr uint16) uint8
	ChrWrite(addr uint16, val uint8)

	SavRead(addr uint16) uint8
	SavWrite(addr uint16, val uint8)
	HasSaveRAM() bool

	// MirroringMode returns the header-declared mirroring mode as a
	// baseline; NametableMirroring lets a mapper that actively
	// controls mirroring at runtime (MMC1, AxROM) override it. The
	// bool return is whether the override applies.
	MirroringMode() nesrom.MirrorMode
	NametableMirroring() (nesrom.MirrorMode, bool)

	// TickScanline/IRQPending/ClearIRQ implement the MMC3-style
	// scanline IRQ hook (spec.md §4.5): the PPU calls TickScanline
	// once per visible scanline at a fixed dot, then the console
	// bus polls IRQPending to assert/deassert the CPU's IRQ line.
	// Boards without a scanline counter use the no-op baseMapper
	// defaults.
	TickScanline()
	IRQPending() bool
	ClearIRQ()

	// SerializeState preserves whatever bank-select/IRQ state the
	// board carries beyond the ROM's own bytes (spec.md §6's
	// save-state covers mapper state, not just CPU/PPU registers).
	// Boards with nothing beyond PRG/CHR/SAV content use baseMapper's
	// no-op default.
	nesrom.Serializable
}

// baseMapper supplies defaults for every Mapper method a board
// without extra hardware doesn't need to implement itself: ungated
// SAV-RAM access straight to the ROM's SAV bytes, no mirroring
// override, no scanline IRQ, and no extra save-state.
type baseMapper struct {
	id   uint16
	name string
	rom  *nesrom.ROM
}

func (bm *baseMapper) ID() uint16     { return bm.id }
func (bm *baseMapper) Name() string   { return bm.name }
func (bm *baseMapper) String() string { return bm.name }

func (bm *baseMapper) Init(r *nesrom.ROM) { bm.rom = r }

func (bm *baseMapper) MirroringMode() nesrom.MirrorMode { return bm.rom.MirroringMode() }

func (bm *baseMapper) NametableMirroring() (nesrom.MirrorMode, bool) { return 0, false }

func (bm *baseMapper) HasSaveRAM() bool { return bm.rom.HasSaveRAM() }

func (bm *baseMapper) SavRead(addr uint16) uint8       { return bm.rom.SavRead(int(addr)) }
func (bm *baseMapper) SavWrite(addr uint16, val uint8) { bm.rom.SavWrite(int(addr), val) }

func (bm *baseMapper) TickScanline()    {}
func (bm *baseMapper) IRQPending() bool { return false }
func (bm *baseMapper) ClearIRQ()        {}

func (bm *baseMapper) SerializeState(w *nesrom.StateWriter, r *nesrom.StateReader) {}
