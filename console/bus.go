package console

import (
	"math"

	"github.com/bdwalton/nescore/mappers"
	"github.com/bdwalton/nescore/mos6502"
	"github.com/bdwalton/nescore/nesrom"
	"github.com/bdwalton/nescore/ppu"
	"github.com/hajimehoshi/ebiten/v2"
)

const (
	NES_BASE_MEMORY = 0x0800 // 2KB built-in RAM

	MAX_ADDRESS          = math.MaxUint16
	MAX_NES_BASE_RAM     = 0x1FFF
	MAX_PPU_REG_MIRRORED = 0x3FFF
	MAX_IO_REG           = 0x4020
	MAX_SRAM             = 0x6000 // 0x6000 is the first SAV-RAM byte, not the last
	SRAM_TOP             = 0x8000
)

// I/O register addresses this bus decodes directly rather than
// forwarding to the PPU or mapper.
const (
	CTRL1_PORT = 0x4016
	CTRL2_PORT = 0x4017
	OAMDMA     = 0x4014
)

// Bus is the CPU's and PPU's shared view of the NES address space -
// the single top-down decoder spec.md §4.3 describes, satisfying both
// mos6502.Bus and ppu.Bus as non-owning handles rather than the CPU
// and PPU holding raw pointers into each other or into the mapper.
type Bus struct {
	cpu *mos6502.CPU
	ppu *ppu.PPU

	mapper      mappers.Mapper
	ram         [NES_BASE_MEMORY]uint8
	controllers [2]*Controller

	totalCycles uint64 // parity tracker for the OAM-DMA 513/514-cycle rule
}

func New(m mappers.Mapper) *Bus {
	b := &Bus{
		mapper:      m,
		controllers: [2]*Controller{{}, {}},
	}

	b.cpu = mos6502.New(b)
	b.ppu = ppu.New(b)

	w, h := b.ppu.GetResolution()
	ebiten.SetWindowSize(w*2, h*2)
	ebiten.SetWindowTitle("nescore")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	return b
}

func (b *Bus) CPU() *mos6502.CPU { return b.cpu }
func (b *Bus) PPU() *ppu.PPU     { return b.ppu }

// ---- ppu.Bus ----

func (b *Bus) MirrorMode() nesrom.MirrorMode {
	if mm, ok := b.mapper.NametableMirroring(); ok {
		return mm
	}
	return b.mapper.MirroringMode()
}

func (b *Bus) ChrRead(addr uint16) uint8       { return b.mapper.ChrRead(addr) }
func (b *Bus) ChrWrite(addr uint16, val uint8) { b.mapper.ChrWrite(addr, val) }

// TriggerNMI is called by the PPU at the start of VBlank.
func (b *Bus) TriggerNMI() { b.cpu.TriggerNMI() }

// TickScanline forwards the PPU's once-per-visible-scanline hook to
// the mapper (MMC3's IRQ counter) and resyncs the CPU's level-asserted
// IRQ line from the mapper's pending state.
func (b *Bus) TickScanline() {
	b.mapper.TickScanline()
	b.cpu.SetIRQLine(b.mapper.IRQPending())
}

// ---- ebiten.Game ----

// Layout returns the constant NES resolution; ebiten scales the
// window around this rather than the core rendering at window size.
func (b *Bus) Layout(w, h int) (int, int) {
	return b.ppu.GetResolution()
}

// Draw blits the PPU's current framebuffer into ebiten's screen.
func (b *Bus) Draw(screen *ebiten.Image) {
	screen.WritePixels(b.ppu.Framebuffer().Pix)
}

// Update polls host input into both controller ports and is part of
// the ebiten.Game interface; the emulation loop itself runs on the
// Machine, not on ebiten's update tick.
func (b *Bus) Update() error {
	b.controllers[0].SetButtons(pollKeys(player1Keys))
	b.controllers[1].SetButtons(pollKeys(player2Keys))
	return nil
}

// ---- mos6502.Bus ----

func (b *Bus) Read(addr uint16) uint8 {
	// https://www.nesdev.org/wiki/CPU_memory_map
	switch {
	case addr <= MAX_NES_BASE_RAM:
		return b.ram[addr&0x07FF]
	case addr <= MAX_PPU_REG_MIRRORED:
		return b.ppu.ReadReg(0x2000 + addr&0x0007)
	case addr < MAX_IO_REG:
		switch addr {
		case CTRL1_PORT:
			return b.controllers[0].Read()
		case CTRL2_PORT:
			return b.controllers[1].Read()
		default:
			return 0 // APU/IO registers: out of scope, reads as open bus 0
		}
	case addr < SRAM_TOP:
		return b.mapper.SavRead(addr - MAX_SRAM)
	default:
		return b.mapper.PrgRead(addr)
	}
}

func (b *Bus) Write(addr uint16, val uint8) {
	switch {
	case addr <= MAX_NES_BASE_RAM:
		b.ram[addr&0x07FF] = val
	case addr <= MAX_PPU_REG_MIRRORED:
		b.ppu.WriteReg(0x2000+addr&0x0007, val)
	case addr < MAX_IO_REG:
		switch addr {
		case CTRL1_PORT:
			// The strobe line at $4016 is physically shared by both
			// ports; writing it latches both controllers at once.
			b.controllers[0].Write(val)
			b.controllers[1].Write(val)
		case CTRL2_PORT:
			b.controllers[1].Write(val)
		case OAMDMA:
			b.runOAMDMA(val)
		}
	case addr < SRAM_TOP:
		b.mapper.SavWrite(addr-MAX_SRAM, val)
	default:
		b.mapper.PrgWrite(addr, val)
		b.cpu.SetIRQLine(b.mapper.IRQPending())
	}
}

// runOAMDMA copies 256 bytes starting at page val<<8 into PPU OAM and
// stalls the CPU 513 cycles (514 if DMA begins on an odd CPU cycle),
// per spec.md §4.3's OAM-DMA scenario. The PPU keeps ticking through
// the stall since StepFrame advances it independent of CPU execution.
func (b *Bus) runOAMDMA(page uint8) {
	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		b.ppu.DMAWrite(i, b.Read(base+uint16(i)))
	}

	n := 513
	if b.totalCycles%2 != 0 {
		n = 514
	}
	b.cpu.Stall(n)
}

func (b *Bus) SerializeState(w *nesrom.StateWriter, r *nesrom.StateReader) {
	if w != nil {
		w.Field("bus.ram", b.ram[:])
		w.Uint32("bus.totalCyclesLo", uint32(b.totalCycles))
		w.Uint32("bus.totalCyclesHi", uint32(b.totalCycles>>32))
		return
	}

	r.Field("bus.ram", b.ram[:])
	lo := uint64(r.Uint32("bus.totalCyclesLo"))
	hi := uint64(r.Uint32("bus.totalCyclesHi"))
	b.totalCycles = lo | (hi << 32)
}
