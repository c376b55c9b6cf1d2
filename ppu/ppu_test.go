package ppu

import (
	"bytes"
	"testing"

	"github.com/bdwalton/nescore/nesrom"
)

type testBus struct {
	chr      [0x2000]uint8
	mirror   nesrom.MirrorMode
	nmiCount int
	scanlineCount int
}

func (tb *testBus) ChrRead(addr uint16) uint8       { return tb.chr[addr] }
func (tb *testBus) ChrWrite(addr uint16, val uint8) { tb.chr[addr] = val }
func (tb *testBus) MirrorMode() nesrom.MirrorMode   { return tb.mirror }
func (tb *testBus) TriggerNMI()                     { tb.nmiCount++ }
func (tb *testBus) TickScanline()                   { tb.scanlineCount++ }

func TestWriteRegPPUCTRLSetsNametableBitsOnT(t *testing.T) {
	b := &testBus{}
	p := New(b)

	p.WriteReg(PPUCTRL, 0b00000010)
	if got := p.t.nametableX(); got != 0 {
		t.Errorf("nametableX = %d, want 0", got)
	}
	if got := p.t.nametableY(); got != 1 {
		t.Errorf("nametableY = %d, want 1", got)
	}
}

func TestWriteRegPPUADDRLatchesV(t *testing.T) {
	b := &testBus{}
	p := New(b)

	p.WriteReg(PPUADDR, 0x21)
	p.WriteReg(PPUADDR, 0x08)

	if p.v.data != 0x2108 {
		t.Errorf("v = %#04x, want 0x2108", p.v.data)
	}
	if p.w {
		t.Error("w should be clear after the second PPUADDR write")
	}
}

func TestPPUDATAReadIsBufferedExceptPalette(t *testing.T) {
	b := &testBus{}
	p := New(b)
	p.vram[0] = 0x42

	p.WriteReg(PPUADDR, 0x20)
	p.WriteReg(PPUADDR, 0x00)

	if got := p.ReadReg(PPUDATA); got != 0 {
		t.Errorf("first buffered read = %#02x, want 0 (stale buffer)", got)
	}
	if got := p.ReadReg(PPUDATA); got != 0x42 {
		t.Errorf("second read = %#02x, want 0x42 (now buffered from first read)", got)
	}

	p.paletteRAM[0] = 0x30
	p.WriteReg(PPUADDR, 0x3F)
	p.WriteReg(PPUADDR, 0x00)
	if got := p.ReadReg(PPUDATA); got != 0x30 {
		t.Errorf("palette read = %#02x, want 0x30 (not buffered)", got)
	}
}

func TestPaletteMirroring(t *testing.T) {
	cases := []struct {
		write, read uint16
	}{
		{0x3F00, 0x3F10},
		{0x3F04, 0x3F14},
		{0x3F08, 0x3F18},
		{0x3F0C, 0x3F1C},
	}

	b := &testBus{}
	p := New(b)
	for i, tc := range cases {
		p.write(tc.write, uint8(0x10+i))
		if got := p.read(tc.read); got != uint8(0x10+i) {
			t.Errorf("%d: read(%#04x) = %#02x, want %#02x (aliased to %#04x)", i, tc.read, got, 0x10+i, tc.write)
		}
	}
}

func TestNametableMirroringHorizontal(t *testing.T) {
	b := &testBus{mirror: nesrom.MirrorHorizontal}
	p := New(b)

	p.write(0x2000, 0xAA)
	if got := p.read(0x2400); got != 0xAA {
		t.Errorf("horizontal mirror: read(0x2400) = %#02x, want 0xAA", got)
	}
	if got := p.read(0x2800); got == 0xAA {
		t.Error("horizontal mirror: 0x2800 should be a distinct page from 0x2000")
	}
}

func TestNametableMirroringVertical(t *testing.T) {
	b := &testBus{mirror: nesrom.MirrorVertical}
	p := New(b)

	p.write(0x2000, 0x55)
	if got := p.read(0x2800); got != 0x55 {
		t.Errorf("vertical mirror: read(0x2800) = %#02x, want 0x55", got)
	}
	if got := p.read(0x2400); got == 0x55 {
		t.Error("vertical mirror: 0x2400 should be a distinct page from 0x2000")
	}
}

func TestVBlankSetAndNMIAtScanline241Dot1(t *testing.T) {
	b := &testBus{}
	p := New(b)
	p.ctrl = CTRL_GENERATE_NMI
	p.scanline = 241
	p.dot = 1

	p.Tick(1)

	if p.status&STATUS_VERTICAL_BLANK == 0 {
		t.Error("VBlank flag not set at scanline 241, dot 1")
	}
	if b.nmiCount != 1 {
		t.Errorf("nmiCount = %d, want 1", b.nmiCount)
	}
}

func TestPreRenderClearsStatusFlags(t *testing.T) {
	b := &testBus{}
	p := New(b)
	p.status = STATUS_VERTICAL_BLANK | STATUS_SPRITE_0_HIT | STATUS_SPRITE_OVERFLOW
	p.scanline = 261
	p.dot = 1

	p.Tick(1)

	if p.status != 0 {
		t.Errorf("status = %#02x after pre-render dot 1, want 0", p.status)
	}
}

func TestFrameCompleteSignalsOncePerFrame(t *testing.T) {
	b := &testBus{}
	p := New(b)
	p.scanline, p.dot = 0, 0

	total := 0
	for i := 0; i < 341*262; i++ {
		p.Tick(1)
		if p.FrameComplete() {
			total++
		}
	}
	if total != 1 {
		t.Errorf("FrameComplete fired %d times over one 341x262 frame (rendering disabled, no dot skip), want 1", total)
	}
}

func TestOddFrameDotSkip(t *testing.T) {
	b := &testBus{}
	p := New(b)
	p.mask = MASK_SHOW_BG // enable rendering so the skip applies
	p.frameOdd = true
	p.scanline = 261
	p.dot = 339

	p.Tick(1)

	if p.scanline != 0 || p.dot != 0 {
		t.Errorf("scanline/dot = %d/%d after odd-frame skip dot, want 0/0", p.scanline, p.dot)
	}
}

func TestTickScanlineCalledAtDot260WhenRendering(t *testing.T) {
	b := &testBus{}
	p := New(b)
	p.mask = MASK_SHOW_BG
	p.scanline = 0
	p.dot = 260

	p.Tick(1)

	if b.scanlineCount != 1 {
		t.Errorf("scanlineCount = %d, want 1", b.scanlineCount)
	}
}

func TestDMAWriteWrapsAtOAMAddr(t *testing.T) {
	b := &testBus{}
	p := New(b)
	p.oamAddr = 0xFE

	p.DMAWrite(0, 0x11)
	p.DMAWrite(1, 0x22)
	p.DMAWrite(2, 0x33)

	if p.oam[0xFE] != 0x11 || p.oam[0xFF] != 0x22 || p.oam[0x00] != 0x33 {
		t.Errorf("oam[0xFE..0x00] = %#02x,%#02x,%#02x, want 0x11,0x22,0x33", p.oam[0xFE], p.oam[0xFF], p.oam[0x00])
	}
}

func TestEvaluateSpritesSetsOverflowOnNinthSprite(t *testing.T) {
	b := &testBus{}
	p := New(b)
	p.scanline = 10

	for i := 0; i < 9; i++ {
		p.oam[i*4] = 10 // Y in range for every one of 9 sprites on this row
	}

	p.evaluateSprites()

	if p.status&STATUS_SPRITE_OVERFLOW == 0 {
		t.Error("STATUS_SPRITE_OVERFLOW not set with 9 in-range sprites on one scanline")
	}
}

func TestSerializeStateRoundTrip(t *testing.T) {
	b := &testBus{}
	p := New(b)
	p.ctrl, p.mask, p.status = 0x81, 0x18, 0x40
	p.v.data, p.t.data = 0x2108, 0x0800
	p.x, p.w = 3, true
	p.scanline, p.dot = 120, 45
	p.oam[10] = 0xAB
	p.vram[5] = 0xCD
	p.paletteRAM[2] = 0xEF

	var buf bytes.Buffer
	if err := nesrom.Save(&buf, p); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	p2 := New(&testBus{})
	if err := nesrom.Load(&buf, p2); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if p2.ctrl != p.ctrl || p2.mask != p.mask || p2.status != p.status ||
		p2.v.data != p.v.data || p2.t.data != p.t.data || p2.x != p.x || p2.w != p.w ||
		p2.scanline != p.scanline || p2.dot != p.dot ||
		p2.oam[10] != 0xAB || p2.vram[5] != 0xCD || p2.paletteRAM[2] != 0xEF {
		t.Error("round-tripped PPU state does not match original")
	}
}
