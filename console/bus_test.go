package console

import (
	"bytes"
	"testing"

	"github.com/bdwalton/nescore/nesrom"
)

func TestBusRAMMirroring(t *testing.T) {
	b := New(&fakeMapper{})

	b.Write(0x0001, 0x42)
	for _, addr := range []uint16{0x0801, 0x1001, 0x1801} {
		if got := b.Read(addr); got != 0x42 {
			t.Errorf("Read(%#04x) = %#02x, want 0x42 (2KB RAM mirror)", addr, got)
		}
	}
}

func TestBusSRAMRoutesThroughMapper(t *testing.T) {
	b := New(&fakeMapper{})

	b.Write(0x6000, 0x99)
	if got := b.Read(0x6000); got != 0x99 {
		t.Errorf("Read(0x6000) = %#02x, want 0x99", got)
	}
	if got := b.mapper.SavRead(0); got != 0x99 {
		t.Errorf("mapper.SavRead(0) = %#02x, want 0x99 (bus routed through SavRead/SavWrite)", got)
	}
}

func TestBusControllerStrobeSharedAcrossPorts(t *testing.T) {
	b := New(&fakeMapper{})
	b.controllers[0].SetButtons(ButtonA)
	b.controllers[1].SetButtons(ButtonB)

	b.Write(0x4016, 0x01) // strobe high, latches both ports
	b.Write(0x4016, 0x00)

	if got := b.Read(0x4016); got != 1 {
		t.Errorf("Read(0x4016) = %d, want 1 (port 0's A button)", got)
	}
	b.Read(0x4017) // port 1's first bit is A, which is not pressed
	if got := b.Read(0x4017); got != 1 {
		t.Errorf("second Read(0x4017) = %d, want 1 (port 1's B button)", got)
	}
}

func TestBusOAMDMAStallParity(t *testing.T) {
	// Step() clamps a stalled cycle to 255 and returns without
	// executing an opcode until the stall is fully drained. 513 and
	// 514 both take 255+255+remainder, so the remainder on the third
	// Step is what distinguishes the even/odd-cycle cases.
	cases := []struct {
		totalCycles   uint64
		wantRemainder uint8
	}{
		{100, 3}, // even total cycles -> 513-cycle stall
		{101, 4}, // odd total cycles -> 514-cycle stall
	}

	for i, tc := range cases {
		b := New(&fakeMapper{})
		b.totalCycles = tc.totalCycles

		b.Write(0x4014, 0x02) // DMA from page 0x02

		for j := 0; j < 2; j++ {
			cycles, err := b.cpu.Step()
			if err != nil {
				t.Fatalf("%d: Step() error = %v", i, err)
			}
			if cycles != 255 {
				t.Errorf("%d: Step() #%d = %d cycles, want 255 (still stalled)", i, j, cycles)
			}
		}

		cycles, err := b.cpu.Step()
		if err != nil {
			t.Fatalf("%d: Step() error = %v", i, err)
		}
		if cycles != tc.wantRemainder {
			t.Errorf("%d: Step() #2 = %d cycles, want %d (stall remainder)", i, cycles, tc.wantRemainder)
		}
	}
}

func TestBusTickScanlineSyncsIRQLine(t *testing.T) {
	fm := &fakeMapper{}
	fm.prg[0xFFFE-0x8000] = 0x00
	fm.prg[0xFFFF-0x8000] = 0x50 // IRQ vector -> 0x5000
	b := New(fm)

	b.cpu.SetPC(0x8000)
	b.Write(0x8000, 0x58) // CLI: clear the interrupt-disable flag
	b.Write(0x8001, 0xEA) // NOP, would run next if the IRQ weren't serviced first

	if _, err := b.cpu.Step(); err != nil { // executes CLI
		t.Fatalf("Step() error = %v", err)
	}

	fm.irqPending = true
	b.TickScanline()

	if fm.tickCalls != 1 {
		t.Errorf("mapper.TickScanline called %d times, want 1", fm.tickCalls)
	}

	if _, err := b.cpu.Step(); err != nil { // services the IRQ instead of the NOP
		t.Fatalf("Step() error = %v", err)
	}
	if got := b.cpu.PC(); got != 0x5000 {
		t.Errorf("PC = %#04x after IRQ, want 0x5000 (mapper's pending IRQ reached the CPU's line)", got)
	}
}

func TestBusSerializeStateRoundTrip(t *testing.T) {
	b := New(&fakeMapper{})
	b.ram[10] = 0xAB
	b.totalCycles = 0x1_0000_0002

	var buf bytes.Buffer
	if err := nesrom.Save(&buf, b); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	b2 := New(&fakeMapper{})
	if err := nesrom.Load(&buf, b2); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if b2.ram[10] != 0xAB || b2.totalCycles != b.totalCycles {
		t.Errorf("round-tripped bus state = ram[10]=%#02x totalCycles=%d, want 0xAB, %d", b2.ram[10], b2.totalCycles, b.totalCycles)
	}
}
