package mos6502

import (
	"bytes"
	"testing"

	"github.com/bdwalton/nescore/nesrom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mem struct {
	data [0x10000]uint8
}

func (m *mem) Read(addr uint16) uint8       { return m.data[addr] }
func (m *mem) Write(addr uint16, val uint8) { m.data[addr] = val }

func newMemWithReset(resetVec uint16) *mem {
	m := &mem{}
	m.data[INT_RESET] = uint8(resetVec)
	m.data[INT_RESET+1] = uint8(resetVec >> 8)
	return m
}

func TestNewLoadsResetVector(t *testing.T) {
	m := newMemWithReset(0x8000)
	c := New(m)

	assert.Equal(t, uint16(0x8000), c.PC())
	assert.Equal(t, uint8(0xFD), c.SP())
	assert.NotZero(t, c.Status()&STATUS_FLAG_INTERRUPT_DISABLE, "I flag not set at power-on")
}

func TestStepCycles(t *testing.T) {
	cases := []struct {
		pc                uint16
		status, acc, x, y uint8
		op, arg1, arg2    uint8
		wantPC            uint16
		wantCycles        uint8
	}{
		{0x200, 0, 0, 0, 0, 0x69 /* ADC IMM */, 0x01, 0, 0x202, 2},
		{0x200, 0, 0, 0, 0, 0x6D /* ADC ABS */, 0x00, 0x03, 0x203, 4},
		{0x2FF, 0, 1, 1, 0, 0x7D /* ADC ABS_X */, 0xFF, 0x01, 0x302, 5 /* page crossed */},
		{0x200, 0, 1, 1, 0, 0x7D /* ADC ABS_X */, 0x00, 0x03, 0x203, 4 /* no cross */},
		{0x200, 0 /* carry clear */, 0, 0, 0, 0x90 /* BCC REL */, 0x20, 0, 0x222, 3},
		{0x2FD, 0 /* carry clear */, 0, 0, 0, 0x90 /* BCC REL */, 0x10, 0, 0x30F, 4 /* branch + page cross */},
		// Stores and read-modify-write instructions always write, so a
		// page cross must never add a cycle on top of their fixed cost.
		{0x2FF, 0, 1, 1, 0, 0x9D /* STA ABS_X */, 0xFF, 0x01, 0x302, 5 /* page crossed, still 5 */},
		{0x2FF, 0, 0, 1, 0, 0x1E /* ASL ABS_X */, 0xFF, 0x01, 0x302, 7 /* page crossed, still 7 */},
	}

	for i, tc := range cases {
		m := newMemWithReset(0)
		c := New(m)
		c.pc = tc.pc
		c.acc = tc.acc
		c.x = tc.x
		c.y = tc.y
		c.status = tc.status
		c.write(c.pc, tc.op)
		c.write(c.pc+1, tc.arg1)
		c.write(c.pc+2, tc.arg2)

		cycles, err := c.Step()
		require.NoErrorf(t, err, "case %d", i)
		assert.Equalf(t, tc.wantPC, c.pc, "case %d: PC", i)
		assert.Equalf(t, tc.wantCycles, cycles, "case %d: cycles", i)
	}
}

func TestIllegalOpcodeLenientIsNOP(t *testing.T) {
	m := newMemWithReset(0x200)
	c := New(m)
	c.write(0x200, 0xFF) // not in the opcode table

	cycles, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(2), cycles)
	assert.Equal(t, uint16(0x201), c.pc)
}

func TestIllegalOpcodeStrictErrors(t *testing.T) {
	m := newMemWithReset(0x200)
	c := New(m)
	c.SetStrictMode(true)
	c.write(0x200, 0xFF)

	_, err := c.Step()
	assert.Error(t, err)
}

func TestBRKSetsBreakOnPushedStatus(t *testing.T) {
	m := newMemWithReset(0x200)
	m.data[INT_BRK] = 0x00
	m.data[INT_BRK+1] = 0x40
	c := New(m)
	c.write(0x200, 0x00) // BRK

	_, err := c.Step()
	require.NoError(t, err)

	pushed := c.read(c.StackAddr() + 1)
	assert.NotZero(t, pushed&STATUS_FLAG_BREAK, "BRK did not set B in the pushed status byte")
	assert.Equal(t, uint16(0x4000), c.pc)
}

func TestIRQDoesNotSetBreak(t *testing.T) {
	m := newMemWithReset(0x200)
	m.data[INT_IRQ] = 0x00
	m.data[INT_IRQ+1] = 0x50
	c := New(m)
	c.write(0x200, 0xEA) // NOP
	c.status &^= STATUS_FLAG_INTERRUPT_DISABLE
	c.SetIRQLine(true)

	_, err := c.Step()
	require.NoError(t, err)

	pushed := c.read(c.StackAddr() + 1)
	assert.Zero(t, pushed&STATUS_FLAG_BREAK, "IRQ set B in the pushed status byte, should be clear")
	assert.Equal(t, uint16(0x5000), c.pc)
}

func TestJMPIndirectPageWrapBug(t *testing.T) {
	m := newMemWithReset(0x200)
	c := New(m)
	c.write(0x200, 0x6C) // JMP (IND)
	c.write(0x201, 0xFF)
	c.write(0x202, 0x03) // pointer = 0x03FF
	c.write(0x03FF, 0x34)
	c.write(0x0300, 0x12) // high byte wraps to 0x0300, not 0x0400

	_, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), c.pc, "page-wrap bug")
}

func TestStallConsumedBeforeFetch(t *testing.T) {
	m := newMemWithReset(0x200)
	c := New(m)
	c.write(0x200, 0xEA)
	c.Stall(513)

	cycles, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(255), cycles, "first stalled Step should clamp to 255")
	assert.Equal(t, uint16(0x200), c.pc, "PC advanced during a stalled cycle")
}

func TestSerializeStateRoundTrip(t *testing.T) {
	m := newMemWithReset(0x200)
	c := New(m)
	c.acc, c.x, c.y, c.sp = 0x11, 0x22, 0x33, 0xF0
	c.pc = 0xABCD
	c.status = STATUS_FLAG_CARRY
	c.nmiLine = true
	c.stall = 42

	var buf bytes.Buffer
	require.NoError(t, nesrom.Save(&buf, c))

	c2 := New(newMemWithReset(0))
	require.NoError(t, nesrom.Load(&buf, c2))

	assert.Equal(t, c.acc, c2.acc)
	assert.Equal(t, c.x, c2.x)
	assert.Equal(t, c.y, c2.y)
	assert.Equal(t, c.sp, c2.sp)
	assert.Equal(t, c.pc, c2.pc)
	assert.Equal(t, c.status, c2.status)
	assert.Equal(t, c.nmiLine, c2.nmiLine)
	assert.Equal(t, c.stall, c2.stall)
}
