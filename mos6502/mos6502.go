// Package mos6502 implements the MOS Technologies 6502 processor
// https://en.wikipedia.org/wiki/MOS_Technology_6502
package mos6502

import (
	"fmt"
	"log"
	"math/bits"
	"strings"

	"github.com/bdwalton/nescore/nesrom"
)

// 6502 Interrupt Vectors
// https://en.wikipedia.org/wiki/Interrupts_in_65xx_processors
const (
	INT_NMI   = 0xFFFA
	INT_RESET = 0xFFFC
	INT_IRQ   = 0xFFFE
	INT_BRK   = INT_IRQ
)

// 6502 Processor Status Flags
// https://www.nesdev.org/obelisk-6502-guide/registers.html
const (
	STATUS_FLAG_CARRY             = 1 << 0 // C
	STATUS_FLAG_ZERO              = 1 << 1 // Z
	STATUS_FLAG_INTERRUPT_DISABLE = 1 << 2 // I
	STATUS_FLAG_DECIMAL           = 1 << 3 // D
	STATUS_FLAG_BREAK             = 1 << 4 // B
	UNUSED_STATUS_FLAG            = 1 << 5 // This is never used but is always on
	STATUS_FLAG_OVERFLOW          = 1 << 6 // V
	STATUS_FLAG_NEGATIVE          = 1 << 7 // N
)

// 6502 Addressing Modes
// https://www.nesdev.org/obelisk-6502-guide/addressing.html
const (
	IMPLICIT = iota
	ACCUMULATOR
	IMMEDIATE
	ZERO_PAGE
	ZERO_PAGE_X
	ZERO_PAGE_Y
	RELATIVE
	ABSOLUTE
	ABSOLUTE_X
	ABSOLUTE_Y
	INDIRECT
	INDIRECT_X // Indexed Indirect
	INDIRECT_Y // Indirect Indexed
)

var modenames = map[uint8]string{
	IMPLICIT: "IMPLICIT", ACCUMULATOR: "ACCUMULATOR", IMMEDIATE: "IMMEDIATE",
	ZERO_PAGE: "ZERO_PAGE", ZERO_PAGE_X: "ZERO_PAGE_X", ZERO_PAGE_Y: "ZERO_PAGE_Y",
	RELATIVE: "RELATIVE", ABSOLUTE: "ABSOLUTE", ABSOLUTE_X: "ABSOLUTE_X",
	ABSOLUTE_Y: "ABSOLUTE_Y", INDIRECT: "INDIRECT", INDIRECT_X: "INDIRECT_X",
	INDIRECT_Y: "INDIRECT_Y",
}

const STACK_PAGE = 0x0100

// 6502 Instructions
// https://www.nesdev.org/obelisk-6502-guide/instructions.html
// https://www.nesdev.org/obelisk-6502-guide/reference.html
const (
	ADC = iota // ADD with Carry
	AND        // Logical AND
	ASL        // Arithmetic Shift Left
	BCC        // Branch if Carry Clear
	BCS        // Branch if Carry Set
	BEQ        // Branch if Equal
	BIT        // Bit Test
	BMI        // Branch if Minus
	BNE        // Branch if Not Equal
	BPL        // Branch if Positive
	BRK        // Force Interrupt
	BVC        // Branch if Overflow Clear
	BVS        // Branch if Overflow Set
	CLC        // Clear Carry Flag
	CLD        // Clear Decimal Mode
	CLI        // Clear Interrupt Disable
	CLV        // Clear Overflow Flag
	CMP        // Compare
	CPX        // Compare X Register
	CPY        // compare Y Regsiter
	DEC        // Decrement Memory
	DEX        // Decrement X Register
	DEY        // Decrement Y Register
	EOR        // Exclusive OR
	INC        // Increment Memory
	INX        // Increment X Register
	INY        // Increment Y Register
	JMP        // Jump
	JSR        // Jump to Subroutine
	LDA        // Load Accumulator
	LDX        // Load X Register
	LDY        // Load Y Register
	LSR        // Logical Shift Right
	NOP        // No Operation
	ORA        // Logical Inclusive OR
	PHA        // Push Accumulator
	PHP        // Push Processor Status
	PLA        // Pull Accumulator
	PLP        // Pull Processor Status
	ROL        // Rotate Left
	ROR        // Rotate Right
	RTI        // Return from Interrupt
	RTS        // Return from Subroutine
	SBC        // Subtract With Carry
	SEC        // Set Carry Flag
	SED        // Set Decimal Flag
	SEI        // Set Interrupt Disable
	STA        // Store Accumulator
	STX        // Store X Register
	STY        // Store Y Register
	TAX        // Transfer Accumulator to X
	TAY        // Transfer Accumulator to Y
	TSX        // Transfer Stack Pointer to X
	TXA        // Transfer X to Accumulator
	TXS        // Transfer X to Stack Pointer
	TYA        // Transfer Y to Accumulator
)

type opcode struct {
	inst   uint8 // the instruction id
	name   string
	mode   uint8 // the memory addressing mode to use
	bytes  uint8 // the number of bytes consumed, including the opcode itself
	cycles uint8 // the base number of cycles consumed by the instruction
}

func (o opcode) String() string {
	return fmt.Sprintf("{%s, %s}", o.name, modenames[o.mode])
}

// opcodes is the 256-entry decode table (151 official opcodes;
// unlisted bytes are illegal/unofficial and handled by Step per the
// CPU's strict setting).
var opcodes = map[uint8]opcode{
	0x69: {ADC, "ADC", IMMEDIATE, 2, 2},
	0x65: {ADC, "ADC", ZERO_PAGE, 2, 3},
	0x75: {ADC, "ADC", ZERO_PAGE_X, 2, 4},
	0x6D: {ADC, "ADC", ABSOLUTE, 3, 4},
	0x7D: {ADC, "ADC", ABSOLUTE_X, 3, 4 /* +1 if page crossed */},
	0x79: {ADC, "ADC", ABSOLUTE_Y, 3, 4 /* +1 if page crossed */},
	0x61: {ADC, "ADC", INDIRECT_X, 2, 6},
	0x71: {ADC, "ADC", INDIRECT_Y, 2, 5 /* +1 if page crossed */},
	0x29: {AND, "AND", IMMEDIATE, 2, 2},
	0x25: {AND, "AND", ZERO_PAGE, 2, 3},
	0x35: {AND, "AND", ZERO_PAGE_X, 2, 4},
	0x2D: {AND, "AND", ABSOLUTE, 3, 4},
	0x3D: {AND, "AND", ABSOLUTE_X, 3, 4 /* +1 if page crossed */},
	0x39: {AND, "AND", ABSOLUTE_Y, 3, 4 /* +1 if page crossed */},
	0x21: {AND, "AND", INDIRECT_X, 2, 6},
	0x31: {AND, "AND", INDIRECT_Y, 2, 5 /* +1 if page crossed */},
	0x0A: {ASL, "ASL", ACCUMULATOR, 1, 2},
	0x06: {ASL, "ASL", ZERO_PAGE, 2, 5},
	0x16: {ASL, "ASL", ZERO_PAGE_X, 2, 6},
	0x0E: {ASL, "ASL", ABSOLUTE, 3, 6},
	0x1E: {ASL, "ASL", ABSOLUTE_X, 3, 7},
	0x90: {BCC, "BCC", RELATIVE, 2, 2},
	0xB0: {BCS, "BCS", RELATIVE, 2, 2},
	0xF0: {BEQ, "BEQ", RELATIVE, 2, 2},
	0x24: {BIT, "BIT", ZERO_PAGE, 2, 3},
	0x2C: {BIT, "BIT", ABSOLUTE, 3, 4},
	0x30: {BMI, "BMI", RELATIVE, 2, 2},
	0xD0: {BNE, "BNE", RELATIVE, 2, 2},
	0x10: {BPL, "BPL", RELATIVE, 2, 2},
	0x00: {BRK, "BRK", IMPLICIT, 2, 7},
	0x50: {BVC, "BVC", RELATIVE, 2, 2},
	0x70: {BVS, "BVS", RELATIVE, 2, 2},
	0x18: {CLC, "CLC", IMPLICIT, 1, 2},
	0xD8: {CLD, "CLD", IMPLICIT, 1, 2},
	0x58: {CLI, "CLI", IMPLICIT, 1, 2},
	0xB8: {CLV, "CLV", IMPLICIT, 1, 2},
	0xC9: {CMP, "CMP", IMMEDIATE, 2, 2},
	0xC5: {CMP, "CMP", ZERO_PAGE, 2, 3},
	0xD5: {CMP, "CMP", ZERO_PAGE_X, 2, 4},
	0xCD: {CMP, "CMP", ABSOLUTE, 3, 4},
	0xDD: {CMP, "CMP", ABSOLUTE_X, 3, 4},
	0xD9: {CMP, "CMP", ABSOLUTE_Y, 3, 4},
	0xC1: {CMP, "CMP", INDIRECT_X, 2, 6},
	0xD1: {CMP, "CMP", INDIRECT_Y, 2, 5},
	0xE0: {CPX, "CPX", IMMEDIATE, 2, 2},
	0xE4: {CPX, "CPX", ZERO_PAGE, 2, 3},
	0xEC: {CPX, "CPX", ABSOLUTE, 3, 4},
	0xC0: {CPY, "CPY", IMMEDIATE, 2, 2},
	0xC4: {CPY, "CPY", ZERO_PAGE, 2, 3},
	0xCC: {CPY, "CPY", ABSOLUTE, 3, 4},
	0xC6: {DEC, "DEC", ZERO_PAGE, 2, 5},
	0xD6: {DEC, "DEC", ZERO_PAGE_X, 2, 6},
	0xCE: {DEC, "DEC", ABSOLUTE, 3, 6},
	0xDE: {DEC, "DEC", ABSOLUTE_X, 3, 7},
	0xCA: {DEX, "DEX", IMPLICIT, 1, 2},
	0x88: {DEY, "DEY", IMPLICIT, 1, 2},
	0x49: {EOR, "EOR", IMMEDIATE, 2, 2},
	0x45: {EOR, "EOR", ZERO_PAGE, 2, 3},
	0x55: {EOR, "EOR", ZERO_PAGE_X, 2, 4},
	0x4D: {EOR, "EOR", ABSOLUTE, 3, 4},
	0x5D: {EOR, "EOR", ABSOLUTE_X, 3, 4},
	0x59: {EOR, "EOR", ABSOLUTE_Y, 3, 4},
	0x41: {EOR, "EOR", INDIRECT_X, 2, 6},
	0x51: {EOR, "EOR", INDIRECT_Y, 2, 5},
	0xE6: {INC, "INC", ZERO_PAGE, 2, 5},
	0xF6: {INC, "INC", ZERO_PAGE_X, 2, 6},
	0xEE: {INC, "INC", ABSOLUTE, 3, 6},
	0xFE: {INC, "INC", ABSOLUTE_X, 3, 7},
	0xE8: {INX, "INX", IMPLICIT, 1, 2},
	0xC8: {INY, "INY", IMPLICIT, 1, 2},
	0x4C: {JMP, "JMP", ABSOLUTE, 3, 3},
	0x6C: {JMP, "JMP", INDIRECT, 3, 5},
	0x20: {JSR, "JSR", ABSOLUTE, 3, 6},
	0xA9: {LDA, "LDA", IMMEDIATE, 2, 2},
	0xA5: {LDA, "LDA", ZERO_PAGE, 2, 3},
	0xB5: {LDA, "LDA", ZERO_PAGE_X, 2, 4},
	0xAD: {LDA, "LDA", ABSOLUTE, 3, 4},
	0xBD: {LDA, "LDA", ABSOLUTE_X, 3, 4},
	0xB9: {LDA, "LDA", ABSOLUTE_Y, 3, 4},
	0xA1: {LDA, "LDA", INDIRECT_X, 2, 6},
	0xB1: {LDA, "LDA", INDIRECT_Y, 2, 5},
	0xA2: {LDX, "LDX", IMMEDIATE, 2, 2},
	0xA6: {LDX, "LDX", ZERO_PAGE, 2, 3},
	0xB6: {LDX, "LDX", ZERO_PAGE_Y, 2, 4},
	0xAE: {LDX, "LDX", ABSOLUTE, 3, 4},
	0xBE: {LDX, "LDX", ABSOLUTE_Y, 3, 4},
	0xA0: {LDY, "LDY", IMMEDIATE, 2, 2},
	0xA4: {LDY, "LDY", ZERO_PAGE, 2, 3},
	0xB4: {LDY, "LDY", ZERO_PAGE_X, 2, 4},
	0xAC: {LDY, "LDY", ABSOLUTE, 3, 4},
	0xBC: {LDY, "LDY", ABSOLUTE_X, 3, 4},
	0x4A: {LSR, "LSR", ACCUMULATOR, 1, 2},
	0x46: {LSR, "LSR", ZERO_PAGE, 2, 5},
	0x56: {LSR, "LSR", ZERO_PAGE_X, 2, 6},
	0x4E: {LSR, "LSR", ABSOLUTE, 3, 6},
	0x5E: {LSR, "LSR", ABSOLUTE_X, 3, 7},
	0xEA: {NOP, "NOP", IMPLICIT, 1, 2},
	0x09: {ORA, "ORA", IMMEDIATE, 2, 2},
	0x05: {ORA, "ORA", ZERO_PAGE, 2, 3},
	0x15: {ORA, "ORA", ZERO_PAGE_X, 2, 4},
	0x0D: {ORA, "ORA", ABSOLUTE, 3, 4},
	0x1D: {ORA, "ORA", ABSOLUTE_X, 3, 4},
	0x19: {ORA, "ORA", ABSOLUTE_Y, 3, 4},
	0x01: {ORA, "ORA", INDIRECT_X, 2, 6},
	0x11: {ORA, "ORA", INDIRECT_Y, 2, 5},
	0x48: {PHA, "PHA", IMPLICIT, 1, 3},
	0x08: {PHP, "PHP", IMPLICIT, 1, 3},
	0x68: {PLA, "PLA", IMPLICIT, 1, 4},
	0x28: {PLP, "PLP", IMPLICIT, 1, 4},
	0x2A: {ROL, "ROL", ACCUMULATOR, 1, 2},
	0x26: {ROL, "ROL", ZERO_PAGE, 2, 5},
	0x36: {ROL, "ROL", ZERO_PAGE_X, 2, 6},
	0x2E: {ROL, "ROL", ABSOLUTE, 3, 6},
	0x3E: {ROL, "ROL", ABSOLUTE_X, 3, 7},
	0x6A: {ROR, "ROR", ACCUMULATOR, 1, 2},
	0x66: {ROR, "ROR", ZERO_PAGE, 2, 5},
	0x76: {ROR, "ROR", ZERO_PAGE_X, 2, 6},
	0x6E: {ROR, "ROR", ABSOLUTE, 3, 6},
	0x7E: {ROR, "ROR", ABSOLUTE_X, 3, 7},
	0x40: {RTI, "RTI", IMPLICIT, 1, 6},
	0x60: {RTS, "RTS", IMPLICIT, 1, 6},
	0xE9: {SBC, "SBC", IMMEDIATE, 2, 2},
	0xE5: {SBC, "SBC", ZERO_PAGE, 2, 3},
	0xF5: {SBC, "SBC", ZERO_PAGE_X, 2, 4},
	0xED: {SBC, "SBC", ABSOLUTE, 3, 4},
	0xFD: {SBC, "SBC", ABSOLUTE_X, 3, 4},
	0xF9: {SBC, "SBC", ABSOLUTE_Y, 3, 4},
	0xE1: {SBC, "SBC", INDIRECT_X, 2, 6},
	0xF1: {SBC, "SBC", INDIRECT_Y, 2, 5},
	0x38: {SEC, "SEC", IMPLICIT, 1, 2},
	0xF8: {SED, "SED", IMPLICIT, 1, 2},
	0x78: {SEI, "SEI", IMPLICIT, 1, 2},
	0x85: {STA, "STA", ZERO_PAGE, 2, 3},
	0x95: {STA, "STA", ZERO_PAGE_X, 2, 4},
	0x8D: {STA, "STA", ABSOLUTE, 3, 4},
	0x9D: {STA, "STA", ABSOLUTE_X, 3, 5},
	0x99: {STA, "STA", ABSOLUTE_Y, 3, 5},
	0x81: {STA, "STA", INDIRECT_X, 2, 6},
	0x91: {STA, "STA", INDIRECT_Y, 2, 6},
	0x86: {STX, "STX", ZERO_PAGE, 2, 3},
	0x96: {STX, "STX", ZERO_PAGE_Y, 2, 4},
	0x8E: {STX, "STX", ABSOLUTE, 3, 4},
	0x84: {STY, "STY", ZERO_PAGE, 2, 3},
	0x94: {STY, "STY", ZERO_PAGE_X, 2, 4},
	0x8C: {STY, "STY", ABSOLUTE, 3, 4},
	0xAA: {TAX, "TAX", IMPLICIT, 1, 2},
	0xA8: {TAY, "TAY", IMPLICIT, 1, 2},
	0xBA: {TSX, "TSX", IMPLICIT, 1, 2},
	0x8A: {TXA, "TXA", IMPLICIT, 1, 2},
	0x9A: {TXS, "TXS", IMPLICIT, 1, 2},
	0x98: {TYA, "TYA", IMPLICIT, 1, 2},
}

var flagMap = map[uint8]byte{
	STATUS_FLAG_CARRY: 'C', STATUS_FLAG_ZERO: 'Z', STATUS_FLAG_INTERRUPT_DISABLE: 'I',
	STATUS_FLAG_DECIMAL: 'D', STATUS_FLAG_BREAK: 'B', UNUSED_STATUS_FLAG: '-',
	STATUS_FLAG_OVERFLOW: 'V', STATUS_FLAG_NEGATIVE: 'N',
}

func statusString(p uint8) string {
	var sb strings.Builder
	for _, f := range []uint8{
		STATUS_FLAG_NEGATIVE, STATUS_FLAG_OVERFLOW, UNUSED_STATUS_FLAG, STATUS_FLAG_BREAK,
		STATUS_FLAG_DECIMAL, STATUS_FLAG_INTERRUPT_DISABLE, STATUS_FLAG_ZERO, STATUS_FLAG_CARRY,
	} {
		if p&f > 0 {
			sb.WriteByte(flagMap[f])
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

// Bus is the CPU's view of the address space (spec.md §4.3): a single
// decoder that every read and write passes through. Keeping this as a
// small interface rather than handing the CPU a raw mapper is the
// "value objects with non-owning handles" strategy of spec.md §9 -
// console.Bus is the concrete implementation.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
}

// CPU implements all of the machine state for the 6502 plus its
// interrupt-sampling latches.
type CPU struct {
	acc    uint8  // main register
	x, y   uint8  // index registers
	status uint8  // status flags
	sp     uint8  // stack pointer; stack lives at 0x0100-0x01FF
	pc     uint16 // program counter
	bus    Bus

	// deferred side-effect latches (spec.md §9): updated at
	// well-defined sampling points rather than relied on via
	// ordering assumptions.
	nmiLine  bool // edge-triggered: set by TriggerNMI, consumed once
	irqLine  bool // level-asserted: OR of every IRQ source (mapper, APU stub)
	stall    int  // extra idle cycles from OAM-DMA; consumed before fetching
	oddCycle bool // flipped once per stalled Step; the DMA 513/514 parity comes from console.Bus's cycle count

	extraCycles uint8 // page-cross/branch penalty accumulated during the in-flight instruction

	strict bool // illegal opcodes abort instead of behaving as NOP
}

func New(bus Bus) *CPU {
	// Power on state values from:
	// https://www.nesdev.org/wiki/CPU_power_up_state
	// B is not normally visible in the register, but per docs, is
	// set at startup.
	c := &CPU{
		sp:     0xFD,
		bus:    bus,
		status: UNUSED_STATUS_FLAG | STATUS_FLAG_BREAK | STATUS_FLAG_INTERRUPT_DISABLE,
	}
	c.pc = c.read16(INT_RESET)
	return c
}

// SetStrictMode toggles spec.md §7's "illegal opcode" strict
// behavior: true aborts Step with an error on an unofficial opcode,
// false (default) treats it as a one-byte NOP that costs 2 cycles.
func (c *CPU) SetStrictMode(strict bool) { c.strict = strict }

func (c *CPU) String() string {
	op, ok := opcodes[c.read(c.pc)]
	var os string
	if ok {
		os = op.String()
	} else {
		os = "???"
	}
	return fmt.Sprintf("A,X,Y: %3d,%3d,%3d; PC: 0x%04x, SP: 0x%02x, P: %s; OP: %s", c.acc, c.x, c.y, c.pc, c.sp, statusString(c.status), os)
}

// read/write/read16/write16 route every access through the bus, per
// spec.md §4.2's "all memory accesses go through the CPU bus".
func (c *CPU) read(addr uint16) uint8         { return c.bus.Read(addr) }
func (c *CPU) write(addr uint16, val uint8)   { c.bus.Write(addr, val) }
func (c *CPU) read16(addr uint16) uint16 {
	lsb := uint16(c.read(addr))
	msb := uint16(c.read(addr + 1))
	return (msb << 8) | lsb
}

// SetPC / PC / Acc / X / Y / SP / Status are the register file
// accessors used by the debugger and by tests.
func (c *CPU) SetPC(pc uint16) { c.pc = pc }
func (c *CPU) PC() uint16      { return c.pc }
func (c *CPU) Acc() uint8      { return c.acc }
func (c *CPU) X() uint8        { return c.x }
func (c *CPU) Y() uint8        { return c.y }
func (c *CPU) SP() uint8       { return c.sp }
func (c *CPU) Status() uint8   { return c.status }

func (c *CPU) StackAddr() uint16 { return STACK_PAGE + uint16(c.sp) }

func (c *CPU) Inst() string {
	op, ok := opcodes[c.read(c.pc)]
	if !ok {
		return fmt.Sprintf("0x%04x: 0x%02x (illegal)", c.pc, c.read(c.pc))
	}
	var sb strings.Builder
	for i := 0; i < int(op.bytes); i++ {
		m := c.pc + uint16(i)
		fmt.Fprintf(&sb, "0x%04x: 0x%02x ", m, c.read(m))
	}
	return sb.String()
}

// TriggerNMI latches a rising edge on the NMI line. Consumed (and
// cleared) the next time Step samples interrupts at an instruction
// boundary.
func (c *CPU) TriggerNMI() { c.nmiLine = true }

// SetIRQLine sets the level-asserted IRQ line; a mapper or the
// stubbed APU peer calls this with true when it wants service and
// false to acknowledge/clear.
func (c *CPU) SetIRQLine(asserted bool) { c.irqLine = asserted }

// Stall adds n cycles of CPU inactivity, used by OAM-DMA (spec.md
// §4.3): the orchestrator still advances the PPU 3x per stalled
// cycle, it just doesn't execute an instruction.
func (c *CPU) Stall(n int) { c.stall += n }

// Reset implements spec.md §4.2's Reset: SP -= 3 (documented side
// effect of the three phantom stack reads/writes reset performs), set
// I, load PC from $FFFC/D, cost 7 cycles.
func (c *CPU) Reset() uint8 {
	c.sp -= 3
	c.status |= STATUS_FLAG_INTERRUPT_DISABLE
	c.pc = c.read16(INT_RESET)
	return 7
}

var invalidInstruction = fmt.Errorf("invalid instruction")

// Step executes exactly one unit of CPU work - either an interrupt
// service, a stalled no-op cycle batch, or one instruction - and
// returns the number of cycles elapsed, matching spec.md §4.2's
// step() -> cycles_elapsed contract. Interrupts are sampled here, at
// the instruction boundary, per spec.md §4.2.
func (c *CPU) Step() (uint8, error) {
	if c.stall > 0 {
		n := c.stall
		if n > 255 {
			n = 255
		}
		c.stall -= n
		c.oddCycle = !c.oddCycle
		return uint8(n), nil
	}

	if c.nmiLine {
		c.nmiLine = false
		return c.serviceInterrupt(INT_NMI, false), nil
	}
	if c.irqLine && c.status&STATUS_FLAG_INTERRUPT_DISABLE == 0 {
		return c.serviceInterrupt(INT_IRQ, false), nil
	}

	op, ok := opcodes[c.read(c.pc)]
	if !ok {
		if c.strict {
			return 0, fmt.Errorf("pc: %#04x, inst: %#02x - %w", c.pc, c.read(c.pc), invalidInstruction)
		}
		// Lenient mode: behave as a one-byte NOP and keep running.
		log.Printf("pc: %#04x, illegal opcode %#02x treated as NOP", c.pc, c.read(c.pc))
		c.pc++
		return 2, nil
	}

	c.pc++
	opc := c.pc

	c.execute(op)

	// If we didn't branch/jump, move the PC past the remaining
	// operand bytes. We already consumed the opcode byte itself.
	if c.pc == opc {
		c.pc += uint16(op.bytes) - 1
	}

	return op.cycles + c.extraCycles, nil
}

// serviceInterrupt pushes PC and P (B=brk) and vectors through
// vector, per spec.md §4.2: "push PC high, PC low, P with B=0, set I,
// load PC from vector, cost 7 cycles" for NMI/IRQ, or B=1 for BRK.
func (c *CPU) serviceInterrupt(vector uint16, brk bool) uint8 {
	c.pushAddress(c.pc)
	p := c.status &^ STATUS_FLAG_BREAK
	if brk {
		p |= STATUS_FLAG_BREAK
	}
	c.pushStack(p | UNUSED_STATUS_FLAG)
	c.status |= STATUS_FLAG_INTERRUPT_DISABLE
	c.pc = c.read16(vector)
	return 7
}

// getOperandAddr takes a mode and returns an address for the operand
// referenced by the program counter. It assumes that the counter was
// incremented past the actual instruction byte.
//
// chargeable controls whether a page-crossing ABSOLUTE_X/ABSOLUTE_Y/
// INDIRECT_Y access charges the one-cycle penalty: only reads pay it,
// per spec.md §4.2. Stores and read-modify-write instructions already
// carry their worst-case cycle count in the opcode table and must
// never vary, so their call sites pass false.
func (c *CPU) getOperandAddr(mode uint8, chargeable bool) uint16 {
	var addr uint16
	switch mode {
	case ACCUMULATOR:
		panic("ACCUMULATOR address mode should never use this method")
	case IMPLICIT:
		panic("IMPLICIT address mode should never use this method")
	case IMMEDIATE:
		addr = c.pc
	case ZERO_PAGE:
		addr = uint16(c.read(c.pc))
	case ZERO_PAGE_X:
		return uint16(c.read(c.pc) + c.x)
	case ZERO_PAGE_Y:
		return uint16(c.read(c.pc) + c.y)
	case ABSOLUTE:
		return c.read16(c.pc)
	case ABSOLUTE_X:
		a := c.read16(c.pc)
		addr = a + uint16(c.x)
		if chargeable {
			c.pageCrossExtra(a, addr)
		}
	case ABSOLUTE_Y:
		a := c.read16(c.pc)
		addr = a + uint16(c.y)
		if chargeable {
			c.pageCrossExtra(a, addr)
		}
	case INDIRECT:
		// JMP (indirect) reproduces the documented page-wrap bug:
		// if the low byte of the pointer is $FF, the high byte is
		// fetched from $xx00 of the same page rather than the
		// following page.
		ptr := c.read16(c.pc)
		lo := uint16(c.read(ptr))
		hiAddr := (ptr & 0xFF00) | ((ptr + 1) & 0x00FF)
		hi := uint16(c.read(hiAddr))
		return (hi << 8) | lo
	case INDIRECT_X:
		return c.read16zp(uint16(c.read(c.pc) + c.x))
	case INDIRECT_Y:
		a := c.read16zp(uint16(c.read(c.pc)))
		addr = a + uint16(c.y)
		if chargeable {
			c.pageCrossExtra(a, addr)
		}
	case RELATIVE:
		// Relative from PC at time of instruction execution. We
		// advance pc as soon as we eat the byte from memory to
		// decode the instruction, so account for that here.
		addr = (c.pc + 1) + uint16(int8(c.read(c.pc)))
	default:
		panic("invalid addressing mode")
	}

	return addr
}

// read16zp reads a 16-bit pointer from zero page, wrapping within
// page 0 rather than crossing into page 1 (the documented 6502
// zero-page-indirect wrap behavior).
func (c *CPU) read16zp(addr uint16) uint16 {
	lsb := uint16(c.read(addr & 0x00FF))
	msb := uint16(c.read((addr + 1) & 0x00FF))
	return (msb << 8) | lsb
}

// pageCrossExtra charges a one-cycle penalty when addr1 and addr2
// fall in different 256-byte pages, for the indexed addressing modes
// that read (rather than write) their operand.
func (c *CPU) pageCrossExtra(addr1, addr2 uint16) {
	c.extraCycles += extraCycles(addr1, addr2)
}

func extraCycles(addr1, addr2 uint16) uint8 {
	if addr1&0xFF00 != addr2&0xFF00 {
		return 1
	}
	return 0
}

func (c *CPU) setNegativeAndZeroFlags(n uint8) {
	if n == 0 {
		c.flagsOn(STATUS_FLAG_ZERO)
	} else {
		c.flagsOff(STATUS_FLAG_ZERO)
	}
	if n&0b1000_0000 != 0 {
		c.flagsOn(STATUS_FLAG_NEGATIVE)
	} else {
		c.flagsOff(STATUS_FLAG_NEGATIVE)
	}
}

func (c *CPU) pushStack(val uint8) {
	c.write(c.StackAddr(), val)
	c.sp--
}

func (c *CPU) popStack() uint8 {
	c.sp++
	return c.read(c.StackAddr())
}

func (c *CPU) pushAddress(addr uint16) {
	c.pushStack(uint8(addr >> 8))     // high
	c.pushStack(uint8(addr & 0x00FF)) // low
}

func (c *CPU) popAddress() uint16 {
	return uint16(c.popStack()) | (uint16(c.popStack()) << 8)
}

func (c *CPU) flagsOn(mask uint8)  { c.status = c.status | mask }
func (c *CPU) flagsOff(mask uint8) { c.status = c.status &^ mask }

// branch adjusts the PC if (status&mask > 0) == predicate, charging
// the extra cycles a taken/page-crossing branch costs directly onto
// the in-flight instruction's returned total via c.extraCycles.
func (c *CPU) branch(mask uint8, predicate bool) {
	if (c.status&mask > 0) == predicate {
		next := c.pc + 1 // address of the following instruction
		a := c.getOperandAddr(RELATIVE, false)
		c.extraCycles += extraCycles(a, next)
		c.extraCycles++ // taken branches cost one extra cycle
		c.pc = a
	}
}

// addWithOverflow adds b to acc handling overflow, carry and N/Z flag
// setting per spec.md §4.2: "Overflow on ADC/SBC derived from
// sign-bit disagreement between operands and result."
func (c *CPU) addWithOverflow(b uint8) {
	res16 := uint16(c.acc) + uint16(b) + uint16(c.status&STATUS_FLAG_CARRY)
	res := uint8(res16)

	var mask uint8
	if (res16 & 0x100) != 0 {
		mask |= STATUS_FLAG_CARRY
	}
	if (c.acc^res)&(b^res)&0x80 != 0 {
		mask |= STATUS_FLAG_OVERFLOW
	}

	c.flagsOff(STATUS_FLAG_CARRY | STATUS_FLAG_OVERFLOW | STATUS_FLAG_NEGATIVE | STATUS_FLAG_ZERO)
	c.flagsOn(mask)

	c.acc = res
	c.setNegativeAndZeroFlags(c.acc)
}

func (c *CPU) baseCMP(a, b uint8) {
	c.setNegativeAndZeroFlags(a - b)
	if a >= b {
		c.flagsOn(STATUS_FLAG_CARRY)
	} else {
		c.flagsOff(STATUS_FLAG_CARRY)
	}
}

// execute dispatches op against the decoded addressing mode. This
// replaces the teacher's reflect.ValueOf(c).MethodByName(...) call
// with a plain switch: same one-mnemonic-per-case shape, without
// paying for string-keyed method lookup on every instruction.
func (c *CPU) execute(op opcode) {
	c.extraCycles = 0
	mode := op.mode

	switch op.inst {
	case ADC:
		c.addWithOverflow(c.read(c.getOperandAddr(mode, true)))
	case AND:
		c.acc &= c.read(c.getOperandAddr(mode, true))
		c.setNegativeAndZeroFlags(c.acc)
	case ASL:
		c.shiftOp(mode, func(v uint8) (uint8, bool) { return v << 1, v&0x80 != 0 })
	case BCC:
		c.branch(STATUS_FLAG_CARRY, false)
	case BCS:
		c.branch(STATUS_FLAG_CARRY, true)
	case BEQ:
		c.branch(STATUS_FLAG_ZERO, true)
	case BIT:
		o := c.read(c.getOperandAddr(mode, true))
		c.flagsOff(STATUS_FLAG_NEGATIVE | STATUS_FLAG_OVERFLOW | STATUS_FLAG_ZERO)
		var flags uint8
		if (o & c.acc) == 0 {
			flags |= STATUS_FLAG_ZERO
		}
		flags |= o & (STATUS_FLAG_NEGATIVE | STATUS_FLAG_OVERFLOW)
		c.flagsOn(flags)
	case BMI:
		c.branch(STATUS_FLAG_NEGATIVE, true)
	case BNE:
		c.branch(STATUS_FLAG_ZERO, false)
	case BPL:
		c.branch(STATUS_FLAG_NEGATIVE, false)
	case BRK:
		c.pc++ // BRK is treated as a 2-byte instruction
		c.serviceInterrupt(INT_BRK, true)
	case BVC:
		c.branch(STATUS_FLAG_OVERFLOW, false)
	case BVS:
		c.branch(STATUS_FLAG_OVERFLOW, true)
	case CLC:
		c.flagsOff(STATUS_FLAG_CARRY)
	case CLD:
		c.flagsOff(STATUS_FLAG_DECIMAL)
	case CLI:
		c.flagsOff(STATUS_FLAG_INTERRUPT_DISABLE)
	case CLV:
		c.flagsOff(STATUS_FLAG_OVERFLOW)
	case CMP:
		c.baseCMP(c.acc, c.read(c.getOperandAddr(mode, true)))
	case CPX:
		c.baseCMP(c.x, c.read(c.getOperandAddr(mode, true)))
	case CPY:
		c.baseCMP(c.y, c.read(c.getOperandAddr(mode, true)))
	case DEC:
		a := c.getOperandAddr(mode, false)
		c.write(a, c.read(a)-1)
		c.setNegativeAndZeroFlags(c.read(a))
	case DEX:
		c.x--
		c.setNegativeAndZeroFlags(c.x)
	case DEY:
		c.y--
		c.setNegativeAndZeroFlags(c.y)
	case EOR:
		c.acc ^= c.read(c.getOperandAddr(mode, true))
		c.setNegativeAndZeroFlags(c.acc)
	case INC:
		a := c.getOperandAddr(mode, false)
		c.write(a, c.read(a)+1)
		c.setNegativeAndZeroFlags(c.read(a))
	case INX:
		c.x++
		c.setNegativeAndZeroFlags(c.x)
	case INY:
		c.y++
		c.setNegativeAndZeroFlags(c.y)
	case JMP:
		c.pc = c.getOperandAddr(mode, false)
	case JSR:
		c.pushAddress(c.pc + 1) // points at the second byte of the operand
		c.pc = c.getOperandAddr(mode, false)
	case LDA:
		c.acc = c.read(c.getOperandAddr(mode, true))
		c.setNegativeAndZeroFlags(c.acc)
	case LDX:
		c.x = c.read(c.getOperandAddr(mode, true))
		c.setNegativeAndZeroFlags(c.x)
	case LDY:
		c.y = c.read(c.getOperandAddr(mode, true))
		c.setNegativeAndZeroFlags(c.y)
	case LSR:
		c.shiftOp(mode, func(v uint8) (uint8, bool) { return v >> 1, v&0x01 != 0 })
	case NOP:
	case ORA:
		c.acc |= c.read(c.getOperandAddr(mode, true))
		c.setNegativeAndZeroFlags(c.acc)
	case PHA:
		c.pushStack(c.acc)
	case PHP:
		c.pushStack(c.status | STATUS_FLAG_BREAK | UNUSED_STATUS_FLAG)
	case PLA:
		c.acc = c.popStack()
		c.setNegativeAndZeroFlags(c.acc)
	case PLP:
		c.status = (c.popStack() &^ STATUS_FLAG_BREAK) | UNUSED_STATUS_FLAG
	case ROL:
		carryIn := c.status & STATUS_FLAG_CARRY
		c.shiftOp(mode, func(v uint8) (uint8, bool) {
			return bits.RotateLeft8(v, 1)&^1 | carryIn, v&0x80 != 0
		})
	case ROR:
		carryIn := c.status & STATUS_FLAG_CARRY
		c.shiftOp(mode, func(v uint8) (uint8, bool) {
			return (v >> 1) | (carryIn << 7), v&0x01 != 0
		})
	case RTI:
		c.status = (c.popStack() &^ STATUS_FLAG_BREAK) | UNUSED_STATUS_FLAG
		c.pc = c.popAddress()
	case RTS:
		c.pc = c.popAddress() + 1
	case SBC:
		c.addWithOverflow(^c.read(c.getOperandAddr(mode, true)))
	case SEC:
		c.flagsOn(STATUS_FLAG_CARRY)
	case SED:
		c.flagsOn(STATUS_FLAG_DECIMAL)
	case SEI:
		c.flagsOn(STATUS_FLAG_INTERRUPT_DISABLE)
	case STA:
		c.write(c.getOperandAddr(mode, false), c.acc)
	case STX:
		c.write(c.getOperandAddr(mode, false), c.x)
	case STY:
		c.write(c.getOperandAddr(mode, false), c.y)
	case TAX:
		c.x = c.acc
		c.setNegativeAndZeroFlags(c.x)
	case TAY:
		c.y = c.acc
		c.setNegativeAndZeroFlags(c.y)
	case TSX:
		c.x = c.sp
		c.setNegativeAndZeroFlags(c.x)
	case TXA:
		c.acc = c.x
		c.setNegativeAndZeroFlags(c.acc)
	case TXS:
		c.sp = c.x
	case TYA:
		c.acc = c.y
		c.setNegativeAndZeroFlags(c.acc)
	}
}

// SerializeState preserves the register file and interrupt/stall
// latches - everything a CPU needs to resume mid-instruction-boundary
// from a save-state.
func (c *CPU) SerializeState(w *nesrom.StateWriter, r *nesrom.StateReader) {
	if w != nil {
		w.Uint8("cpu.acc", c.acc)
		w.Uint8("cpu.x", c.x)
		w.Uint8("cpu.y", c.y)
		w.Uint8("cpu.status", c.status)
		w.Uint8("cpu.sp", c.sp)
		w.Uint16("cpu.pc", c.pc)
		w.Bool("cpu.nmiLine", c.nmiLine)
		w.Bool("cpu.irqLine", c.irqLine)
		w.Uint32("cpu.stall", uint32(c.stall))
		w.Bool("cpu.oddCycle", c.oddCycle)
		return
	}

	c.acc = r.Uint8("cpu.acc")
	c.x = r.Uint8("cpu.x")
	c.y = r.Uint8("cpu.y")
	c.status = r.Uint8("cpu.status")
	c.sp = r.Uint8("cpu.sp")
	c.pc = r.Uint16("cpu.pc")
	c.nmiLine = r.Bool("cpu.nmiLine")
	c.irqLine = r.Bool("cpu.irqLine")
	c.stall = int(r.Uint32("cpu.stall"))
	c.oddCycle = r.Bool("cpu.oddCycle")
}

// shiftOp implements the four read-modify-write shift/rotate
// instructions (ASL/LSR/ROL/ROR), which only differ in how the new
// value and outgoing carry bit are derived from the old one.
func (c *CPU) shiftOp(mode uint8, f func(uint8) (nv uint8, carryOut bool)) {
	var ov, nv uint8
	var carryOut bool
	if mode == ACCUMULATOR {
		ov = c.acc
		nv, carryOut = f(ov)
		c.acc = nv
	} else {
		addr := c.getOperandAddr(mode, false)
		ov = c.read(addr)
		nv, carryOut = f(ov)
		c.write(addr, nv)
	}

	c.flagsOff(STATUS_FLAG_CARRY | STATUS_FLAG_NEGATIVE | STATUS_FLAG_ZERO)
	c.setNegativeAndZeroFlags(nv)
	if carryOut {
		c.flagsOn(STATUS_FLAG_CARRY)
	}
}
