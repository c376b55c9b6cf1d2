package console

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/bdwalton/nescore/mappers"
	"github.com/bdwalton/nescore/nesrom"
)

// Machine is the Core API surface of spec.md §6: load a ROM, reset,
// step whole frames, read the framebuffer, feed button state, and
// save/load state, independent of how a host drives it (ebiten's game
// loop, a headless test harness, or the interactive debugger below).
type Machine struct {
	bus *Bus
	rom *nesrom.ROM
	err error
}

// Load builds a ready-to-run Machine from raw ROM bytes, matching
// spec.md's load_rom(bytes) -> RomHeader Core API entry point.
func Load(data []byte) (*Machine, nesrom.RomHeader, error) {
	rom, err := nesrom.New(bytes.NewReader(data))
	if err != nil {
		return nil, nesrom.RomHeader{}, err
	}

	m, err := mappers.Get(rom)
	if err != nil {
		return nil, nesrom.RomHeader{}, err
	}

	mach := &Machine{bus: New(m), rom: rom}
	return mach, rom.Header(), nil
}

// Bus returns the underlying ebiten.Game-compatible bus, for hosts
// that want to drive display/input via ebiten.RunGame directly.
func (m *Machine) Bus() *Bus { return m.bus }

// Reset implements the NES reset button: only the CPU resets (PC from
// $FFFC/D, SP -= 3, I set); the PPU and mapper keep running.
func (m *Machine) Reset() { m.bus.cpu.Reset() }

// SetButtonState feeds a live button bitmask into controller port 0
// or 1 (spec.md's set_button_state).
func (m *Machine) SetButtonState(port int, mask uint8) {
	if port < 0 || port > 1 {
		return
	}
	m.bus.controllers[port].SetButtons(mask)
}

// Framebuffer returns the PPU's current frame (spec.md's
// read_pixel/framebuffer accessor).
func (m *Machine) Framebuffer() *image.RGBA { return m.bus.ppu.Framebuffer() }

// Err returns the error from the most recent StepFrame call that
// stopped early, or nil.
func (m *Machine) Err() error { return m.err }

// StepFrame runs the CPU and PPU in lock-step - one CPU instruction,
// then the PPU advancing 3x that instruction's cycle count - until a
// full frame completes, per spec.md §4.6's orchestrator contract. It
// returns false (and sets Err) only if the CPU hits an illegal opcode
// in strict mode; by default illegal opcodes behave as NOPs and
// StepFrame always completes a frame.
func (m *Machine) StepFrame() bool {
	for {
		cycles, err := m.bus.cpu.Step()
		if err != nil {
			m.err = err
			return false
		}

		m.bus.totalCycles += uint64(cycles)
		m.bus.ppu.Tick(int(cycles) * 3)

		if m.bus.ppu.FrameComplete() {
			return true
		}
	}
}

// Run drives the emulation continuously until ctx is cancelled,
// stepping whole frames - the shape a host's background goroutine
// uses to keep emulation running independent of its render loop.
func (m *Machine) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			if !m.StepFrame() {
				return
			}
		}
	}
}

// SaveState writes a tagged save-state stream covering the CPU, PPU,
// mapper, and bus (system RAM + controller latches) - every piece of
// mutable emulator state, per spec.md §6.
func (m *Machine) SaveState(w io.Writer) error {
	return nesrom.Save(w, m.bus.cpu, m.bus.ppu, m.bus.mapper, m.bus,
		m.bus.controllers[0], m.bus.controllers[1])
}

// LoadState restores a stream written by SaveState. Per
// nesrom.Load's documented behavior, a tag/size mismatch aborts with
// only the fields read before the mismatch mutated; callers that need
// strict all-or-nothing semantics should SaveState a checkpoint first
// and reload it if LoadState returns an error.
func (m *Machine) LoadState(r io.Reader) error {
	return nesrom.Load(r, m.bus.cpu, m.bus.ppu, m.bus.mapper, m.bus,
		m.bus.controllers[0], m.bus.controllers[1])
}

// SaveRAM/LoadSaveRAM expose the cartridge's battery-backed SAV-RAM as
// a raw concatenated byte blob, per spec.md's ".sav file" format -
// distinct from the tagged save-state stream above.
func (m *Machine) SaveRAM() []byte   { return m.rom.SavBytes() }
func (m *Machine) LoadSaveRAM(b []byte) { m.rom.LoadSavBytes(b) }

func readAddress(prompt string) uint16 {
	var a uint16
	fmt.Print(prompt)
	fmt.Scanf("%04x\n", &a)
	return a
}

// BIOS is an interactive single-step debugger over the running
// machine: breakpoints, memory dumps, register inspection, and
// stepping one instruction or running to completion.
func (m *Machine) BIOS(ctx context.Context) {
	sigQuit := make(chan os.Signal, 1)
	signal.Notify(sigQuit, syscall.SIGINT, syscall.SIGTERM)

	breaks := make(map[uint16]struct{})
	_ = breaks // reserved for a future breakpoint-aware Run

	for {
		fmt.Printf("%s\n\n", m.bus.cpu)
		fmt.Println("(B)reak - add breakpoint")
		fmt.Println("(C)lear - clear breakpoints")
		fmt.Println("(R)un - run to completion")
		fmt.Println("(S)tep - step the cpu one instruction")
		fmt.Println("R(e)set - hit the reset button")
		fmt.Println("(M)emory - display a memory range")
		fmt.Println("S(t)ack - show the last 3 items on the stack")
		fmt.Println("(I)nstruction - show bytes at the program counter")
		fmt.Println("(P)C - set the program counter")
		fmt.Println("PP(U) - show PPU status")
		fmt.Println("(Q)uit - shut down")
		fmt.Printf("Choice: ")

		var in rune
		fmt.Scanf("%c\n", &in)

		switch in {
		case 'b', 'B':
			breaks[readAddress("Breakpoint (eg: ff15): ")] = struct{}{}
		case 'c', 'C':
			breaks = make(map[uint16]struct{})
		case 'p', 'P':
			m.bus.cpu.SetPC(readAddress("Set PC to what address (eg: 0400)?: "))
		case 'q', 'Q':
			return
		case 'r', 'R':
			cctx, cancel := context.WithCancel(ctx)
			go func(ctx context.Context) {
				select {
				case <-sigQuit:
					cancel()
				case <-ctx.Done():
				}
			}(cctx)
			m.Run(cctx)
		case 's', 'S':
			cycles, _ := m.bus.cpu.Step()
			m.bus.ppu.Tick(int(cycles) * 3)
		case 't', 'T':
			fmt.Println()
			for i := 0; i < 3; i++ {
				a := m.bus.cpu.StackAddr() + uint16(i)
				fmt.Printf("0x%04x: 0x%02x ", a, m.bus.Read(a))
				if a == 0x01ff {
					break
				}
			}
			fmt.Printf("\n\n")
		case 'i', 'I':
			fmt.Printf("\n%s\n\n", m.bus.cpu.Inst())
		case 'u', 'U':
			fmt.Printf("scanline/dot state tracked internally; framebuffer is %dx%d\n",
				m.bus.ppu.GetResolution())
		case 'e', 'E':
			m.bus.cpu.Reset()
		case 'm', 'M':
			fmt.Println()
			low := readAddress("Low address (eg f00d): ")
			high := readAddress("High address (eg beef): ")
			fmt.Println()

			x := 1
			for i := low; ; i++ {
				fmt.Printf("0x%04x: 0x%02x ", i, m.bus.Read(i))
				if x%5 == 0 {
					fmt.Println()
				}
				if i == high || i == math.MaxUint16 {
					break
				}
				x++
			}
			fmt.Printf("\n\n")
		}
	}
}
