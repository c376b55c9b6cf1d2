// Command nescore runs a headless-capable NES emulation core behind
// an ebiten window: point it at an iNES ROM and it loads, resets, and
// drives the machine either through ebiten's render loop or the
// interactive text debugger.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/bdwalton/nescore/console"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	romFile = flag.String("rom", "", "Path to an iNES/NES2 ROM file to run.")
	savFile = flag.String("sav", "", "Path to a SAV-RAM file to load on startup (optional).")
	debug   = flag.Bool("debug", false, "Drop into the interactive debugger instead of the ebiten display loop.")
	strict  = flag.Bool("strict", false, "Treat illegal opcodes as a fatal error instead of a NOP.")
)

func main() {
	flag.Parse()

	if *romFile == "" {
		log.Fatal("-rom is required")
	}

	data, err := os.ReadFile(*romFile)
	if err != nil {
		log.Fatalf("couldn't read ROM: %v", err)
	}

	machine, header, err := console.Load(data)
	if err != nil {
		log.Fatalf("couldn't load ROM: %v", err)
	}
	log.Printf("loaded ROM: mapper %d, %d PRG blocks, %d CHR blocks, mirroring %v",
		header.Mapper, header.PrgBlocks, header.ChrBlocks, header.Mirroring)

	machine.Bus().CPU().SetStrictMode(*strict)

	if *savFile != "" {
		if b, err := os.ReadFile(*savFile); err == nil {
			machine.LoadSaveRAM(b)
		}
	}

	machine.Reset()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *debug {
		machine.BIOS(ctx)
		return
	}

	go machine.Run(ctx)

	if err := ebiten.RunGame(machine.Bus()); err != nil {
		log.Fatal(err)
	}
}
