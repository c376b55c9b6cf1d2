package console

import "github.com/hajimehoshi/ebiten/v2"

// player1Keys/player2Keys map host keyboard keys onto the button bits
// Controller.SetButtons expects, in the order ButtonA..ButtonRight.
var player1Keys = []ebiten.Key{
	ebiten.KeyA,     // A
	ebiten.KeyB,     // B
	ebiten.KeySpace, // Select
	ebiten.KeyEnter, // Start
	ebiten.KeyUp,    // Up
	ebiten.KeyDown,  // Down
	ebiten.KeyLeft,  // Left
	ebiten.KeyRight, // Right
}

var player2Keys = []ebiten.Key{
	ebiten.KeyJ, // A
	ebiten.KeyK, // B
	ebiten.KeyN, // Select
	ebiten.KeyM, // Start
	ebiten.KeyT, // Up
	ebiten.KeyG, // Down
	ebiten.KeyF, // Left
	ebiten.KeyH, // Right
}

func pollKeys(keys []ebiten.Key) uint8 {
	var mask uint8
	for i, key := range keys {
		if ebiten.IsKeyPressed(key) {
			mask |= 1 << i
		}
	}
	return mask
}
