package console

import (
	"bytes"
	"testing"

	"github.com/bdwalton/nescore/nesrom"
)

func TestControllerStrobeLatchesAndShiftsOut(t *testing.T) {
	var c Controller
	c.SetButtons(ButtonA | ButtonRight)

	c.Write(0x01) // strobe high: latch live state
	c.Write(0x00) // strobe low: reads now shift the latch out

	want := []uint8{1, 0, 0, 0, 0, 0, 0, 1} // A, B, Select, Start, Up, Down, Left, Right
	for i, w := range want {
		if got := c.Read(); got != w {
			t.Errorf("%d: Read() = %d, want %d", i, got, w)
		}
	}
}

func TestControllerReadPastEighthBitReturnsOne(t *testing.T) {
	var c Controller
	c.SetButtons(0xFF)
	c.Write(0x01)
	c.Write(0x00)

	for i := 0; i < 8; i++ {
		c.Read()
	}
	if got := c.Read(); got != 1 {
		t.Errorf("Read() past bit 8 = %d, want 1", got)
	}
}

func TestControllerStrobeHighAlwaysReadsButtonA(t *testing.T) {
	var c Controller
	c.SetButtons(ButtonA)
	c.Write(0x01) // strobe held high

	if got := c.Read(); got != 1 {
		t.Errorf("Read() with strobe high = %d, want 1 (live A state)", got)
	}
	c.SetButtons(0)
	if got := c.Read(); got != 0 {
		t.Errorf("Read() with strobe high after clearing A = %d, want 0", got)
	}
}

func TestControllerSerializeStateRoundTrip(t *testing.T) {
	var c Controller
	c.SetButtons(ButtonStart)
	c.Write(0x01)
	c.Write(0x00)
	c.Read()
	c.Read()

	var buf bytes.Buffer
	if err := nesrom.Save(&buf, &c); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	var c2 Controller
	if err := nesrom.Load(&buf, &c2); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if c2.strobe != c.strobe || c2.buttons != c.buttons || c2.latched != c.latched || c2.idx != c.idx {
		t.Errorf("round-tripped Controller = %+v, want %+v", c2, c)
	}
}
