package console

import "github.com/bdwalton/nescore/nesrom"

// Button bits, as latched by Controller.SetButtons - the bitmask
// spec.md's set_button_state Core API entry point accepts.
const (
	ButtonA = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// Controller models one of the NES's two controller ports: an 8-bit
// parallel-in/serial-out shift register that latches the live button
// state on a strobe write and shifts one bit out per subsequent read.
type Controller struct {
	strobe  bool
	buttons uint8 // live state, set by the host via SetButtons
	latched uint8 // snapshot taken at the last strobe-high write
	idx     uint8
}

// SetButtons updates the live button bitmask. The host calls this
// once per input poll; it takes effect the next time the port is
// strobed.
func (c *Controller) SetButtons(mask uint8) { c.buttons = mask }

func (c *Controller) Write(val uint8) {
	c.strobe = val&0x01 != 0
	if c.strobe {
		c.latched = c.buttons
		c.idx = 0
	}
}

func (c *Controller) Read() uint8 {
	if c.strobe {
		return c.buttons & 0x01
	}
	if c.idx > 7 {
		return 1
	}
	ret := (c.latched >> c.idx) & 0x01
	c.idx++
	return ret
}

func (c *Controller) SerializeState(w *nesrom.StateWriter, r *nesrom.StateReader) {
	if w != nil {
		w.Bool("controller.strobe", c.strobe)
		w.Uint8("controller.buttons", c.buttons)
		w.Uint8("controller.latched", c.latched)
		w.Uint8("controller.idx", c.idx)
		return
	}

	c.strobe = r.Bool("controller.strobe")
	c.buttons = r.Uint8("controller.buttons")
	c.latched = r.Uint8("controller.latched")
	c.idx = r.Uint8("controller.idx")
}
