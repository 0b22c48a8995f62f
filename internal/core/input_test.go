package core

import "testing"

func TestInputFrameSetHasClear(t *testing.T) {
	var f InputFrame // zero value must be usable

	if f.Has(ActionBoost) {
		t.Error("empty frame should not report actions")
	}

	f.Set(ActionBoost)
	f.AddPointer(PointerDown, 120)
	if !f.Has(ActionBoost) {
		t.Error("Has(Boost) should be true after Set")
	}

	f.Clear()
	if f.Has(ActionBoost) || len(f.Pointer) != 0 {
		t.Error("Clear should drop actions and pointer samples")
	}
}

func TestInputFrameClone(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionSteerLeft)
	f.AddPointer(PointerMove, 40)

	c := f.Clone()
	f.Clear()

	if !c.Has(ActionSteerLeft) || len(c.Pointer) != 1 || c.Pointer[0].X != 40 {
		t.Errorf("clone should be independent of the original, got %+v", c)
	}
}

func TestActionString(t *testing.T) {
	if ActionToggleLane.String() != "ToggleLane" {
		t.Errorf("ActionToggleLane.String() = %q", ActionToggleLane.String())
	}
	if Action(99).String() != "Unknown" {
		t.Error("unknown actions should stringify as Unknown")
	}
}
