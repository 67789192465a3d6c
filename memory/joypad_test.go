package memory

import "testing"

func TestJoypadReleasedReadsAllOnes(t *testing.T) {
	j := NewJoypad()
	j.Write(0x30) // select neither row
	if got := j.Read(); got != 0xFF {
		t.Fatalf("Read() = 0x%02X, want 0xFF", got)
	}
}

func TestJoypadActionRowSelection(t *testing.T) {
	j := NewJoypad()
	j.Press(ButtonA)
	j.Write(0x10) // clear bit 5: select action row
	if got := j.Read(); got&0x01 != 0 {
		t.Fatalf("A bit set in P1 = 0x%02X, want bit 0 clear", got)
	}
}

func TestJoypadDirectionRowSelection(t *testing.T) {
	j := NewJoypad()
	j.Press(ButtonUp)
	j.Write(0x20) // clear bit 4: select direction row
	if got := j.Read(); got&0x04 != 0 {
		t.Fatalf("Up bit set in P1 = 0x%02X, want bit 2 clear", got)
	}
}

func TestJoypadTopBitsAlwaysSet(t *testing.T) {
	j := NewJoypad()
	if got := j.Read(); got&0xC0 != 0xC0 {
		t.Fatalf("Read() = 0x%02X, want bits 6-7 set", got)
	}
}

func TestJoypadPressRaisesInterruptRegardlessOfSelection(t *testing.T) {
	j := NewJoypad()
	fired := false
	j.JoypadInterruptHandler = func() { fired = true }
	j.Write(0x30) // neither row selected
	j.Press(ButtonStart)
	if !fired {
		t.Fatal("Press did not raise the Joypad interrupt")
	}
}

func TestJoypadReleaseSetsBit(t *testing.T) {
	j := NewJoypad()
	j.Press(ButtonB)
	j.Release(ButtonB)
	j.Write(0x10)
	if got := j.Read(); got&0x02 == 0 {
		t.Fatalf("B bit still clear after release: 0x%02X", got)
	}
}
