package utfvec

import "testing"

func TestEncoderLUT16ShortAllOneByte(t *testing.T) {
	entry := encoderLUT16Short()[0] // every unit classified 1-byte
	if !entry.valid || entry.cnt != 8 || entry.outTotal != 8 {
		t.Fatalf("got cnt=%d outTotal=%d, want 8,8", entry.cnt, entry.outTotal)
	}
	for i := 0; i < 8; i++ {
		if entry.compact[i] != byte(i*encShortWidth) {
			t.Errorf("compact[%d] = %d, want %d", i, entry.compact[i], i*encShortWidth)
		}
	}
}

func TestEncoderLUT16ShortAllTwoByte(t *testing.T) {
	entry := encoderLUT16Short()[0xFF] // every unit classified 2-byte
	if !entry.valid || entry.cnt != 8 || entry.outTotal != 16 {
		t.Fatalf("got cnt=%d outTotal=%d, want 8,16", entry.cnt, entry.outTotal)
	}
}

func TestEncoderLUT16FullCapsAtSixteenBytes(t *testing.T) {
	// Every unit classified 3-byte: only 5 units fit in a 16-byte output
	// budget (5*3=15), the 6th would overflow to 18.
	key := 0
	for i := 0; i < 8; i++ {
		key |= 2 << uint(i*2) // class 2 == 3-byte output
	}
	entry := encoderLUT16Full()[key]
	if !entry.valid {
		t.Fatalf("expected a valid entry")
	}
	if entry.cnt != 5 || entry.outTotal != 15 {
		t.Fatalf("cnt=%d outTotal=%d, want 5,15", entry.cnt, entry.outTotal)
	}
}

func TestEncoderLUT32AllFourByte(t *testing.T) {
	key := 0
	for i := 0; i < 4; i++ {
		key |= 3 << uint(i*2) // class 3 == 4-byte output
	}
	entry := encoderLUT32()[key]
	if !entry.valid || entry.cnt != 4 || entry.outTotal != 16 {
		t.Fatalf("cnt=%d outTotal=%d, want 4,16", entry.cnt, entry.outTotal)
	}
}
