package plan

import "testing"

func TestLevels(t *testing.T) {
	for _, tc := range []struct {
		r    int
		want []int
	}{
		{1, []int{1}},
		{4, []int{4}},
		{8, []int{4, 2}},
		{16, []int{4, 4}},
		{64, []int{4, 4, 4}},
		{1024, []int{4, 4, 4, 4, 4}},
	} {
		got, err := Levels(tc.r)
		if err != nil {
			t.Fatalf("Levels(%d): %v", tc.r, err)
		}
		if !equal(got, tc.want) {
			t.Errorf("Levels(%d) = %v, want %v", tc.r, got, tc.want)
		}
		if product(got) != tc.r {
			t.Errorf("Levels(%d) product = %d, want %d", tc.r, product(got), tc.r)
		}
	}
}

func TestLevelsRejectsOutOfRange(t *testing.T) {
	if _, err := Levels(0); err == nil {
		t.Error("expected error for r=0")
	}
	if _, err := Levels(1025); err == nil {
		t.Error("expected error for r>1024")
	}
}

func TestLevelsUnfactorable(t *testing.T) {
	if _, err := Levels(7); err == nil {
		t.Error("expected error for r=7 (not divisible by 4)")
	}
}

func TestTwoLevel(t *testing.T) {
	got, err := TwoLevel(128, 16)
	if err != nil {
		t.Fatal(err)
	}
	if !equal(got, []int{16, 8}) {
		t.Errorf("TwoLevel(128,16) = %v, want [16 8]", got)
	}
	if _, err := TwoLevel(100, 16); err == nil {
		t.Error("expected error: 100 is not a multiple of 16")
	}
	if _, err := TwoLevel(128, 3); err == nil {
		t.Error("expected error: first factor must be 8 or 16")
	}
}

func equal(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
