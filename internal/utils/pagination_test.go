package utils

import (
	"reflect"
	"testing"
)

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		s    string
		def  int
		want int
	}{
		// empty -> default
		{"", 10, 10},
		// valid ints
		{"42", 0, 42},
		{"-13", 1, -13},
		{"0012", 99, 12},
		{" 42 ", 7, 42},
		// invalid -> default
		{"x", 5, 5},
		{"4 2", 7, 7},
		// overflow -> default
		{"999999999999999999999999", -1, -1},
	}

	for _, tc := range cases {
		if got := AtoiDefault(tc.s, tc.def); got != tc.want {
			t.Fatalf("AtoiDefault(%q, %d) = %d; want %d", tc.s, tc.def, got, tc.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if Clamp(0, 1, 100) != 1 || Clamp(500, 1, 100) != 100 || Clamp(20, 1, 100) != 20 {
		t.Fatalf("Clamp bounds wrong")
	}
}

func TestSplitCSV(t *testing.T) {
	if got := SplitCSV(""); got != nil {
		t.Fatalf("SplitCSV(\"\") = %v; want nil", got)
	}
	if got := SplitCSV(" Healing, ,Domestic Violence ,,"); !reflect.DeepEqual(got, []string{"Healing", "Domestic Violence"}) {
		t.Fatalf("SplitCSV = %q", got)
	}
}

func TestHead(t *testing.T) {
	s := []int{1, 2, 3, 4, 5, 6, 7}
	if got := Head(s, 6); len(got) != 6 || got[5] != 6 {
		t.Fatalf("Head(s, 6) = %v", got)
	}
	if got := Head(s, 12); len(got) != 7 {
		t.Fatalf("Head beyond length = %v", got)
	}
	if got := Head(s, -1); len(got) != 0 {
		t.Fatalf("Head negative = %v", got)
	}
	if got := Head([]string(nil), 3); len(got) != 0 {
		t.Fatalf("Head(nil) = %v", got)
	}
}
