package search

import (
	"reflect"
	"sync"
	"testing"
)

func TestFold(t *testing.T) {
	cases := map[string]string{
		"":                      "",
		"  Asha   Foundation\t": "asha foundation",
		"SAKHI\nOne-Stop":       "sakhi one-stop",
		"Straße":                "strasse",
	}
	for in, want := range cases {
		if got := Fold(in); got != want {
			t.Fatalf("Fold(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestContainsAndMatchAny(t *testing.T) {
	if !Contains("Jagori Women's Resource Centre", "  WOMEN'S ") {
		t.Fatalf("expected case-insensitive substring match")
	}
	if !Contains("anything", "   ") {
		t.Fatalf("blank needle should match")
	}
	if Contains("Asha", "Ashaa") {
		t.Fatalf("unexpected match")
	}

	if !MatchAny("legal", "Majlis", "Legal aid and advocacy") {
		t.Fatalf("expected match on second field")
	}
	if MatchAny("shelter", "Majlis", "Legal aid") {
		t.Fatalf("unexpected match")
	}
	if !MatchAny("", "x") {
		t.Fatalf("blank query should match")
	}
}

type ngo struct{ name, desc string }

func TestFilter_PreservesOrder(t *testing.T) {
	items := []ngo{{"Asha", "education"}, {"Sneha", "Shelter for women"}, {"Snehalaya", "shelter homes"}}
	fields := func(n ngo) []string { return []string{n.name, n.desc} }

	got := Filter(items, "SHELTER", fields)
	if want := items[1:]; !reflect.DeepEqual(got, want) {
		t.Fatalf("Filter = %+v; want %+v", got, want)
	}

	all := Filter(items, "", fields)
	if !reflect.DeepEqual(all, items) {
		t.Fatalf("blank query should keep everything")
	}
	all[0].name = "changed"
	if items[0].name != "Asha" {
		t.Fatalf("Filter must return a copy")
	}
}

func TestEqualFold(t *testing.T) {
	if !EqualFold(" Healing", "healing ") || EqualFold("Healing", "Hope") {
		t.Fatalf("EqualFold mismatch")
	}
}

func TestFold_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if Fold("Support Group") != "support group" {
					t.Error("fold mismatch under concurrency")
					return
				}
			}
		}()
	}
	wg.Wait()
}
