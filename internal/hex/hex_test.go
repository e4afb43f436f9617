package hex

import "testing"

func TestDistance(t *testing.T) {
	origin := Axial{}
	if d := Distance(origin, Axial{Q: 2, R: -1}); d != 2 {
		t.Fatalf("expected distance 2, got %d", d)
	}
	if d := Distance(Axial{Q: -3, R: 3}, Axial{Q: 3, R: -3}); d != 6 {
		t.Fatalf("expected distance 6, got %d", d)
	}
	for i, n := range origin.Neighbors() {
		if !Adjacent(origin, n) {
			t.Fatalf("neighbor %d %v not adjacent", i, n)
		}
	}
	if origin.Neighbor(-1) != origin.Neighbor(5) {
		t.Fatalf("direction index should wrap")
	}
}

func TestRingAndDisk(t *testing.T) {
	c := Axial{Q: 1, R: 1}
	if got := len(Ring(c, 0)); got != 1 {
		t.Fatalf("expected ring 0 to hold the center, got %d", got)
	}
	ring := Ring(c, 2)
	if len(ring) != 12 {
		t.Fatalf("expected 12 hexes on ring 2, got %d", len(ring))
	}
	for _, a := range ring {
		if Distance(c, a) != 2 {
			t.Fatalf("%v is not on ring 2", a)
		}
	}

	disk := Disk(c, 2)
	if len(disk) != 19 {
		t.Fatalf("expected 19 hexes in disk 2, got %d", len(disk))
	}
	seen := make(map[Axial]bool, len(disk))
	for _, a := range disk {
		if seen[a] {
			t.Fatalf("duplicate %v in disk", a)
		}
		seen[a] = true
	}
	if disk[0] != c {
		t.Fatalf("disk should start at its center")
	}
}
