package geom

import "testing"

func TestBoundsAnchors(t *testing.T) {
	b := NewBounds(100, 200, 41, 4)

	if got := b.Center(); got != Pt(120, 202) {
		t.Errorf("Center() = %v, want (120,202)", got)
	}
	if got := b.BottomCenter(); got != Pt(120, 204) {
		t.Errorf("BottomCenter() = %v, want (120,204)", got)
	}
	if got := b.Size(); got != 164 {
		t.Errorf("Size() = %d, want 164", got)
	}
}

func TestBoundsContainsIsHalfOpen(t *testing.T) {
	b := NewBounds(10, 10, 5, 5)

	tests := []struct {
		p    Point
		want bool
	}{
		{Pt(10, 10), true},
		{Pt(14, 14), true},
		{Pt(15, 12), false},
		{Pt(12, 15), false},
		{Pt(9, 12), false},
	}
	for _, tt := range tests {
		if got := b.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestDistanceTruncates(t *testing.T) {
	if got := Pt(0, 0).Distance(Pt(3, 4)); got != 5 {
		t.Errorf("Distance = %d, want 5", got)
	}
	// sqrt(2) ~ 1.41
	if got := Pt(0, 0).Distance(Pt(1, 1)); got != 1 {
		t.Errorf("Distance = %d, want 1", got)
	}
}

func TestToBoundsInclusive(t *testing.T) {
	pc := NewPointCloud([]Point{Pt(5, 5)})
	if got := pc.ToBounds(); got != NewBounds(5, 5, 1, 1) {
		t.Errorf("single point bounds = %+v", got)
	}

	pc.Add(Pt(7, 9))
	if got := pc.ToBounds(); got != NewBounds(5, 5, 3, 5) {
		t.Errorf("two point bounds = %+v", got)
	}

	if got := NewPointCloud(nil).ToBounds(); got != (Bounds{}) {
		t.Errorf("empty cloud bounds = %+v", got)
	}
}
