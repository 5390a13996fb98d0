package sensor

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type point struct {
	I, J int
}

func TestGridTotalPoints(t *testing.T) {
	tests := []struct {
		w, h int
		want int
	}{
		{10, 10, 200},
		{1, 1, 2},
		{4, 3, 24},
		{7, 2, 28},
	}

	for _, tt := range tests {
		g, err := NewRectangularGrid(tt.w, tt.h, DefaultXDensity, DefaultYDensity, DefaultFrontDistance)
		if err != nil {
			t.Fatalf("NewRectangularGrid(%d, %d): %v", tt.w, tt.h, err)
		}
		if got := g.TotalPoints(); got != tt.want {
			t.Errorf("TotalPoints(%d, %d) = %d, want %d", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestGridEnumerationOrder(t *testing.T) {
	g, err := NewRectangularGrid(2, 3, DefaultXDensity, DefaultYDensity, DefaultFrontDistance)
	if err != nil {
		t.Fatal(err)
	}

	var got []point
	err = g.Apply(0, 0, 0, func(i, j int, _, _ float64) error {
		got = append(got, point{i, j})
		return nil
	})
	if err != nil {
		t.Fatalf("Apply returned %v", err)
	}

	// Columns outer, rows inner
	want := []point{
		{-2, 0}, {-2, 1}, {-2, 2},
		{-1, 0}, {-1, 1}, {-1, 2},
		{0, 0}, {0, 1}, {0, 2},
		{1, 0}, {1, 1}, {1, 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("enumeration order mismatch (-want +got):\n%s", diff)
	}
}

func TestGridVisitCountAndRanges(t *testing.T) {
	for _, dims := range [][2]int{{1, 1}, {3, 5}, {10, 10}, {6, 1}} {
		w, h := dims[0], dims[1]
		g, err := NewRectangularGrid(w, h, DefaultXDensity, DefaultYDensity, DefaultFrontDistance)
		if err != nil {
			t.Fatal(err)
		}

		count := 0
		_ = g.Apply(50, 50, 10, func(i, j int, _, _ float64) error {
			count++
			if i < -w || i > w-1 {
				t.Errorf("%dx%d: column %d out of range", w, h, i)
			}
			if j < 0 || j > h-1 {
				t.Errorf("%dx%d: row %d out of range", w, h, j)
			}
			return nil
		})
		if count != 2*w*h {
			t.Errorf("%dx%d: visited %d points, want %d", w, h, count, 2*w*h)
		}
	}
}

func TestGridWorldCoordinates(t *testing.T) {
	g, err := NewRectangularGrid(10, 10, 0.4, 0.2, 5)
	if err != nil {
		t.Fatal(err)
	}

	carX, carY, carWidth := 120.0, 200.0, 20.0
	centerX := carX + carWidth/2

	_ = g.Apply(carX, carY, carWidth, func(i, j int, wx, wy float64) error {
		wantX := centerX + float64(i)/0.4
		wantY := carY - float64(j)/0.2 - 5
		if math.Abs(wx-wantX) > 1e-9 || math.Abs(wy-wantY) > 1e-9 {
			t.Errorf("point (%d,%d) = (%f,%f), want (%f,%f)", i, j, wx, wy, wantX, wantY)
		}
		return nil
	})
}

func TestGridPropagatesVisitError(t *testing.T) {
	g, err := NewRectangularGrid(3, 3, DefaultXDensity, DefaultYDensity, DefaultFrontDistance)
	if err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	calls := 0
	err = g.Apply(0, 0, 0, func(i, j int, _, _ float64) error {
		calls++
		if calls == 4 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected visit error to propagate, got %v", err)
	}
	if calls != 4 {
		t.Errorf("expected walk to stop after failing visit, got %d calls", calls)
	}
}

func TestGridIndexIsPermutation(t *testing.T) {
	g, err := NewRectangularGrid(10, 10, DefaultXDensity, DefaultYDensity, DefaultFrontDistance)
	if err != nil {
		t.Fatal(err)
	}

	seen := make([]bool, g.TotalPoints())
	_ = g.Apply(0, 0, 0, func(i, j int, _, _ float64) error {
		idx := g.Index(i, j)
		if idx < 0 || idx >= len(seen) {
			t.Fatalf("index %d for (%d,%d) out of range", idx, i, j)
		}
		if seen[idx] {
			t.Errorf("index %d assigned twice", idx)
		}
		seen[idx] = true
		return nil
	})
}

func TestGridIndexNearRowLast(t *testing.T) {
	g, err := NewRectangularGrid(10, 10, DefaultXDensity, DefaultYDensity, DefaultFrontDistance)
	if err != nil {
		t.Fatal(err)
	}

	// Nearest row, leftmost column starts the last row of the buffer
	if got := g.Index(-10, 0); got != 180 {
		t.Errorf("Index(-10, 0) = %d, want 180", got)
	}
	// Farthest row, leftmost column is the first slot
	if got := g.Index(-10, 9); got != 0 {
		t.Errorf("Index(-10, 9) = %d, want 0", got)
	}
	if got := g.Index(9, 0); got != 199 {
		t.Errorf("Index(9, 0) = %d, want 199", got)
	}
}

func TestNewRectangularGridRejectsBadInput(t *testing.T) {
	if _, err := NewRectangularGrid(0, 10, 0.4, 0.2, 5); err == nil {
		t.Error("expected error for zero half width")
	}
	if _, err := NewRectangularGrid(10, 10, 0, 0.2, 5); err == nil {
		t.Error("expected error for zero density")
	}
}
