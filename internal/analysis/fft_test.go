package analysis

import (
	"math"
	"testing"
)

func TestPowerSpectrumImpulse(t *testing.T) {
	ps := PowerSpectrum([]float64{1, 0, 0, 0, 0, 0, 0, 0})
	if len(ps) != 4 {
		t.Fatalf("expected 4 bins, got %d", len(ps))
	}
	for i, p := range ps {
		if math.Abs(p-1) > 1e-12 {
			t.Errorf("bin %d = %f, want 1", i, p)
		}
	}
}

func TestPowerSpectrumSine(t *testing.T) {
	tests := []struct {
		name string
		n    int
	}{
		{"pow2", 64},
		{"odd", 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]float64, tt.n)
			for i := range data {
				data[i] = math.Sin(2 * math.Pi * 4 * float64(i) / float64(tt.n))
			}

			ps := PowerSpectrum(data)
			if len(ps) != tt.n/2 {
				t.Fatalf("expected %d bins, got %d", tt.n/2, len(ps))
			}
			want := float64(tt.n*tt.n) / 4
			if math.Abs(ps[4]-want)/want > 1e-6 {
				t.Errorf("expected power %f at bin 4, got %f", want, ps[4])
			}
			if ps[3] > 1e-6*want || ps[5] > 1e-6*want {
				t.Errorf("energy leaked into neighbours: %f %f", ps[3], ps[5])
			}
		})
	}
}

func TestSpectrumDominantPeriod(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		period float64
	}{
		{"exact", 256, 32},
		{"uneven", 200, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]float64, tt.n)
			for i := range data {
				data[i] = 50 + 10*math.Cos(2*math.Pi*float64(i)/tt.period)
			}

			ps := Spectrum(data)
			got, power := DominantPeriod(ps, tt.n)
			if power <= 0 {
				t.Fatal("expected a peak")
			}
			if math.Abs(got-tt.period)/tt.period > 0.1 {
				t.Errorf("period = %f, want ~%f", got, tt.period)
			}
		})
	}
}

func TestDominantPeriodFlat(t *testing.T) {
	ps := Spectrum([]float64{3, 3, 3, 3, 3})
	if p, power := DominantPeriod(ps, 5); p != 0 || power != 0 {
		t.Errorf("flat series gave period %f power %f", p, power)
	}
	if Spectrum([]float64{1}) != nil {
		t.Error("expected nil spectrum for a single sample")
	}
}
