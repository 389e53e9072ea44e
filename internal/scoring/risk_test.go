package scoring

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		score float64
		want  RiskLevel
	}{
		{0, RiskHigh},
		{39.99, RiskHigh},
		{40.0, RiskMedium}, // lower boundary belongs to the safer bucket
		{40.01, RiskMedium},
		{69.99, RiskMedium},
		{70.0, RiskLow},
		{70.01, RiskLow},
		{100, RiskLow},
		{-5, RiskHigh},
	}

	for _, tt := range tests {
		if got := Classify(tt.score); got != tt.want {
			t.Errorf("Classify(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}
