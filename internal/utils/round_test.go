package utils_test

import (
	"testing"

	"github.com/KaramelBytes/sheetlens-cli/internal/utils"
)

func TestRound2(t *testing.T) {
	cases := map[float64]float64{
		1.234:   1.23,
		1.235:   1.24,
		-1.235:  -1.24,
		100:     100,
		2.0 / 3: 0.67,
	}
	for in, want := range cases {
		if got := utils.Round2(in); got != want {
			t.Errorf("Round2(%v) = %v, want %v", in, got, want)
		}
	}
}
