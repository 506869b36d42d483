package gen

import "testing"

func TestAlignmentPatternPositions(t *testing.T) {
	tests := []struct {
		version int
		want    []int
	}{
		{1, nil},
		{2, []int{6, 18}},
		{7, []int{6, 22, 38}},
		{32, []int{6, 34, 60, 86, 112, 138}},
		{40, []int{6, 30, 58, 86, 114, 142, 170}},
	}
	for _, tt := range tests {
		got := alignmentPatternPositions(tt.version)
		if len(got) != len(tt.want) {
			t.Errorf("v%d: positions = %v, want %v", tt.version, got, tt.want)
			continue
		}
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("v%d: positions = %v, want %v", tt.version, got, tt.want)
				break
			}
		}
	}
}

func TestFunctionPatternTypes(t *testing.T) {
	code, err := EncodeSegments(MakeSegments("TYPES"), LevelLow, MinVersion, MaxVersion, AutoMask, false)
	if err != nil {
		t.Fatalf("EncodeSegments error: %v", err)
	}

	// Finder pattern corners.
	corners := [][2]int{{0, 0}, {code.Size - 1, 0}, {0, code.Size - 1}}
	for _, c := range corners {
		if code.Types[c[1]][c[0]] != TypeFinder {
			t.Errorf("type at (%d,%d) = %v, want finder", c[0], c[1], code.Types[c[1]][c[0]])
		}
	}
	// Finder centers are dark.
	centers := [][2]int{{3, 3}, {code.Size - 4, 3}, {3, code.Size - 4}}
	for _, c := range centers {
		if !code.Modules[c[1]][c[0]] {
			t.Errorf("finder center (%d,%d) should be dark", c[0], c[1])
		}
	}

	// Timing patterns run along row and column 6, alternating dark/light.
	for i := 8; i < code.Size-8; i++ {
		if code.Types[6][i] != TypeTiming {
			t.Errorf("type at (%d,6) = %v, want timing", i, code.Types[6][i])
		}
		if code.Modules[6][i] != (i%2 == 0) {
			t.Errorf("timing module (%d,6) = %v", i, code.Modules[6][i])
		}
	}

	// The dark module beside the lower-left finder.
	if !code.Modules[code.Size-8][8] {
		t.Error("dark module at (8, size-8) should be dark")
	}
	if code.Types[code.Size-8][8] != TypeFormat {
		t.Errorf("dark module type = %v, want format", code.Types[code.Size-8][8])
	}

	// No position may remain unclassified as border: the generator never
	// emits it.
	for y := range code.Types {
		for x, typ := range code.Types[y] {
			if typ == TypeBorder {
				t.Fatalf("generator emitted border type at (%d,%d)", x, y)
			}
		}
	}
}

func TestVersionInfoPresence(t *testing.T) {
	// Version information blocks appear from version 7 up.
	small, err := EncodeSegments(MakeSegments("V"), LevelLow, 6, 6, AutoMask, false)
	if err != nil {
		t.Fatalf("EncodeSegments error: %v", err)
	}
	large, err := EncodeSegments(MakeSegments("V"), LevelLow, 7, 7, AutoMask, false)
	if err != nil {
		t.Fatalf("EncodeSegments error: %v", err)
	}

	if countType(small, TypeVersion) != 0 {
		t.Error("version 6 symbol should have no version info modules")
	}
	if got := countType(large, TypeVersion); got != 36 {
		t.Errorf("version 7 symbol has %d version info modules, want 36", got)
	}
}

func TestAlignmentTypePresence(t *testing.T) {
	code, err := EncodeSegments(MakeSegments("A"), LevelLow, 2, 2, AutoMask, false)
	if err != nil {
		t.Fatalf("EncodeSegments error: %v", err)
	}
	// Version 2 has a single alignment pattern at (18,18).
	if got := countType(code, TypeAlignment); got != 25 {
		t.Errorf("alignment modules = %d, want 25", got)
	}
	if code.Types[18][18] != TypeAlignment {
		t.Errorf("type at (18,18) = %v, want alignment", code.Types[18][18])
	}
	if !code.Modules[18][18] {
		t.Error("alignment center should be dark")
	}
}

func TestDataAndEccTagged(t *testing.T) {
	code, err := EncodeSegments(MakeSegments("PAYLOAD"), LevelLow, MinVersion, MaxVersion, AutoMask, false)
	if err != nil {
		t.Fatalf("EncodeSegments error: %v", err)
	}
	data := countType(code, TypeData)
	ecc := countType(code, TypeECC)
	if data == 0 || ecc == 0 {
		t.Fatalf("data modules = %d, ecc modules = %d, want both > 0", data, ecc)
	}
	// Version 1: 19 data codewords, 7 ECC codewords, no remainder bits.
	if data != 19*8 {
		t.Errorf("data modules = %d, want %d", data, 19*8)
	}
	if ecc != 7*8 {
		t.Errorf("ecc modules = %d, want %d", ecc, 7*8)
	}
}

func TestPenaltyScoreNonNegative(t *testing.T) {
	for mask := 0; mask <= 7; mask++ {
		code, err := EncodeSegments(MakeSegments("PENALTY"), LevelLow, MinVersion, MaxVersion, mask, false)
		if err != nil {
			t.Fatalf("mask %d: %v", mask, err)
		}
		c := &canvas{size: code.Size, modules: code.Modules}
		if score := c.getPenaltyScore(); score < 0 {
			t.Errorf("mask %d: penalty %d < 0", mask, score)
		}
	}
}

func countType(code *Code, want ModuleType) int {
	n := 0
	for _, row := range code.Types {
		for _, typ := range row {
			if typ == want {
				n++
			}
		}
	}
	return n
}
