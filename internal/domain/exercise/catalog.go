package exercise

import (
	"fmt"
	"strconv"
)

// Module types for the built-in catalog.
const (
	ModuleToplama        = "toplama"
	ModuleCikarma        = "cikarma"
	ModuleCarpma         = "carpma"
	ModuleBolme          = "bolme"
	ModuleKesirler       = "kesirler"
	ModuleIleriMatematik = "ileriMatematik"
)

// DefaultRegistry builds the registry with the full built-in catalog:
// the four single-digit arithmetic drills, the two fraction drills, and the
// parameterized ileriMatematik_2..ileriMatematik_9 multiplication family.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(birBasamakliToplama())
	r.Register(birBasamakliCikarma())
	r.Register(birBasamakliCarpma())
	r.Register(tamBolme())
	r.Register(kesirToplama())
	r.Register(kesirSadelestirme())
	for base := 2; base <= 9; base++ {
		r.Register(ileriMatematik(base))
	}
	return r
}

func birBasamakliToplama() *Definition {
	return &Definition{
		Key:    "birBasamakliToplama",
		Module: ModuleToplama,
		Simple: true,
		Combinations: func() []string {
			out := make([]string, 0, 81)
			for a := 1; a <= 9; a++ {
				for b := 1; b <= 9; b++ {
					out = append(out, fmt.Sprintf("%d + %d", a, b))
				}
			}
			return out
		},
		HardSubset: func() []string {
			var out []string
			for a := 7; a <= 9; a++ {
				for b := 7; b <= 9; b++ {
					out = append(out, fmt.Sprintf("%d + %d", a, b))
				}
			}
			return out
		},
		Answer: func(q string) (string, bool) {
			a, b, ok := parseBinary(q, "+")
			if !ok {
				return "", false
			}
			return strconv.Itoa(a + b), true
		},
		Check: checkNumeric,
	}
}

func birBasamakliCikarma() *Definition {
	return &Definition{
		Key:    "birBasamakliCikarma",
		Module: ModuleCikarma,
		Simple: true,
		Combinations: func() []string {
			var out []string
			for a := 1; a <= 9; a++ {
				for b := 1; b <= a; b++ {
					out = append(out, fmt.Sprintf("%d - %d", a, b))
				}
			}
			return out
		},
		HardSubset: func() []string {
			var out []string
			for a := 7; a <= 9; a++ {
				for b := 1; b <= a; b++ {
					out = append(out, fmt.Sprintf("%d - %d", a, b))
				}
			}
			return out
		},
		Answer: func(q string) (string, bool) {
			a, b, ok := parseBinary(q, "-")
			if !ok {
				return "", false
			}
			return strconv.Itoa(a - b), true
		},
		Check: checkNumeric,
	}
}

func birBasamakliCarpma() *Definition {
	return &Definition{
		Key:    "birBasamakliCarpma",
		Module: ModuleCarpma,
		Simple: true,
		Combinations: func() []string {
			out := make([]string, 0, 81)
			for a := 1; a <= 9; a++ {
				for b := 1; b <= 9; b++ {
					out = append(out, fmt.Sprintf("%d × %d", a, b))
				}
			}
			return out
		},
		HardSubset: func() []string {
			var out []string
			for a := 6; a <= 9; a++ {
				for b := 6; b <= 9; b++ {
					out = append(out, fmt.Sprintf("%d × %d", a, b))
				}
			}
			return out
		},
		Answer: func(q string) (string, bool) {
			a, b, ok := parseBinary(q, "×")
			if !ok {
				return "", false
			}
			return strconv.Itoa(a * b), true
		},
		Check: checkNumeric,
	}
}

// tamBolme drills exact division only: every question has an integer quotient.
func tamBolme() *Definition {
	return &Definition{
		Key:    "tamBolme",
		Module: ModuleBolme,
		Simple: true,
		Combinations: func() []string {
			var out []string
			for b := 2; b <= 9; b++ {
				for q := 2; q <= 9; q++ {
					out = append(out, fmt.Sprintf("%d ÷ %d", b*q, b))
				}
			}
			return out
		},
		HardSubset: func() []string {
			var out []string
			for b := 6; b <= 9; b++ {
				for q := 2; q <= 9; q++ {
					out = append(out, fmt.Sprintf("%d ÷ %d", b*q, b))
				}
			}
			return out
		},
		Answer: func(q string) (string, bool) {
			a, b, ok := parseBinary(q, "÷")
			if !ok || b == 0 || a%b != 0 {
				return "", false
			}
			return strconv.Itoa(a / b), true
		},
		Check: checkNumeric,
	}
}

// ileriMatematik is the parameterized multiplication-table family: one
// exercise key per base number, e.g. "ileriMatematik_7" drills 7 × 2..19.
// Not simple: module accuracy is summed across the family on demand.
func ileriMatematik(base int) *Definition {
	return &Definition{
		Key:    fmt.Sprintf("ileriMatematik_%d", base),
		Module: ModuleIleriMatematik,
		Simple: false,
		Combinations: func() []string {
			var out []string
			for k := 2; k <= 19; k++ {
				out = append(out, fmt.Sprintf("%d × %d", base, k))
			}
			return out
		},
		HardSubset: func() []string {
			var out []string
			for k := 12; k <= 19; k++ {
				out = append(out, fmt.Sprintf("%d × %d", base, k))
			}
			return out
		},
		Answer: func(q string) (string, bool) {
			a, b, ok := parseBinary(q, "×")
			if !ok {
				return "", false
			}
			return strconv.Itoa(a * b), true
		},
		Check: checkNumeric,
	}
}
