package exercise

import (
	"fmt"
	"strconv"
	"strings"
)

// fraction is a rational number kept in n/d form.
type fraction struct {
	num, den int
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// reduce returns the GCD-reduced form with a positive denominator.
func (f fraction) reduce() fraction {
	if f.den < 0 {
		f.num, f.den = -f.num, -f.den
	}
	if g := gcd(f.num, f.den); g > 1 {
		f.num /= g
		f.den /= g
	}
	return f
}

func (f fraction) String() string {
	return fmt.Sprintf("%d/%d", f.num, f.den)
}

// parseFraction parses strict "n/d" form with a non-zero denominator.
func parseFraction(s string) (fraction, bool) {
	parts := strings.SplitN(strings.TrimSpace(s), "/", 2)
	if len(parts) != 2 {
		return fraction{}, false
	}
	num, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	den, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || den == 0 {
		return fraction{}, false
	}
	return fraction{num, den}, true
}

// checkFractionLenient compares GCD-normalized fractions and additionally
// accepts a bare integer as n/1 ("3" matches "3/1").
func checkFractionLenient(correctAnswer, userAnswer string) (bool, error) {
	correct, ok := parseFraction(correctAnswer)
	if !ok {
		return false, nil
	}
	user, ok := parseFraction(userAnswer)
	if !ok {
		n, err := strconv.Atoi(strings.TrimSpace(userAnswer))
		if err != nil {
			return false, ErrInvalidAnswer
		}
		user = fraction{n, 1}
	}
	return user.reduce() == correct.reduce(), nil
}

// checkFractionStrict compares GCD-normalized fractions; the answer must be
// given in "n/d" form.
func checkFractionStrict(correctAnswer, userAnswer string) (bool, error) {
	correct, ok := parseFraction(correctAnswer)
	if !ok {
		return false, nil
	}
	user, ok := parseFraction(userAnswer)
	if !ok {
		return false, ErrInvalidAnswer
	}
	return user.reduce() == correct.reduce(), nil
}

// kesirToplama drills fraction addition. Answers are GCD-reduced; an
// integer-valued result also accepts the bare-integer form.
func kesirToplama() *Definition {
	denominators := []int{2, 3, 4, 6}
	return &Definition{
		Key:    "kesirToplama",
		Module: ModuleKesirler,
		Simple: true,
		Combinations: func() []string {
			var out []string
			for _, q := range denominators {
				for p := 1; p < q; p++ {
					for _, s := range denominators {
						for r := 1; r < s; r++ {
							out = append(out, fmt.Sprintf("%d/%d + %d/%d", p, q, r, s))
						}
					}
				}
			}
			return out
		},
		HardSubset: func() []string {
			// Unlike denominators force a common-denominator step.
			var out []string
			for _, q := range denominators {
				for p := 1; p < q; p++ {
					for _, s := range denominators {
						if s == q {
							continue
						}
						for r := 1; r < s; r++ {
							out = append(out, fmt.Sprintf("%d/%d + %d/%d", p, q, r, s))
						}
					}
				}
			}
			return out
		},
		Answer: func(question string) (string, bool) {
			parts := strings.Fields(question)
			if len(parts) != 3 || parts[1] != "+" {
				return "", false
			}
			left, ok1 := parseFraction(parts[0])
			right, ok2 := parseFraction(parts[2])
			if !ok1 || !ok2 {
				return "", false
			}
			sum := fraction{
				num: left.num*right.den + right.num*left.den,
				den: left.den * right.den,
			}
			return sum.reduce().String(), true
		},
		Check: checkFractionLenient,
	}
}

// kesirSadelestirme shows a reducible fraction; the answer is its reduced
// form and must be entered as "n/d" even when the value is integral.
func kesirSadelestirme() *Definition {
	return &Definition{
		Key:    "kesirSadelestirme",
		Module: ModuleKesirler,
		Simple: true,
		Combinations: func() []string {
			var out []string
			for d := 4; d <= 12; d++ {
				for n := 2; n < d; n++ {
					if gcd(n, d) > 1 {
						out = append(out, fmt.Sprintf("%d/%d", n, d))
					}
				}
			}
			return out
		},
		HardSubset: func() []string {
			var out []string
			for d := 9; d <= 12; d++ {
				for n := 2; n < d; n++ {
					if gcd(n, d) > 1 {
						out = append(out, fmt.Sprintf("%d/%d", n, d))
					}
				}
			}
			return out
		},
		Answer: func(question string) (string, bool) {
			f, ok := parseFraction(question)
			if !ok {
				return "", false
			}
			return f.reduce().String(), true
		},
		Check: checkFractionStrict,
	}
}
