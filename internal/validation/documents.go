package validation

import (
	"strings"
	"unicode"
)

// Digits strips every non-digit character.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allSame(d string) bool {
	return strings.Count(d, d[:1]) == len(d)
}

// IsBrazilianPhone accepts 10 or 11 digits with a DDD between 11 and 99,
// rejecting repeated-digit sequences.
func IsBrazilianPhone(phone string) bool {
	d := Digits(phone)
	if len(d) < 10 || len(d) > 11 {
		return false
	}
	if allSame(d) {
		return false
	}
	ddd := int(d[0]-'0')*10 + int(d[1]-'0')
	return ddd >= 11 && ddd <= 99
}

// IsPersonName requires three characters, at least one letter and not only digits.
func IsPersonName(name string) bool {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < 3 {
		return false
	}
	hasLetter := false
	for _, r := range name {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	return hasLetter
}

func IsCPF(cpf string) bool {
	d := Digits(cpf)
	if len(d) != 11 || allSame(d) {
		return false
	}

	check := func(n int) bool {
		sum := 0
		for i := 0; i < n; i++ {
			sum += int(d[i]-'0') * (n + 1 - i)
		}
		rest := (sum * 10) % 11
		if rest == 10 {
			rest = 0
		}
		return rest == int(d[n]-'0')
	}
	return check(9) && check(10)
}

var (
	cnpjWeights1 = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights2 = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

func IsCNPJ(cnpj string) bool {
	d := Digits(cnpj)
	if len(d) != 14 || allSame(d) {
		return false
	}

	check := func(weights []int) bool {
		sum := 0
		for i, w := range weights {
			sum += int(d[i]-'0') * w
		}
		rest := sum % 11
		digit := 0
		if rest >= 2 {
			digit = 11 - rest
		}
		return digit == int(d[len(weights)]-'0')
	}
	return check(cnpjWeights1) && check(cnpjWeights2)
}

// IsDocument validates a CPF or CNPJ by its length.
func IsDocument(doc string) bool {
	switch len(Digits(doc)) {
	case 11:
		return IsCPF(doc)
	case 14:
		return IsCNPJ(doc)
	default:
		return false
	}
}
