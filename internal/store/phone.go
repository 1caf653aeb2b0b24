package store

import (
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D`)

// CleanPhone tira sufixo de chat e tudo que não for dígito.
func CleanPhone(raw string) string {
	raw = strings.TrimSuffix(raw, "@c.us")
	return nonDigits.ReplaceAllString(raw, "")
}

// PhoneCandidates gera as variações de um número brasileiro para busca.
// O nono dígito do celular entrou em fases por DDD, então o mesmo cliente
// pode estar gravado com ou sem ele; procuramos pelas duas formas, com e
// sem o prefixo "+".
func PhoneCandidates(raw string) []string {
	clean := CleanPhone(raw)

	seen := map[string]bool{}
	var out []string
	add := func(p string) {
		if p != "" && !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	add(clean)
	add("+" + clean)

	if strings.HasPrefix(clean, "55") && len(clean) >= 12 {
		ddd := clean[2:4]
		number := clean[4:]
		switch len(number) {
		case 9:
			add("55" + ddd + number[1:])
			add("+55" + ddd + number[1:])
		case 8:
			add("55" + ddd + "9" + number)
			add("+55" + ddd + "9" + number)
		}
	}

	return out
}
