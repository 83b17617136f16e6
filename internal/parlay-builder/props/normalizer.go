// Package props canoniza rótulos de mercado de props de jogadores.
package props

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Códigos canônicos das estatísticas compostas
const (
	PRA    = "pra"
	PR     = "pr"
	PA     = "pa"
	RA     = "ra"
	Threes = "threes"
)

var qualifierPrefixes = []string{"player_", "batter_", "pitcher_"}

var composites = map[string][]string{
	PRA: {"points", "rebounds", "assists"},
	PR:  {"points", "rebounds"},
	PA:  {"points", "assists"},
	RA:  {"rebounds", "assists"},
}

var (
	pointsTokens   = map[string]bool{"points": true, "point": true, "pts": true}
	reboundsTokens = map[string]bool{"rebounds": true, "rebound": true, "rebs": true, "reb": true}
	assistsTokens  = map[string]bool{"assists": true, "assist": true, "asts": true, "ast": true}
)

// Normalize converte um rótulo de mercado bruto no código canônico
// "player_points_rebounds_assists" -> "pra"; rótulos sem correspondência passam limpos
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	for _, p := range qualifierPrefixes {
		if strings.HasPrefix(s, p) {
			s = strings.TrimPrefix(s, p)
			break
		}
	}

	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == ' ' || r == '+' || r == '-'
	})

	var pts, reb, ast bool
	for _, t := range tokens {
		switch {
		case pointsTokens[t]:
			pts = true
		case reboundsTokens[t]:
			reb = true
		case assistsTokens[t]:
			ast = true
		case isThrees(t):
			return Threes
		}
	}

	switch {
	case pts && reb && ast:
		return PRA
	case pts && reb:
		return PR
	case pts && ast:
		return PA
	case reb && ast:
		return RA
	}
	return s
}

func isThrees(t string) bool {
	return strings.HasPrefix(t, "three") || strings.HasPrefix(t, "3pt") || t == "3pm" || t == "3s"
}

// BaseStats expande um código composto nas estatísticas base, na ordem da tabela
func BaseStats(code string) []string {
	if base, ok := composites[code]; ok {
		out := make([]string, len(base))
		copy(out, base)
		return out
	}
	return []string{code}
}

// Overlaps informa se dois códigos compartilham alguma estatística base
func Overlaps(a, b string) bool {
	for _, x := range BaseStats(a) {
		for _, y := range BaseStats(b) {
			if x == y {
				return true
			}
		}
	}
	return false
}

// NormalizePlayer produz a chave de jogador usada nas tabelas de confirmação e histórico
// "  Nikola  Jokić " -> "nikola jokic"; "D'Angelo Russell Jr." -> "dangelo russell jr"
func NormalizePlayer(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	folded = strings.Map(func(r rune) rune {
		if r == '.' || r == '\'' || r == '’' {
			return -1
		}
		return unicode.ToLower(r)
	}, folded)
	return strings.Join(strings.Fields(folded), " ")
}
