package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/model"
)

// Signature gera um hash determinístico do conjunto de pares (jogador, estatística),
// independente da ordem das pernas
func Signature(legs []*model.CandidatePick) string {
	keys := make([]string, 0, len(legs))
	for _, l := range legs {
		keys = append(keys, l.Key().String())
	}
	sort.Strings(keys)

	sum := sha256.Sum256([]byte(strings.Join(keys, ",")))
	return hex.EncodeToString(sum[:])
}

// Deduplicator rejeita parlays cujo conjunto de pares já foi confirmado na execução
type Deduplicator struct {
	seen map[string]struct{}
}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]struct{})}
}

// Seen informa se a assinatura já foi registrada
func (d *Deduplicator) Seen(sig string) bool {
	_, ok := d.seen[sig]
	return ok
}

// Add registra a assinatura de um parlay confirmado
func (d *Deduplicator) Add(sig string) { d.seen[sig] = struct{}{} }
