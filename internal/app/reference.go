package app

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"
)

const (
	DefaultReferencePrefix = "ADMAS"
	base36                 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// ReferenceGenerator mints booking references of the form PREFIX-YYMM-XXXNNN,
// e.g. ADMAS-2405-K7Q042. Uniqueness is probabilistic (36^3 * 1000 codes per
// month); BookingSubmitter reserves each code through a ReferenceRegistry.
type ReferenceGenerator struct {
	prefix string
	now    func() time.Time
	rand   io.Reader
}

func NewReferenceGenerator(prefix string) *ReferenceGenerator {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" || strings.IndexFunc(prefix, func(r rune) bool { return r < 'A' || r > 'Z' }) >= 0 {
		prefix = DefaultReferencePrefix
	}
	return &ReferenceGenerator{prefix: prefix, now: time.Now, rand: rand.Reader}
}

func (g *ReferenceGenerator) Next() (string, error) {
	var sb strings.Builder
	sb.Grow(len(g.prefix) + 12)
	for i := 0; i < 3; i++ {
		n, err := rand.Int(g.rand, big.NewInt(int64(len(base36))))
		if err != nil {
			return "", fmt.Errorf("reference entropy: %w", err)
		}
		sb.WriteByte(base36[n.Int64()])
	}
	seq, err := rand.Int(g.rand, big.NewInt(1000))
	if err != nil {
		return "", fmt.Errorf("reference entropy: %w", err)
	}
	now := g.now()
	return fmt.Sprintf("%s-%02d%02d-%s%03d", g.prefix, now.Year()%100, int(now.Month()), sb.String(), seq.Int64()), nil
}
