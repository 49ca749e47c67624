package repository

import (
	"crypto/rand"
	"math/big"

	"github.com/lkn-labs/supportbot/internal/domain"
)

// GenerateTicketCode draws one candidate code from the fixed alphabet.
// Uniqueness is enforced by the store; callers retry on collision.
func GenerateTicketCode() string {
	buf := make([]byte, domain.CodeLength)
	max := big.NewInt(int64(len(domain.CodeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform entropy source is
			// broken; nothing sensible to do but panic.
			panic(err)
		}
		buf[i] = domain.CodeAlphabet[n.Int64()]
	}
	return string(buf)
}
