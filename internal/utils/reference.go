package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewOrderReference generates the external reference that correlates a local
// order with the payment gateway's view of the transaction. It is generated
// before the gateway preference is created and must never collide, so the
// random part comes from crypto/rand (48 bits) on top of the date prefix.
func NewOrderReference() string {
	datePart := time.Now().UTC().Format("20060102")

	var b [6]byte
	if _, err := rand.Read(b[:]); err != nil {
		// fallback: uuid-based entropy
		return fmt.Sprintf("ORD-%s-%s", datePart, strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12]))
	}

	return fmt.Sprintf("ORD-%s-%s", datePart, strings.ToUpper(hex.EncodeToString(b[:])))
}
