package helper

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// GenerateReference builds a traceable reference for a mandate or debit:
//
//	{PREFIX}-{first 8 chars of entityID}-{unix millis}-{6 random hex chars}
//
// The millisecond timestamp keeps references human-orderable; the random
// tail keeps two references generated within the same millisecond from
// colliding (e.g. concurrent debit retries for one mandate).
func GenerateReference(prefix, entityID string) string {
	short := entityID
	if len(short) > 8 {
		short = short[:8]
	}

	b := make([]byte, 3)
	_, _ = rand.Read(b)

	return fmt.Sprintf("%s-%s-%d-%s",
		strings.ToUpper(prefix),
		short,
		time.Now().UnixMilli(),
		hex.EncodeToString(b),
	)
}
