package feed

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"dealradar/internal/deal"
	"dealradar/internal/heuristics"
)

// DeterministicID derives the stable identity of a deal from its content:
// lowercased store domain, normalized title, new price and trimmed source
// URL. The same semantic deal always hashes to the same id across runs,
// which is what makes the published feed diffable.
func DeterministicID(storeDomain, title string, newPrice *float64, sourceURL string) string {
	base := strings.Join([]string{
		strings.ToLower(strings.TrimSpace(storeDomain)),
		heuristics.NormalizeTitle(title),
		deal.FormatFloat(newPrice),
		strings.TrimSpace(sourceURL),
	}, "|")
	sum := sha1.Sum([]byte(base))
	return hex.EncodeToString(sum[:])
}
