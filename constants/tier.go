package constants

// Tier is the extraction strategy that produced an order.
type Tier string

// Stable values (emitted in events, ledger rows and API responses).
const (
	TierStructured Tier = "structured" // tagged sections or classified lines
	TierAI         Tier = "ai"         // completion service, re-priced locally
	TierEmergency  Tier = "emergency"  // last-resort heuristics
)

// MatchKind records how a line item was tied to a catalog entry.
type MatchKind string

const (
	MatchCode       MatchKind = "code"
	MatchSynonym    MatchKind = "synonym"
	MatchFuzzy      MatchKind = "fuzzy"
	MatchPartial    MatchKind = "partial"
	MatchKeyword    MatchKind = "keyword"
	MatchFallback   MatchKind = "fallback"
	MatchUnresolved MatchKind = "unresolved"
)

// Resolved reports whether the match points at a product the customer actually named.
func (m MatchKind) Resolved() bool {
	return m != "" && m != MatchFallback && m != MatchUnresolved
}
