package model

import "strings"

// DefaultShortCount is how many leading schema keys the short report shows.
const DefaultShortCount = 9

// ClaimSet holds all claims for one project. Reports are stored per source;
// the Claim for a key is assembled on demand by scanning sources in the
// order they first reported. A ClaimSet is built during one fetch cycle and
// read-only afterwards; it is not safe for concurrent mutation.
type ClaimSet struct {
	buckets     map[string]Attributes
	sourceOrder []string
	shortCount  int
}

// NewClaimSet returns an empty ClaimSet over the fixed attribute schema.
func NewClaimSet() *ClaimSet {
	return &ClaimSet{
		buckets:    make(map[string]Attributes),
		shortCount: DefaultShortCount,
	}
}

// Update merges attrs into source's bucket. Every key is validated against
// the schema before anything is stored, so a SchemaError leaves the set
// unchanged. A source updating its own prior report overwrites only its own
// values; other sources' buckets are untouched.
func (cs *ClaimSet) Update(attrs Attributes, source string) error {
	for k := range attrs {
		if !ValidKey(k) {
			return &SchemaError{Key: k}
		}
	}
	bucket, ok := cs.buckets[source]
	if !ok {
		bucket = make(Attributes, len(attrs))
		cs.buckets[source] = bucket
		cs.sourceOrder = append(cs.sourceOrder, source)
	}
	for k, v := range attrs {
		bucket[k] = v
	}
	return nil
}

// Claim assembles the claim for key, scanning source buckets in registration
// order. Unknown keys return a SchemaError.
func (cs *ClaimSet) Claim(key Key) (*Claim, error) {
	if !ValidKey(key) {
		return nil, &SchemaError{Key: key}
	}
	claim := &Claim{}
	for _, source := range cs.sourceOrder {
		if v, ok := cs.buckets[source][key]; ok {
			claim.Add(v, source)
		}
	}
	return claim, nil
}

// Get is the non-failing form of Claim: unknown keys yield an empty claim.
func (cs *ClaimSet) Get(key Key) *Claim {
	claim, err := cs.Claim(key)
	if err != nil {
		return &Claim{}
	}
	return claim
}

// Sources returns the reporting sources in registration order.
func (cs *ClaimSet) Sources() []string {
	out := make([]string, len(cs.sourceOrder))
	copy(out, cs.sourceOrder)
	return out
}

// Format renders one line per non-empty attribute as "key: claim", each
// prefixed by indent spaces. Empty claims are omitted entirely, so
// unreported attributes disappear from the output. When short is set only
// the first DefaultShortCount schema keys are considered.
func (cs *ClaimSet) Format(short bool, indent int, showSources bool) string {
	ks := keys
	if short {
		ks = keys[:cs.shortCount]
	}
	prefix := strings.Repeat(" ", indent)
	var lines []string
	for _, key := range ks {
		formatted := cs.Get(key).Format(showSources)
		if formatted == "" {
			continue
		}
		lines = append(lines, prefix+string(key)+": "+formatted)
	}
	return strings.Join(lines, "\n")
}
