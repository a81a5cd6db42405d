package fortune

import "fmt"

// Kind identifies a category of AI-generated artifact. The set is closed:
// each kind carries its own prompt shape, result schema, and reuse policy.
type Kind string

const (
	KindDaily    Kind = "daily"
	KindLifelong Kind = "lifelong"
	KindFace     Kind = "face"
	KindDream    Kind = "dream"
)

// Kinds returns all known fortune kinds.
func Kinds() []Kind {
	return []Kind{KindDaily, KindLifelong, KindFace, KindDream}
}

// IsValid checks if the kind is a known fortune kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindDaily, KindLifelong, KindFace, KindDream:
		return true
	default:
		return false
	}
}

// ParseKind parses a kind from its string form.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("unknown fortune kind: %q", s)
	}
	return k, nil
}

// Reusable reports whether results of this kind are served from a
// previously stored result instead of regenerating. Daily results are
// reused within a calendar date, lifelong results forever; face and dream
// analyses are request-scoped and never reused.
func (k Kind) Reusable() bool {
	return k == KindDaily || k == KindLifelong
}
