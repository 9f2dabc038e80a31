package book

// KeyKind classifies a lookup key from the URL path.
type KeyKind int

const (
	// KeySurrogate is a store-assigned primary key: 24 hex characters.
	KeySurrogate KeyKind = iota
	// KeyBusiness is anything else non-empty, tried against bookId.
	KeyBusiness
	// KeyUnparsable is an empty key.
	KeyUnparsable
)

// ParseKey classifies a path id so lookups branch explicitly instead of
// sniffing shapes at each call site.
func ParseKey(s string) KeyKind {
	if s == "" {
		return KeyUnparsable
	}
	if len(s) != 24 {
		return KeyBusiness
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return KeyBusiness
		}
	}
	return KeySurrogate
}
