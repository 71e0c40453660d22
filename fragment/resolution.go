package fragment

type ResolutionKind int

const (
	NoPredicate ResolutionKind = iota
	Tautology
	Predicate
)

func (k ResolutionKind) String() string {
	switch k {
	case NoPredicate:
		return "no predicate"
	case Tautology:
		return "tautology"
	case Predicate:
		return "predicate"
	}
	return "unknown"
}

// Resolution is what a possibly empty producer actually rendered. Tautology is
// the neutral stand-in a consumer uses when it needs non-empty SQL.
type Resolution struct {
	Kind      ResolutionKind
	Predicate Fragment
	Tautology Fragment
}

// Fragment returns the predicate when there is one, the tautology otherwise.
func (r Resolution) Fragment() Fragment {
	if r.Kind == Predicate {
		return r.Predicate
	}
	return r.Tautology
}

// Resolver is implemented by producers that may render nothing.
type Resolver interface {
	Fragment
	Resolve() Resolution
}
