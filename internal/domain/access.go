package domain

// AccessState is the gate decision for one domain, derived per request and
// never cached. Exactly one of Allowed, NeedsAuth, or NeedsSubscription
// holds for a well-formed state.
type AccessState struct {
	NeedsAuth         bool
	NeedsSubscription bool
	UsageCount        int
	IsSubscribed      bool
}

// Allowed reports whether the caller may start a session.
func (s AccessState) Allowed() bool {
	return !s.NeedsAuth && !s.NeedsSubscription
}
