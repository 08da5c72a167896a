package driven

// ResponderDirectory maps tracker logins to desk agent ids.
type ResponderDirectory interface {
	// Lookup returns the agent id for login. The boolean is false when no
	// mapping exists.
	Lookup(login string) (int64, bool, error)

	// KeyFor names the configuration key that would hold login's mapping.
	KeyFor(login string) string
}
