package model

// Credentials is a one-shot secret supplied for a single push. It is never
// persisted. An empty Username lets the git adapter pick a placeholder, which
// token-based hosts accept.
type Credentials struct {
	Username string
	Secret   string
}

// String keeps the secret out of logs and formatted errors.
func (c Credentials) String() string {
	return "Credentials{Username:" + c.Username + ", Secret:<redacted>}"
}
