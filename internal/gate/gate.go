// =============================================================================
// Contract Generator - Session Access Gate
// =============================================================================
//
// A static shared-secret check gating the interactive surface. This is a
// convenience latch for shared terminals, not a security boundary: the data
// never leaves the machine and the secret ships in local configuration.
//
// The gate is an explicit per-session value handed to whoever composes the
// surface; there is no process-global unlock flag.
//
// =============================================================================

package gate

import "crypto/subtle"

// Gate is the unlock state for one working session.
type Gate struct {
	secret   string
	unlocked bool
}

// New creates a gate for the given shared secret. An empty secret disables
// the gate: Unlocked is always true.
func New(secret string) *Gate {
	return &Gate{secret: secret}
}

// Enabled reports whether a secret is configured.
func (g *Gate) Enabled() bool {
	return g.secret != ""
}

// Unlock attempts to open the gate and reports success. Comparison is
// constant-time; repeated attempts are allowed.
func (g *Gate) Unlock(attempt string) bool {
	if !g.Enabled() {
		g.unlocked = true
		return true
	}
	if subtle.ConstantTimeCompare([]byte(attempt), []byte(g.secret)) == 1 {
		g.unlocked = true
	}
	return g.unlocked
}

// Unlocked reports whether the session may use the interactive surface.
func (g *Gate) Unlocked() bool {
	return !g.Enabled() || g.unlocked
}

// Lock closes the gate again, as when the operator leaves the terminal.
func (g *Gate) Lock() {
	g.unlocked = false
}
