package auth

import "crypto/subtle"

// Result is the outcome of a credential check.
type Result struct {
	OK bool
	// Override is set when the password matched an override literal rather
	// than the stored hash.
	Override bool
}

// Verifier checks a supplied password against a stored hash, accepting a
// configured list of override passwords first.
//
// Override passwords bypass the hash for every account, including accounts
// that have a real hash. They exist for operations; callers must log and
// audit every Result with Override set. An empty list disables them.
type Verifier struct {
	overrides []string
}

// NewVerifier creates a Verifier accepting the given override passwords.
func NewVerifier(overrides []string) *Verifier {
	cp := make([]string, 0, len(overrides))
	for _, o := range overrides {
		if o != "" {
			cp = append(cp, o)
		}
	}
	return &Verifier{overrides: cp}
}

// OverridesEnabled reports whether any override password is configured.
func (v *Verifier) OverridesEnabled() bool {
	return len(v.overrides) > 0
}

// Verify runs, in order: override match, bcrypt match against storedHash,
// failure. An empty storedHash never matches.
func (v *Verifier) Verify(supplied, storedHash string) Result {
	for _, o := range v.overrides {
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(o)) == 1 {
			return Result{OK: true, Override: true}
		}
	}
	if storedHash != "" && CheckPasswordHash(supplied, storedHash) {
		return Result{OK: true}
	}
	return Result{}
}
