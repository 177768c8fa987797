// Package domain defines the core entities of the lexical cache and the
// per-user spaced-repetition state, together with their validation rules.
package domain
