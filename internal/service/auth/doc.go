// Package auth holds the API key registry that authenticates requests and
// decides which tier a caller belongs to.
package auth
