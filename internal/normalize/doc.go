// Package normalize converts heterogeneous visual assets into canonical-
// profile clips. Every clip entering the timeline passes through here, which
// is what makes the final concatenation a safe stream copy.
package normalize
