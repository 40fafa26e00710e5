// Package score implements the offer acceptance scorer: a fixed, ordered
// set of threshold rules folded over a base score of 50 and clamped into
// [0, 100]. It exposes [Compute], [Rules], [Validate] and [Batch].
package score
