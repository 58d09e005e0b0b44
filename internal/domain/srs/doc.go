// Package srs implements the SM-2 spaced repetition scheduling
// algorithm. Given the quality rating of a single review event and an
// item's prior schedule, it produces the new interval, repetition
// count, ease factor, and next due time.
//
// All calculations are pure: the current time is injected, no state is
// kept, and input values are never mutated.
package srs
