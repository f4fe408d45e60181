// Package vmath provides the 2D and 3D vector primitives shared by every
// solver in the engine.
//
// Vectors are small immutable values: every operation returns a new value and
// never mutates its receiver, so they can be copied freely between the read
// and write phases of a tick.
//
// Degenerate input never produces NaN. Normalizing a zero-length vector
// yields the zero vector; use [Vec2.TryNormalize] when the caller needs to
// know that no direction exists.
package vmath
