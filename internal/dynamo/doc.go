// Package dynamo provides the geometric primitives shared by the particle core.
//
//   - [Vec2]: value-type 2D vector with add, subtract, scale, dot, normalize and length
//   - [Polygon] and [Star]: vertex generation for rotating containers
//   - [ParallelFor]: chunked fan-out used to tick independent simulations together
//
// Everything in this package is allocation-light and free of shared state, so it is
// safe to use from any number of simulations concurrently.
package dynamo
