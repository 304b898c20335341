// Package ir provides the shared types of the filter engine.
//
// This package contains type definitions and pure helpers only. All other
// internal packages import ir; ir imports nothing internal. This keeps the
// operation enum, FilterSpec and the coordinate model as the
// foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Operation is a closed enum; every switch over it is exhaustive
//   - FilterSpec is immutable once built by the config layer
//   - Coord comparisons never mix numbers and strings
//   - All JSON tags use the config surface names (filtersrc, preservegaps)
package ir
