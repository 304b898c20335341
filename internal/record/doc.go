// Package record holds the data a filter pass rewrites.
//
// The engine only sees the Container capability: a list of tracked paths and
// get/set access to the array stored at each one. Map is the default
// implementation, a nested map[string]any (as decoded from JSON) addressed by
// dotted paths such as "marker.color".
//
// Discovery is explicit. Map.TrackedPaths walks the nested maps and reports
// every path whose value is a flat array of scalars, in sorted order. Arrays
// of objects or of arrays are not array attributes and are never tracked.
// WithTrackedPaths replaces discovery with a declared list, for records that
// also carry arrays not parallel to the data.
package record
