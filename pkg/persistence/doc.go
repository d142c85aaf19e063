// Package persistence provides runtime state persistence for renderctl.
//
// This package handles the JSON serialization of the renderers a user has
// selected so that later invocations can reselect the last one without a
// description URL.
package persistence
