// Package duration converts between Go durations and the time strings used
// by AVTransport position arguments.
//
// # Format
//
// Positions and seek targets are written as
//
//	[+|-]H+:MM:SS[.F+]
//
// where H+ is one or more hour digits, MM and SS are two-digit minutes and
// seconds (00-59), and F+ is an optional decimal fraction of a second. The
// fraction may also be written as F0/F1 (numerator/denominator).
//
// Format always emits the canonical form: no sign for non-negative values,
// at least one hour digit, and a fraction only when the duration has
// sub-second precision (milliseconds, trailing zeros trimmed).
//
// # Round Trip
//
// Parse(Format(d)) == d for every d with millisecond precision. Seek targets
// built from whole seconds use FormatSeconds and decode back with
// ParseSeconds.
package duration
