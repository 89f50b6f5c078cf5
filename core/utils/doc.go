// Package utils provides loose value conversion used when decoding feed payloads
// and admin input: numbers that arrive as JSON floats, numeric strings or
// human-typed amounts with k/m suffixes and thousands separators.
package utils
