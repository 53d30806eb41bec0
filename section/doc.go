// Package section defines the fixed-size header that opens every UJO
// document.
//
// # Header Layout
//
//	┌───────────────────────────────────────────┐
//	│ Magic (4 bytes): "_UJO"                   │
//	│ Version (2 bytes, little-endian): 1       │
//	│ Compression (1 byte): 0, uncompressed     │
//	└───────────────────────────────────────────┘
//
// The header is followed by exactly one list, map or table. Parse checks
// the fields in layout order, so a document with a bad magic number never
// reports a version error.
package section
