// Package stock holds the domain core: parsing vendor inventory text into
// item lists, diffing a fresh extraction against the last known snapshot,
// and the persisted bot state.
//
// Everything in this package is pure (no I/O) except Extractor, which pulls
// messages through a Source collaborator.
package stock
