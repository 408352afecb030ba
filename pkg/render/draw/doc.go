// Package draw defines the geometry and the abstract draw operations shared
// by the card compositor and the document sinks.
//
// All coordinates are PDF points with the origin at the top-left corner of
// the page and y growing downwards.
//
// A compositor produces a slice of [Op] values; the assembler replays them,
// in order, against a [Surface]. Later operations paint over earlier ones.
package draw
