// Package mapping flattens geographic coordinates into plot space and
// renders the dashboard's world map as an SVG document.
//
// The projection is an equal-area-ish azimuthal average of equirectangular
// and orthographic-like terms; the exact formula is documented on Project so
// any reimplementation reproduces identical pixel output. Country borders
// are deduplicated at a fixed precision before drawing, fill colors derive
// deterministically from a hash of the country name, and the finished
// document can be written out as a standalone downloadable file.
package mapping
