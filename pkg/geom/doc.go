// Package geom provides the small amount of 3-D math the layout and
// animation engine needs: value-type vectors and matrices, Euler angle
// conversion, look-at orientation and shortest-arc angle adjustment.
//
// All types are plain values. Nothing here allocates on the heap or keeps
// state, so every function is safe to call from any goroutine.
//
// # Conventions
//
// The coordinate system is right-handed with +Y up. Rotations are Euler
// angles in radians applied in XYZ order, so the rotation matrix of an
// [Euler] value is Rx · Ry · Rz. An oriented object faces along its local
// +Z axis.
package geom
