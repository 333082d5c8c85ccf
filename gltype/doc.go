// Package gltype maps the type enumerations reported by program
// introspection (active attributes, active uniforms, captured varyings)
// to structured [Descriptor] values.
//
// The enumeration values are the OpenGL constants, so a device backend
// can pass them through unchanged:
//
//	d, err := gltype.Resolve(gltype.FloatMat3x2)
//	// d.Element == ElementFloat, d.ColumnCount == 3, d.ColumnSize == 2
//
// Resolve is a pure lookup. It never touches a device.
package gltype
