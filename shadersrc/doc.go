// Package shadersrc loads stage sources for glpipe.
//
// It detects the stage kind from a file suffix, decodes source files
// written in UTF-8 or UTF-16 with or without a byte order mark,
// translates SwDouble literals and compiles WGSL sources to GLSL through
// naga.
package shadersrc
