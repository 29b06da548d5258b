// Package types holds the plain data shared between the modlink engine and
// its front ends, plus the FS abstraction the engine is written against.
package types
