// Package idgen generates run identifiers. The generator is a package
// variable so tests can pin it to a fixed value.
package idgen
