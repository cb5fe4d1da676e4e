// Package model contains the in-memory representation of a launch plan: the
// top-level variable table and the ordered task definitions loaded from the
// configuration document.
package model
