// Package policy holds the rules deciding how long an execution unit keeps
// iterating and what happens to sibling units once one of them fails.
package policy
