// Package options holds the traversal settings of a member tree and their
// YAML file format.
package options
