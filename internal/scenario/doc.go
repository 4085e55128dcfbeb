// Package scenario loads sectioned-list seed data and mutation scripts from
// TOML files. Scenarios drive the demo binaries and make diff behavior easy
// to reproduce from a text file.
//
// A scenario file holds the initial sections and an optional flat list of
// operations. Operations between a "begin" and its matching "commit" run
// inside one batch; groups may nest and coalesce like nested batch scopes.
//
//	title = "fruit"
//	layout = "header"
//
//	[[section]]
//	label = "Fruits"
//	rows = ["apple", "banana"]
//
//	[[op]]
//	kind = "insert"
//	section = 0
//	row = 1
//	value = "cherry"
package scenario
