package main

// Default limits for CLI commands.
const (
	DefaultQueryLimit = 20
	DefaultListLimit  = 50
	DefaultRunsLimit  = 20
)

// Valid traversal directions.
var validDirections = []string{"outgoing", "incoming", "both"}
