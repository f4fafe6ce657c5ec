package main

// Exit codes used across commands.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Missing credentials or invalid configuration
	ExitNotFound    = 3 // Missing document, corpus, or index artifacts
	ExitProvider    = 4 // Embedding or generation provider failure
)
