package main

import "github.com/germanamz/rsacrack/pkg/dispatch"

// outcomeMsg carries a settled action or health probe back to the event loop.
type outcomeMsg struct {
	out dispatch.Outcome
}
