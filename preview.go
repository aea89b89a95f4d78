package main

import "github.com/charmbracelet/x/ansi"

// preview truncates s to n cells with an ellipsis. n <= 0 means no limit.
func preview(s string, n int) string {
	if n <= 0 || ansi.StringWidth(s) <= n {
		return s
	}
	return ansi.Truncate(s, n, "") + "..."
}
