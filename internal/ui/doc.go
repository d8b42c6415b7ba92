// Package ui holds the lipgloss stylesheet for the relay's CLI output
// (startup banner, route listing, config display).
package ui
