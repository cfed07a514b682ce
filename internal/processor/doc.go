// Package processor runs flipgrid in the mode selected on the command line.
// It builds the loader, the speech stack and the session from the
// configuration and hands them to the selected surface: the catalog listing,
// a printed grid, one-shot speech, an Anki export, the terminal UI, the HTTP
// API or the desktop GUI.
package processor
