package tui

// Color constants for the daybook TUI theme
const (
	// Text Colors
	ColorPrimaryText   = "#E6EAF2" // Titles, user input
	ColorSecondaryText = "#B1B8C7" // Labels, metadata
	ColorDisabledText  = "#6D7383" // Completed items
	ColorHelpText      = "240"     // Help bar

	// Accent Colors
	ColorAccentMain   = "#7C3AED" // Headers, cursor
	ColorAccentBright = "#A78BFA" // Clock digits, tags

	// State Colors
	ColorError   = "#EF4444" // High priority, errors
	ColorSuccess = "#22C55E" // Done, saved
	ColorWarning = "#F59E0B" // Medium priority, breaks
)
