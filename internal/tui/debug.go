package tui

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// debugLogf appends one line to the file named by BAZAAR_TUI_DEBUG_LOG.
// Best effort only: no log path means no output, and write failures are
// swallowed so diagnostics can never break the UI.
func debugLogf(format string, args ...any) {
	path := strings.TrimSpace(os.Getenv("BAZAAR_TUI_DEBUG_LOG"))
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "%s "+format+"\n",
		append([]any{time.Now().Format("15:04:05.000")}, args...)...)
}
