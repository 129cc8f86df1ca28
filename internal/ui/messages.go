package ui

import "github.com/unkn0wn-root/pickterm/internal/loader"

type statusLevel int

const (
	statusInfo statusLevel = iota
	statusWarn
	statusError
	statusSuccess
)

type statusMsg struct {
	text  string
	level statusLevel
}

// loadedMsg carries a finished load; its generation decides whether it is
// still wanted.
type loadedMsg struct {
	result loader.Result
}

type recentSourcesMsg struct {
	urls []string
	err  error
}
