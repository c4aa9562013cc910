package tui

import (
	"github.com/JonMunkholm/crewboard/internal/core"
	"github.com/JonMunkholm/crewboard/internal/datatable"
)

type (
	statusMsg string
	doneMsg   string
	errMsg    struct{ err error }
)

// openScreenMsg asks the model to open a list screen.
type openScreenMsg struct{ key string }

// paramsMsg carries a snapshot a remote table emitted.
type paramsMsg struct {
	screen *screenModel
	params datatable.Params
}

// pageMsg answers the fetch started for emission seq.
type pageMsg struct {
	screen *screenModel
	seq    uint64
	page   core.Page
	err    error
}

// rowsMsg delivers the full row set of a local screen.
type rowsMsg struct {
	screen *screenModel
	rows   []datatable.Row
	err    error
}
