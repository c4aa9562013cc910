// Package datatable is the tabular data engine behind every list screen.
//
// A Table runs in exactly one of two modes, fixed when it is constructed:
//
//   - Local: the caller hands over the complete row set once and the table
//     searches, narrows, sorts and paginates it in memory on every change.
//   - Remote: the caller owns the data. The table turns its state into a
//     [Params] snapshot and hands it to a listener; the caller fetches the
//     page and feeds rows and total back through [Table.SetRemoteData].
//
// Both modes expose the same handlers (SetSearch, SetFilter, SetSort,
// SetPage, ClearAll, ...) and the same [View], so render surfaces never
// branch on the mode.
//
// # State ownership
//
// Search text, filter values, sort, pagination and filter-panel visibility
// can each be supplied by the owner through a [Controlled] pair. A
// controlled field reflects the owner's value and forwards every change to
// the owner's setter; an uncontrolled field lives inside the table.
//
// # Emission
//
// In remote mode filter, sort and page changes emit immediately. Search
// edits are debounced: each keystroke cancels the pending emission and
// schedules a new one, so a burst of typing produces a single snapshot.
// [Table.ClearAll] bypasses the debounce.
//
// # Malformed rows
//
// The pipeline never fails on row contents. Missing or mistyped values do
// not match filters, sort after every present value and render as "".
package datatable
