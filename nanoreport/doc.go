// Package nanoreport edits report documents programmatically.
//
// A Report owns one JSON-shaped document: an envelope (title, description,
// project) around a versioned spec whose "blocks" list holds the report
// content. Every object handed out by the package (blocks, panel grids, run
// sets, panels) is a view over a fragment of that document. Reads and writes
// go straight to the fragment, so there is no commit step:
//
//	r, _ := nanoreport.Parse(data)
//	grid := r.PanelGrids()[0]
//	rs := grid.RunSets()[0]
//	_ = rs.SetFiltersWithExpr("State == 'finished' and acc > 0.9")
//	_ = rs.SetOrder("-CreatedTimestamp")
//	r.Modified() // true
//
// Field writes are validated by the entity's schema (see package attr) and
// either succeed completely or leave the document untouched. Any successful
// write marks the entity, every entity containing it and the report as
// modified until ClearModified or a successful Save.
//
// Freshly constructed entities (H1, NewRunSet, NewLinePlot, ...) own a small
// detached document until they are assigned into a report with SetBlocks,
// SetRunSets or SetPanels. Assignment copies the fragment into the report and
// moves the entity, along with every view taken inside it, to the new
// position. Reordering works the same way. Views whose fragment is replaced
// or removed by an assignment are detached onto a private copy, so writes
// through them never reach the report.
//
// Unknown fields and unknown block or panel types are preserved verbatim.
//
// A Report is not safe for concurrent use.
package nanoreport
