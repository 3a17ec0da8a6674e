package domain

// Entry is one item returned when listing a directory
type Entry struct {
	Path  string // full path, rooted at the scan root
	Name  string // base name, the only part that is scored
	IsDir bool
}

// Candidate is an entry whose name matched the query.
// Candidates are immutable once appended to a store.
type Candidate struct {
	Score   int
	Path    string // path relative to the scan root
	IsDir   bool
	Display string // decorated relative path shown to the user
}

// Frame is the bounded, ranked view rendered to the terminal
type Frame struct {
	Lines []string // display texts of the top candidates, best first
	Extra int      // matches not shown
	Total int      // all matches at the time of the snapshot
}

// ScanStats summarizes one traversal
type ScanStats struct {
	Directories int
	Entries     int
	Unreadable  int
	Skipped     int
}
