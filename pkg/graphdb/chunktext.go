package graphdb

// Window is the fetch bound for one page of stored chunks.
type Window struct {
	Skip       int64
	Limit      int64
	TotalPages int64
}

// PageWindow computes the skip/limit window for a 1-based page number over
// totalChunks stored chunks. A page number beyond the last page produces a
// window past the end, which fetches nothing; that is a valid empty page,
// not an error.
func PageWindow(totalChunks, pageNo, pageSize int64) Window {
	return Window{
		Skip:       (pageNo - 1) * pageSize,
		Limit:      pageSize,
		TotalPages: (totalChunks + pageSize - 1) / pageSize,
	}
}
