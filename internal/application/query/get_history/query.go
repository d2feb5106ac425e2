package get_history

// GetHistoryQuery returns the most recent orchestration runs, newest first.
// A zero Limit uses the store's default.
type GetHistoryQuery struct {
	Limit int
}

// Name returns the name of the query
func (q GetHistoryQuery) Name() string {
	return "GetHistory"
}
