package get_stack_status

// GetStackStatusQuery represents a query to retrieve the state of the compose stack
type GetStackStatusQuery struct{}

// Name returns the name of the query
func (q GetStackStatusQuery) Name() string {
	return "GetStackStatus"
}
