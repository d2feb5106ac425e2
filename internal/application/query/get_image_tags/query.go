package get_image_tags

// GetImageTagsQuery lists selectable version tags for each service.
type GetImageTagsQuery struct{}

// Name returns the name of the query
func (q GetImageTagsQuery) Name() string {
	return "GetImageTags"
}
