package fetch_settings

// FetchSettingsQuery returns the live settings record.
type FetchSettingsQuery struct{}

// Name returns the name of the query
func (q FetchSettingsQuery) Name() string {
	return "FetchSettings"
}
