package entities

// Tab is one page tab of a published application.
type Tab struct {
	ID       string `json:"id" yaml:"id"`
	Label    string `json:"label" yaml:"label"`
	WidgetID string `json:"widgetId" yaml:"widgetId"`
	// IsVisible defaults to true when unset.
	IsVisible *bool `json:"isVisible,omitempty" yaml:"isVisible,omitempty"`
}

// Visible reports whether the tab is shown.
func (t Tab) Visible() bool {
	return t.IsVisible == nil || *t.IsVisible
}
