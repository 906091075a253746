package models

// NavigationMain is a top-level sidebar entry with nested items.
type NavigationMain struct {
	ID       int64            `json:"-" db:"id"`
	Title    string           `json:"title" db:"title"`
	URL      string           `json:"url" db:"url"`
	Icon     string           `json:"icon" db:"icon"`
	IsActive bool             `json:"is_active" db:"is_active"`
	Items    []NavigationItem `json:"items" db:"-"`
}

type NavigationItem struct {
	Title string `json:"title" db:"title"`
	URL   string `json:"url" db:"url"`
}
