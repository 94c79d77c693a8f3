package models

// DefaultTitle is returned until a user sets a workspace title.
const DefaultTitle = "My Notes"

type Title struct {
	Title string `json:"title"`
}
