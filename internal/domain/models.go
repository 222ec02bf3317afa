package domain

// Domain contains the character payload shapes returned by the character API.

// Character is a single character record as served by the API.
type Character struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Status   string   `json:"status"`
	Species  string   `json:"species"`
	Type     string   `json:"type"`
	Gender   string   `json:"gender"`
	Origin   Origin   `json:"origin"`
	Location Location `json:"location"`
	Image    string   `json:"image"`
	Episode  []string `json:"episode"`
	URL      string   `json:"url"`
	Created  string   `json:"created"`
}

// Origin references the place a character comes from.
type Origin struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Location references the last known place of a character.
type Location struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// PageInfo is the pagination block of a list response. Next and Prev are
// null on the last and first page respectively.
type PageInfo struct {
	Count int     `json:"count"`
	Pages int     `json:"pages"`
	Next  *string `json:"next"`
	Prev  *string `json:"prev"`
}

// APIResponse is the paginated envelope returned by the character list endpoint.
type APIResponse struct {
	Info    PageInfo    `json:"info"`
	Results []Character `json:"results"`
}
