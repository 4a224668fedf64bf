package vonage

// Link is a HAL hypermedia link.
type Link struct {
	Href string `json:"href" yaml:"href"`
}

// Links are the navigation links of a paged response.
type Links struct {
	First *Link `json:"first,omitempty" yaml:"first,omitempty"`
	Self  *Link `json:"self,omitempty"  yaml:"self,omitempty"`
	Next  *Link `json:"next,omitempty"  yaml:"next,omitempty"`
	Prev  *Link `json:"prev,omitempty"  yaml:"prev,omitempty"`
}

// HasNext reports whether another page follows.
func (l *Links) HasNext() bool {
	return l != nil && l.Next != nil && l.Next.Href != ""
}

// PageMeta describes one page of a list response.
type PageMeta struct {
	PageSize int   `json:"page_size,omitempty" yaml:"page_size,omitempty"`
	Links    Links `json:"_links"              yaml:"links"`
}
