package domain

// Tag is a label that can be attached to websites. Names are unique across
// all tags, compared case-sensitively.
type Tag struct {
	Meta
	// UserID is the user who created the tag.
	UserID int64 `json:"userId"`
	// Name is the unique tag name.
	Name string `json:"name"`
}

// WebsiteTag attaches a Tag to a Website. It carries its own audit fields and
// is removed together with its website. A website may not carry two tags that
// resolve to the same tag id or the same tag name.
type WebsiteTag struct {
	Meta
	// UserID is the user who attached the tag.
	UserID int64 `json:"userId"`
	// WebsiteID is the tagged website.
	WebsiteID int64 `json:"websiteId"`
	// TagID is the attached tag.
	TagID int64 `json:"tagId"`
}
