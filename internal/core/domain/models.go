package domain

import "time"

// Post is a travel-blog entry as the backend returns it.
// Comments is a denormalized counter; the authoritative list lives in the
// comment store and the two may be briefly out of sync after a comment
// create or delete.
type Post struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
	Author      string    `json:"author"`
	OwnerID     int       `json:"owner_id"`
	Likes       int       `json:"likes"`
	Comments    int       `json:"comments"`
	Tags        string    `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Comment belongs to exactly one post. Comments are created and deleted,
// never edited.
type Comment struct {
	ID        int       `json:"id"`
	PostID    int       `json:"post_id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// User is the profile returned by the auth endpoints.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Draft is a post in the making, before it is submitted to the backend.
type Draft struct {
	Title       string
	Content     string
	Description string
	Image       string
	Tags        string
}

// Suggestions holds what the backend AI endpoints proposed for a draft.
type Suggestions struct {
	Titles      []string
	Description string
	Tags        []string
}
