package model

import "time"

// Post mirrors the `posts` table. Draft is true until the author
// publishes; public routes only ever see published posts.
type Post struct {
	ID         uint64    // posts.id
	AuthorID   uint64    // posts.author_id (references users.id)
	CategoryID uint64    // posts.category_id (references categories.id)
	Title      string    // posts.title
	Content    string    // posts.content
	Summary    string    // posts.summary
	Draft      bool      // posts.draft
	Views      uint64    // posts.views
	CreatedAt  time.Time // posts.created_at
	UpdatedAt  time.Time // posts.updated_at

	// Tags is populated by the repository from the post_tags join
	// table; it has no column of its own.
	Tags []string
}

// Category mirrors the `categories` table. Names are unique.
type Category struct {
	ID   uint64 // categories.id
	Name string // categories.name
}

// Tag mirrors the `tags` table. Tags are created lazily the first
// time a post references them.
type Tag struct {
	ID   uint64 // tags.id
	Name string // tags.name
}
