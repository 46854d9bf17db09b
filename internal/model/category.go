package model

import "time"

// Category represents a row in the `categories` table. Categories
// form a tree through the nullable ParentID self-reference. Soft
// deletion hides a category from default listings and from its
// parent's active-children queries without removing the row.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – unique category name.
//  Description – free-text description.
//  ParentID    – parent category id (null for roots).
//  IsActive    – whether the category is shown to clients.
//  IsDeleted   – soft-delete flag.
//  CreatedAt   – timestamp of creation.
//  UpdatedAt   – timestamp of last update.
type Category struct {
	ID          uint64    // categories.id
	Name        string    // categories.name
	Description string    // categories.description
	ParentID    *uint64   // categories.parent_id (nullable)
	IsActive    bool      // categories.is_active
	IsDeleted   bool      // categories.is_deleted
	CreatedAt   time.Time // categories.created_at
	UpdatedAt   time.Time // categories.updated_at
}

// Image represents a row in the `images` table. Path points at the
// stored file on disk; deleting an image soft-deletes the row and
// removes the file best-effort.
//
// Fields:
//  ID          – primary key identifier.
//  Path        – filesystem path of the stored image.
//  Description – short caption.
//  IsDefault   – true for the fallback image served when a pizza has none.
//  IsDeleted   – soft-delete flag.
type Image struct {
	ID          uint64 // images.id
	Path        string // images.path
	Description string // images.description
	IsDefault   bool   // images.is_default
	IsDeleted   bool   // images.is_deleted
}
