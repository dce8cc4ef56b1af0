package model

// LibraryCategory groups library documents.
type LibraryCategory struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Validate checks the required fields of a category.
func (c *LibraryCategory) Validate() error {
	if blank(c.Name) {
		return invalid("category name is required")
	}
	return nil
}

// LibraryItem is an uploaded document. CategoryID is nil once its category
// has been deleted.
type LibraryItem struct {
	ID         int64   `json:"id" db:"id"`
	Title      string  `json:"title" db:"title"`
	FilePath   string  `json:"file_path" db:"file_path"`
	FileType   *string `json:"file_type,omitempty" db:"file_type"`
	CategoryID *int64  `json:"category_id" db:"category_id"`

	// Joined field (not always populated).
	CategoryName *string `json:"category_name,omitempty" db:"category_name"`
}

// Validate checks the form fields of a new library item. The uploaded file
// is checked separately by the handler.
func (i *LibraryItem) Validate() error {
	if blank(i.Title) || i.CategoryID == nil {
		return invalid("title and category are required")
	}
	return nil
}
