package model

// Cut is a meat cut with its description and nutritional notes.
type Cut struct {
	ID               int64   `json:"id" db:"id"`
	Name             string  `json:"name" db:"name"`
	Description      *string `json:"description" db:"description"`
	NutritionalValue *string `json:"nutritional_value" db:"nutritional_value"`
}

// Validate checks the required fields of a cut.
func (c *Cut) Validate() error {
	if blank(c.Name) {
		return invalid("cut name is required")
	}
	return nil
}
