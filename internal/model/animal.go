package model

// Animal is a tagged head of livestock.
type Animal struct {
	ID        int64   `json:"id" db:"id"`
	Name      *string `json:"name" db:"name"`
	TagNumber string  `json:"tag_number" db:"tag_number"`
	Species   *string `json:"species" db:"species"`
}

// Validate checks the required fields of an animal.
func (a *Animal) Validate() error {
	if blank(a.TagNumber) {
		return invalid("tag number is required")
	}
	return nil
}

// HealthRecord is a dated health event belonging to one animal.
type HealthRecord struct {
	ID           int64   `json:"id" db:"id"`
	AnimalID     int64   `json:"animal_id" db:"animal_id"`
	Date         string  `json:"date" db:"date"`
	Status       *string `json:"status" db:"status"`
	Medications  *string `json:"medications" db:"medications"`
	Observations *string `json:"observations" db:"observations"`
}

// Validate checks the required fields of a health record. The animal is
// taken from the request path, not the body.
func (h *HealthRecord) Validate() error {
	if blank(h.Date) {
		return invalid("date is required")
	}
	if !validDate(h.Date) {
		return invalid("date must be YYYY-MM-DD")
	}
	return nil
}
