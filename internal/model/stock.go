package model

import "math"

// Product is a stocked consumable (feed, medicine, ...).
type Product struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description" db:"description"`
	Unit        string  `json:"unit" db:"unit"`
}

// Validate checks the required fields of a product.
func (p *Product) Validate() error {
	if blank(p.Name) || blank(p.Unit) {
		return invalid("name and unit are required")
	}
	return nil
}

// Movement types.
const (
	MovementPurchase   = "purchase"
	MovementUse        = "use"
	MovementAdjustment = "adjustment"
)

// StockMovement is one entry of the append-only stock ledger. Quantity is
// signed: negative entries consume stock.
type StockMovement struct {
	ID           int64    `json:"id" db:"id"`
	ProductID    int64    `json:"product_id" db:"product_id"`
	Quantity     float64  `json:"quantity" db:"quantity"`
	MovementDate string   `json:"movement_date" db:"movement_date"`
	Type         string   `json:"type" db:"type"`
	CostPerUnit  *float64 `json:"cost_per_unit" db:"cost_per_unit"`

	// Joined fields (not always populated).
	ProductName string `json:"product_name,omitempty" db:"product_name"`
	Unit        string `json:"unit,omitempty" db:"unit"`
}

// Validate checks the required fields of a movement.
func (m *StockMovement) Validate() error {
	if m.ProductID <= 0 || m.Quantity == 0 || blank(m.MovementDate) || blank(m.Type) {
		return invalid("product, quantity, date, and type are required")
	}
	switch m.Type {
	case MovementPurchase, MovementUse, MovementAdjustment:
	default:
		return invalid("type must be one of purchase, use, adjustment")
	}
	if !validDate(m.MovementDate) {
		return invalid("movement date must be YYYY-MM-DD")
	}
	if m.CostPerUnit != nil && *m.CostPerUnit < 0 {
		return invalid("cost per unit must not be negative")
	}
	return nil
}

// Normalize applies the ledger sign convention: purchases add stock, uses
// consume it, adjustments keep the sign they were given.
func (m *StockMovement) Normalize() {
	switch m.Type {
	case MovementPurchase:
		m.Quantity = math.Abs(m.Quantity)
	case MovementUse:
		m.Quantity = -math.Abs(m.Quantity)
	}
}

// StockLevel is the current stock of a product, the sum of its movements.
type StockLevel struct {
	ID           int64   `json:"id" db:"id"`
	Name         string  `json:"name" db:"name"`
	Unit         string  `json:"unit" db:"unit"`
	CurrentStock float64 `json:"current_stock" db:"current_stock"`
}

// Overview holds the dashboard summary. The sums are nil while the ledger
// is empty.
type Overview struct {
	AnimalCount   int64    `json:"animalCount"`
	EventCount    int64    `json:"eventCount"`
	TotalCosts    *float64 `json:"totalCosts"`
	StockQuantity *float64 `json:"stockQuantity"`
}
