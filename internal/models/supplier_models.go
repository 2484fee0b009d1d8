package models

// SupplierCategory groups suppliers by what they sell.
type SupplierCategory string

const (
	SupplierToxins      SupplierCategory = "Toxinas"
	SupplierFillers     SupplierCategory = "Preenchedores"
	SupplierEquipment   SupplierCategory = "Equipamentos"
	SupplierDisposables SupplierCategory = "Descartáveis"
	SupplierOther       SupplierCategory = "Outros"
)

// SupplierCategories is the fixed category list, in display order.
var SupplierCategories = []SupplierCategory{
	SupplierToxins, SupplierFillers, SupplierEquipment, SupplierDisposables, SupplierOther,
}

// Valid reports whether c is one of SupplierCategories.
func (c SupplierCategory) Valid() bool {
	for _, known := range SupplierCategories {
		if c == known {
			return true
		}
	}
	return false
}

type Supplier struct {
	ID            string           `json:"id"`
	Name          string           `json:"name" binding:"required"`
	Category      SupplierCategory `json:"category"`
	ContactPerson string           `json:"contact_person"`
	Phone         string           `json:"phone"`
	Email         string           `json:"email"`
	Rating        float64          `json:"rating"`
	LastOrder     *string          `json:"last_order,omitempty"` // YYYY-MM-DD
}
