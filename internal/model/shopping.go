package model

type ShoppingListItem struct {
	ID             string   `json:"id"`
	Quantity       float64  `json:"quantity"`
	Unit           Unit     `json:"unit"`
	EstimatedPrice float64  `json:"estimatedPrice"`
	IsBought       bool     `json:"isBought"`
	Product        *Product `json:"product,omitempty"`
	CustomName     string   `json:"customName,omitempty"`
}

// DisplayName prefers the linked product's name over the free-text name.
func (s ShoppingListItem) DisplayName() string {
	if s.Product != nil && s.Product.Name != "" {
		return s.Product.Name
	}
	return s.CustomName
}
