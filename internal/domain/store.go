package domain

// ListingRequirements gates who may buy a listing. Zero values mean no gate.
type ListingRequirements struct {
	MinLevel            int          `json:"min_level,omitempty"`
	RequiredAchievement string       `json:"required_achievement,omitempty"`
	RequiredItem        string       `json:"required_item,omitempty"`
	MinCurrencyKind     CurrencyKind `json:"min_currency_kind,omitempty"`
	MinCurrencyAmount   int64        `json:"min_currency_amount,omitempty"`
}

// Listing is a store's sellable instance of an item definition, carrying
// price and stock independent of the catalog item itself.
type Listing struct {
	ID           string              `json:"id"`
	ItemID       string              `json:"item_id"`
	Price        int64               `json:"price"`
	Currency     CurrencyKind        `json:"currency"`
	Stock        int                 `json:"stock"`
	Requirements ListingRequirements `json:"requirements"`
}

// Store is a named collection of listings.
type Store struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Listings []Listing `json:"listings"`
}

// FindListing returns the listing with the given ID, or nil.
func (s *Store) FindListing(listingID string) *Listing {
	for i := range s.Listings {
		if s.Listings[i].ID == listingID {
			return &s.Listings[i]
		}
	}
	return nil
}

// PurchaseResult is the structured outcome of a purchase attempt.
type PurchaseResult struct {
	OK        bool         `json:"ok"`
	Message   string       `json:"message"`
	TotalCost int64        `json:"total_cost"`
	Currency  CurrencyKind `json:"currency"`
	Balance   int64        `json:"balance"`
}
