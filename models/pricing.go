package models

// PriceQuote is the price breakdown of one card order, in cents
type PriceQuote struct {
	Currency  string `json:"currency"`
	Amount    int64  `json:"amount"`    // Unit price before tax
	Shipping  int64  `json:"shipping"`  // Shipping for the destination country
	TaxAmount int64  `json:"taxAmount"` // VAT on amount + shipping
	Total     int64  `json:"total"`     // Amount + shipping + tax
	Country   string `json:"country"`
}
