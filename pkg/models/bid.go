package models

// Bid is an accepted offer. Rows are append-only.
type Bid struct {
	ID        string `json:"id"`
	Phone     string `json:"phone"`
	Amount    int64  `json:"amount"`
	CreatedAt int64  `json:"created_at"`
}

// AuctionState is the singleton highest-bid record. Amount is zero while no
// bid has been accepted.
type AuctionState struct {
	Amount int64  `json:"amount"`
	Phone  string `json:"phone"`
}

// Subscription is a push-notification target for new offers.
type Subscription struct {
	ID        string `json:"id"`
	Phone     string `json:"phone"`
	CreatedAt int64  `json:"created_at"`
}
