package notification

import (
	"fmt"

	"github.com/google/uuid"
)

type Type string

const (
	TypeBidPlaced        Type = "bid_placed"
	TypeBidAccepted      Type = "bid_accepted"
	TypeBidCancelled     Type = "bid_cancelled"
	TypePaymentConfirmed Type = "payment_confirmed"
	TypeSaleRecorded     Type = "sale_recorded"
	TypeListingExpired   Type = "listing_expired"
)

// Payload is the closed set of notification bodies. Each variant carries the
// structured fields a client needs to render or deep-link the event; Title
// and Message are the human-readable projection stored alongside them.
type Payload interface {
	Type() Type
	Title() string
	Message() string
}

type BidPlaced struct {
	ListingID uuid.UUID `json:"listing_id"`
	BidID     uuid.UUID `json:"bid_id"`
	Bidder    string    `json:"bidder"`
	Price     int32     `json:"price"`
	MealDate  string    `json:"meal_date"`
	MealType  string    `json:"meal_type"`
	Updated   bool      `json:"updated"`
}

func (p BidPlaced) Type() Type { return TypeBidPlaced }

func (p BidPlaced) Title() string {
	if p.Updated {
		return "Bid updated"
	}
	return "New bid on your listing"
}

func (p BidPlaced) Message() string {
	return fmt.Sprintf("%s offered ₹%d for your %s on %s", p.Bidder, p.Price, p.MealType, p.MealDate)
}

// BidAccepted doubles as the contact-exchange step: both sides receive the
// other party's email so they can arrange payment off-platform.
type BidAccepted struct {
	ListingID    uuid.UUID `json:"listing_id"`
	BidID        uuid.UUID `json:"bid_id"`
	Price        int32     `json:"price"`
	MealDate     string    `json:"meal_date"`
	MealType     string    `json:"meal_type"`
	Counterparty string    `json:"counterparty"`
	ContactEmail string    `json:"contact_email"`
	SelfRecord   bool      `json:"self_record"`
}

func (p BidAccepted) Type() Type { return TypeBidAccepted }

func (p BidAccepted) Title() string {
	if p.SelfRecord {
		return "You accepted a bid"
	}
	return "Your bid was accepted"
}

func (p BidAccepted) Message() string {
	if p.SelfRecord {
		return fmt.Sprintf("Accepted %s's bid of ₹%d. Contact: %s", p.Counterparty, p.Price, p.ContactEmail)
	}
	return fmt.Sprintf("%s accepted your bid of ₹%d. Contact them at %s to pay", p.Counterparty, p.Price, p.ContactEmail)
}

type BidCancelled struct {
	ListingID uuid.UUID `json:"listing_id"`
	MealDate  string    `json:"meal_date"`
	MealType  string    `json:"meal_type"`
}

func (p BidCancelled) Type() Type { return TypeBidCancelled }

func (p BidCancelled) Title() string { return "Bid acceptance cancelled" }

func (p BidCancelled) Message() string {
	return fmt.Sprintf("The seller cancelled acceptance of your bid for %s on %s. Do not make any payment", p.MealType, p.MealDate)
}

type PaymentConfirmed struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	PurchaseID    uuid.UUID `json:"purchase_id"`
	Price         int32     `json:"price"`
	MealDate      string    `json:"meal_date"`
	MealType      string    `json:"meal_type"`
	Mess          string    `json:"mess"`
	HasToken      bool      `json:"has_token"`
}

func (p PaymentConfirmed) Type() Type { return TypePaymentConfirmed }

func (p PaymentConfirmed) Title() string { return "Payment confirmed" }

func (p PaymentConfirmed) Message() string {
	if !p.HasToken {
		return fmt.Sprintf("Your %s at %s on %s is confirmed. The QR token is delayed; contact support if it does not appear", p.MealType, p.Mess, p.MealDate)
	}
	return fmt.Sprintf("Your %s at %s on %s is ready. Show the QR at the counter", p.MealType, p.Mess, p.MealDate)
}

type SaleRecorded struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	Price         int32     `json:"price"`
	MealDate      string    `json:"meal_date"`
	MealType      string    `json:"meal_type"`
	Buyer         string    `json:"buyer"`
}

func (p SaleRecorded) Type() Type { return TypeSaleRecorded }

func (p SaleRecorded) Title() string { return "Sale completed" }

func (p SaleRecorded) Message() string {
	return fmt.Sprintf("Sold your %s on %s to %s for ₹%d", p.MealType, p.MealDate, p.Buyer, p.Price)
}

type ListingExpired struct {
	ListingID uuid.UUID `json:"listing_id"`
	MealDate  string    `json:"meal_date"`
	MealType  string    `json:"meal_type"`
}

func (p ListingExpired) Type() Type { return TypeListingExpired }

func (p ListingExpired) Title() string { return "Listing expired" }

func (p ListingExpired) Message() string {
	return fmt.Sprintf("Your %s listing for %s was removed after its service window closed", p.MealType, p.MealDate)
}
