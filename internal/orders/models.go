package orders

import "time"

type Order struct {
	ID              string          `json:"id" bson:"_id"`
	OwnerID         string          `json:"ownerId" bson:"ownerId"`
	Items           []Item          `json:"items" bson:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress" bson:"shippingAddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod" bson:"paymentMethod"`
	Subtotal        float64         `json:"subtotal" bson:"subtotal"`
	Tax             float64         `json:"tax" bson:"tax"`
	Total           float64         `json:"total" bson:"total"`
	Status          Status          `json:"status" bson:"status"`
	OrderDate       time.Time       `json:"orderDate" bson:"orderDate"`
	DeliveryDate    *time.Time      `json:"deliveryDate,omitempty" bson:"deliveryDate,omitempty"`
	Version         int             `json:"version" bson:"version"`
	UpdatedAt       time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// Item is one cart line. The wire name of UnitPrice is "price" to match
// what the storefront cart submits.
type Item struct {
	BookID    string  `json:"bookId" bson:"bookId"`
	Title     string  `json:"title" bson:"title"`
	Author    string  `json:"author,omitempty" bson:"author,omitempty"`
	Image     string  `json:"image,omitempty" bson:"image,omitempty"`
	UnitPrice float64 `json:"price" bson:"price"`
	Quantity  int     `json:"quantity" bson:"quantity"`
}

type ShippingAddress struct {
	FullName   string `json:"fullName" bson:"fullName"`
	Email      string `json:"email" bson:"email"`
	Phone      string `json:"phone" bson:"phone"`
	Address    string `json:"address" bson:"address"`
	City       string `json:"city" bson:"city"`
	PostalCode string `json:"postalCode" bson:"postalCode"`
	Country    string `json:"country" bson:"country"`
}

// Identity is the authenticated principal behind a request.
type Identity struct {
	ID    string
	Admin bool
}

func (o *Order) OwnedBy(who Identity) bool { return o.OwnerID == who.ID }

type OwnerSummary struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// OrderWithOwner is a list-all row.
type OrderWithOwner struct {
	Order
	Owner OwnerSummary `json:"owner"`
}

// HistoryEntry is one recorded lifecycle event of an order.
type HistoryEntry struct {
	EventID    string    `json:"eventId" bson:"_id"`
	OrderID    string    `json:"orderId" bson:"orderId"`
	OwnerID    string    `json:"ownerId" bson:"ownerId"`
	EventType  string    `json:"eventType" bson:"eventType"`
	FromStatus Status    `json:"fromStatus,omitempty" bson:"fromStatus,omitempty"`
	ToStatus   Status    `json:"toStatus" bson:"toStatus"`
	ActorID    string    `json:"actorId,omitempty" bson:"actorId,omitempty"`
	OccurredAt time.Time `json:"occurredAt" bson:"occurredAt"`
}
