package httpx

import "github.com/ariefcatur/bookstore-orders/internal/orders"

// CreateOrderReq is the checkout body the storefront posts. Totals are
// optional and only cross-checked.
type CreateOrderReq struct {
	Items           []ItemReq               `json:"items"`
	ShippingAddress *orders.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                  `json:"paymentMethod"`
	Subtotal        *float64                `json:"subtotal"`
	Tax             *float64                `json:"tax"`
	Total           *float64                `json:"total"`
}

// ItemReq is a cart line as submitted. An omitted quantity means one copy;
// an explicit zero is passed through and rejected by validation.
type ItemReq struct {
	BookID   string  `json:"bookId"`
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	Image    string  `json:"image"`
	Price    float64 `json:"price"`
	Quantity *int    `json:"quantity"`
}

func (it ItemReq) item() orders.Item {
	qty := 1
	if it.Quantity != nil {
		qty = *it.Quantity
	}
	return orders.Item{
		BookID:    it.BookID,
		Title:     it.Title,
		Author:    it.Author,
		Image:     it.Image,
		UnitPrice: it.Price,
		Quantity:  qty,
	}
}

func (r CreateOrderReq) input() orders.CreateInput {
	var items []orders.Item
	if r.Items != nil {
		items = make([]orders.Item, 0, len(r.Items))
		for _, it := range r.Items {
			items = append(items, it.item())
		}
	}
	return orders.CreateInput{
		Items:           items,
		ShippingAddress: r.ShippingAddress,
		PaymentMethod:   r.PaymentMethod,
		Subtotal:        r.Subtotal,
		Tax:             r.Tax,
		Total:           r.Total,
	}
}

type UpdateStatusReq struct {
	Status string `json:"status"`
}

type ErrorResp struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
