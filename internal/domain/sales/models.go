package sales

import "time"

const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
	PaymentLink     = "link"
)

const (
	ItemKindService = "service"
	ItemKindProduct = "product"
)

type SaleItem struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"`
	ReferenceID string  `json:"referenceId"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

type Sale struct {
	ID            string     `json:"id"`
	ClientID      string     `json:"clientId,omitempty"`
	ClientName    string     `json:"clientName,omitempty"`
	EmployeeID    string     `json:"employeeId,omitempty"`
	EmployeeName  string     `json:"employeeName,omitempty"`
	Items         []SaleItem `json:"items"`
	Total         float64    `json:"total"`
	PaymentMethod string     `json:"paymentMethod"`
	PaymentURL    string     `json:"paymentUrl,omitempty"`
	SoldAt        time.Time  `json:"soldAt"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func (s Sale) ComputedTotal() float64 {
	var total float64
	for _, item := range s.Items {
		total += float64(item.Quantity) * item.UnitPrice
	}
	return total
}
