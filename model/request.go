package model

type LoginReq struct {
	EmailOrPhone string `json:"email_or_phone"`
	Password     string `json:"password"`
}

type AddCartItemReq struct {
	ProductID int    `json:"productId"`
	Title     string `json:"title"`
	Image     string `json:"image"`
	UnitPrice int64  `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

type SetQuantityReq struct {
	Quantity int `json:"quantity"`
}

type DiscountReq struct {
	Code string `json:"code"`
}

type CheckoutRequest struct {
	Contact
	ShippingAddress
	PaymentMethod string `json:"paymentMethod"`
	DiscountCode  string `json:"discountCode,omitempty"`
}

type BankInstructions struct {
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountHolder string `json:"accountHolder"`
	Content       string `json:"content"`
	Amount        int64  `json:"amount"`
}

type CheckoutResponse struct {
	State       string            `json:"state"`
	OrderID     string            `json:"orderId"`
	TotalAmount int64             `json:"totalAmount"`
	RedirectURL string            `json:"redirectUrl,omitempty"`
	Location    string            `json:"location,omitempty"`
	Bank        *BankInstructions `json:"bank,omitempty"`
	// DiscountError is set when the code was dropped at submit time.
	DiscountError string `json:"discountError,omitempty"`
}

type CreateUserReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}
