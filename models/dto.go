package models

type RequestOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

type CreateProductRequest struct {
	Title          string  `json:"title" form:"title" binding:"required"`
	Description    string  `json:"description" form:"description"`
	Price          float64 `json:"price" form:"price" binding:"required"`
	Category       string  `json:"category" form:"category" binding:"required"`
	Condition      string  `json:"condition" form:"condition" binding:"required"`
	ImageURL       string  `json:"image_url" form:"image_url"`
	ImageStorageID string  `json:"image_storage_id" form:"image_storage_id"`
	City           string  `json:"city" form:"city"`
}

// UpdateProductRequest carries partial-patch fields; nil means "leave
// unchanged", which is why every field is a pointer.
type UpdateProductRequest struct {
	Title          *string  `json:"title"`
	Description    *string  `json:"description"`
	Price          *float64 `json:"price"`
	Category       *string  `json:"category"`
	Condition      *string  `json:"condition"`
	ImageURL       *string  `json:"image_url"`
	ImageStorageID *string  `json:"image_storage_id"`
	City           *string  `json:"city"`
}

type AddCartItemRequest struct {
	ProductID int `json:"product_id" binding:"required"`
}

type SetCartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CheckoutRequest struct {
	IdempotencyKey string `json:"idempotency_key"`
}

type CreateOrderItemRequest struct {
	ProductID int     `json:"product_id" binding:"required"`
	Title     string  `json:"title" binding:"required"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity" binding:"required"`
}

type CreateOrderRequest struct {
	Items          []CreateOrderItemRequest `json:"items" binding:"required"`
	Total          float64                  `json:"total"`
	IdempotencyKey string                   `json:"idempotency_key"`
}

type SetPasswordRequest struct {
	PasswordHash string `json:"password_hash" binding:"required"`
	Salt         string `json:"salt" binding:"required"`
}

type VerifyPasswordRequest struct {
	PasswordHash string `json:"password_hash" binding:"required"`
}
