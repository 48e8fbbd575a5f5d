package model

import (
	"time"
)

// QuestionRequest is the storefront question submission payload.
type QuestionRequest struct {
	Question     string `json:"question,omitempty"`
	QuestionedBy string `json:"questionedBy,omitempty"`
	QuestionedOn string `json:"questionedOn,omitempty"`
	ProductID    string `json:"productId,omitempty"`
}

// AnswerRequest sets the answer fields of an existing question.
type AnswerRequest struct {
	Answer     string `json:"answer,omitempty"`
	AnsweredBy string `json:"answeredBy,omitempty"`
	AnsweredOn string `json:"answeredOn,omitempty"`
}

// DestinationRequest replaces a record's QR configuration wholesale. Fields
// left empty are persisted empty, not preserved.
type DestinationRequest struct {
	Title        string      `json:"title,omitempty"`
	ProductID    string      `json:"productId,omitempty"`
	VariantID    string      `json:"variantId,omitempty"`
	Handle       string      `json:"handle,omitempty"`
	DiscountID   string      `json:"discountId,omitempty"`
	DiscountCode string      `json:"discountCode,omitempty"`
	Destination  Destination `json:"destination,omitempty"`
}

// Product is the resolved catalog entity attached to an enriched record.
type Product struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title,omitempty"`
	Handle   string `json:"handle,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// RecordResponse is a record merged with live catalog data. The bare
// productId reference is intentionally absent; Product carries the identity.
type RecordResponse struct {
	ID           uint        `json:"id"`
	ShopDomain   string      `json:"shopDomain,omitempty"`
	Question     string      `json:"question,omitempty"`
	QuestionedBy string      `json:"questionedBy,omitempty"`
	QuestionedOn string      `json:"questionedOn,omitempty"`
	Answer       string      `json:"answer,omitempty"`
	AnsweredBy   string      `json:"answeredBy,omitempty"`
	AnsweredOn   string      `json:"answeredOn,omitempty"`
	Title        string      `json:"title,omitempty"`
	VariantID    string      `json:"variantId,omitempty"`
	Handle       string      `json:"handle,omitempty"`
	DiscountID   string      `json:"discountId,omitempty"`
	DiscountCode string      `json:"discountCode,omitempty"`
	Destination  Destination `json:"destination,omitempty"`
	Product      *Product    `json:"product,omitempty"`
	Scans        int64       `json:"scans"`
	CreatedAt    time.Time   `json:"createdAt,omitempty"`
	ImageURL     string      `json:"imageUrl,omitempty"`
}

type ErrorResponse struct {
	Status  int         `json:"status,omitempty"`
	Message string      `json:"msg,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
