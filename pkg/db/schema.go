package db

import (
	"time"

	"github.com/merchware/scanlink/pkg/model"
)

// Record is one stored question / QR code row. Column names are pinned to the
// layout existing databases already carry; AutoMigrate must never rename or
// drop them.
type Record struct {
	ID           uint              `gorm:"column:id;primarykey" json:"id"`
	ShopDomain   string            `gorm:"column:shopDomain;size:511;not null" json:"shopDomain"`
	Question     string            `gorm:"column:question;size:511;not null" json:"question"`
	QuestionedBy string            `gorm:"column:questionedBy;size:255;not null" json:"questionedBy"`
	QuestionedOn string            `gorm:"column:questionedOn;size:255;not null" json:"questionedOn"`
	Answer       string            `gorm:"column:answer;size:511" json:"answer,omitempty"`
	AnsweredBy   string            `gorm:"column:answeredBy;size:255" json:"answeredBy,omitempty"`
	AnsweredOn   string            `gorm:"column:answeredOn;size:255" json:"answeredOn,omitempty"`
	ProductID    string            `gorm:"column:productId;size:255;not null" json:"productId"`
	Title        string            `gorm:"column:title;size:511" json:"title,omitempty"`
	VariantID    string            `gorm:"column:variantId;size:255" json:"variantId,omitempty"`
	Handle       string            `gorm:"column:handle;size:255" json:"handle,omitempty"`
	DiscountID   string            `gorm:"column:discountId;size:255" json:"discountId,omitempty"`
	DiscountCode string            `gorm:"column:discountCode;size:255" json:"discountCode,omitempty"`
	Destination  model.Destination `gorm:"column:destination;size:255" json:"destination,omitempty"`
	Scans        int64             `gorm:"column:scans;not null;default:0" json:"scans"`
	CreatedAt    time.Time         `gorm:"column:createdAt;autoCreateTime" json:"createdAt"`
}

func (Record) TableName() string {
	return "questions_and_answers"
}
