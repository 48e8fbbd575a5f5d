package db

import (
	"github.com/merchware/scanlink/pkg/model"
)

type Database interface {
	CreateQuestion(record *Record) (uint, error)
	AnswerQuestion(id uint, answer model.AnswerRequest) error
	ConfigureDestination(id uint, config model.DestinationRequest) error
	GetRecord(id uint) (Record, error)
	ListRecords(shopDomain string) ([]Record, error)
	DeleteRecord(id uint) error
	IncrementScans(id uint) error
	ListRecordsWithDiscount() ([]Record, error)
}
