package backend

import (
	"context"

	"github.com/merchware/scanlink/pkg/db"
	"github.com/merchware/scanlink/pkg/model"
)

// Backend is the entire surface the core offers to the routing layer.
type Backend interface {
	CreateQuestion(shopURL string, question model.QuestionRequest) (db.Record, error)
	AnswerQuestion(id uint, answer model.AnswerRequest) error
	ConfigureDestination(id uint, config model.DestinationRequest) error
	GetRecord(id uint) (db.Record, error)
	ListRecords(shopDomain string) ([]db.Record, error)
	DeleteRecord(id uint) error
	Enrich(ctx context.Context, records []db.Record) ([]model.RecordResponse, error)
	RecordScanAndResolve(record db.Record) (string, error)
	ScanURL(id uint) string
	ImageURL(id uint) string
	StartReconcilerDaemon(done <-chan struct{})
}
