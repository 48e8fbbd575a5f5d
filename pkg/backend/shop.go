package backend

import (
	"context"
	"fmt"

	"github.com/merchware/scanlink/pkg/catalog"
	"github.com/merchware/scanlink/pkg/db"
	"github.com/merchware/scanlink/pkg/model"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
)

const deletedProductTitle = "Deleted product"

type backend struct {
	hostScheme               string
	hostName                 string
	reconcileIntervalSeconds int64

	catalog catalog.Catalog
	db      db.Database
}

func NewBackend(hostScheme, hostName string, reconcileIntervalSecs int64, cat catalog.Catalog, database db.Database) (Backend, error) {
	if hostName == "" {
		return nil, fmt.Errorf("host name must be provided")
	}

	return &backend{
		hostScheme:               hostScheme,
		hostName:                 hostName,
		reconcileIntervalSeconds: reconcileIntervalSecs,
		catalog:                  cat,
		db:                       database,
	}, nil
}

func (b *backend) CreateQuestion(shopURL string, question model.QuestionRequest) (db.Record, error) {
	logrus.Debugf("creating question for shop: %v", shopURL)

	record := db.Record{
		ShopDomain:   shopURL,
		Question:     question.Question,
		QuestionedBy: question.QuestionedBy,
		QuestionedOn: question.QuestionedOn,
		ProductID:    question.ProductID,
	}

	id, err := b.db.CreateQuestion(&record)
	if err != nil {
		return db.Record{}, err
	}

	record.ID = id
	return record, nil
}

func (b *backend) AnswerQuestion(id uint, answer model.AnswerRequest) error {
	return b.db.AnswerQuestion(id, answer)
}

func (b *backend) ConfigureDestination(id uint, config model.DestinationRequest) error {
	return b.db.ConfigureDestination(id, config)
}

func (b *backend) GetRecord(id uint) (db.Record, error) {
	return b.db.GetRecord(id)
}

func (b *backend) ListRecords(shopDomain string) ([]db.Record, error) {
	logrus.Debugf("listing records for shop: %v", shopDomain)
	return b.db.ListRecords(shopDomain)
}

func (b *backend) DeleteRecord(id uint) error {
	return b.db.DeleteRecord(id)
}

// Enrich merges live catalog data into a batch of records. Upstream deletions
// degrade to placeholders rather than failing the read: a missing product
// becomes "Deleted product", a missing discount clears the stored reference.
func (b *backend) Enrich(ctx context.Context, records []db.Record) ([]model.RecordResponse, error) {
	idSet := make(map[string]bool)
	for _, record := range records {
		if record.ProductID != "" {
			idSet[record.ProductID] = true
		}
		if record.DiscountID != "" {
			idSet[record.DiscountID] = true
		}
	}

	nodes := map[string]catalog.Node{}
	if len(idSet) > 0 {
		var err error
		nodes, err = b.catalog.ResolveNodes(ctx, maps.Keys(idSet))
		if err != nil {
			return nil, err
		}
	}

	responses := make([]model.RecordResponse, 0, len(records))
	for _, record := range records {
		response := recordResponse(record)

		if node, ok := nodes[record.ProductID]; ok {
			response.Product = &model.Product{
				ID:       node.ID,
				Title:    node.Title,
				Handle:   node.Handle,
				ImageURL: node.ImageURL,
			}
		} else {
			response.Product = &model.Product{Title: deletedProductTitle}
		}

		if record.DiscountID != "" {
			if _, ok := nodes[record.DiscountID]; !ok {
				b.clearStaleDiscount(record)
				response.DiscountID = ""
				response.DiscountCode = ""
			}
		}

		responses = append(responses, response)
	}

	return responses, nil
}

// clearStaleDiscount persists the removal of a discount reference whose
// upstream entity is gone. A write failure here must not fail the read that
// discovered the staleness; the next read or the reconciler will retry.
func (b *backend) clearStaleDiscount(record db.Record) {
	config := destinationConfig(record)
	config.DiscountID = ""
	config.DiscountCode = ""

	if err := b.db.ConfigureDestination(record.ID, config); err != nil {
		logrus.Errorf("failed to clear stale discount on record %d: %v", record.ID, err)
	}
}

// RecordScanAndResolve logs the scan, then computes the redirect. The counter
// is bumped before resolution on purpose: a scan happened whether or not the
// destination turns out to be well-formed.
func (b *backend) RecordScanAndResolve(record db.Record) (string, error) {
	if err := b.db.IncrementScans(record.ID); err != nil {
		return "", err
	}

	return ResolveDestinationURL(record)
}

func (b *backend) ScanURL(id uint) string {
	return fmt.Sprintf("%s://%s/qrcodes/%d/scan", b.hostScheme, b.hostName, id)
}

func (b *backend) ImageURL(id uint) string {
	return fmt.Sprintf("%s://%s/qrcodes/%d/image", b.hostScheme, b.hostName, id)
}

func recordResponse(record db.Record) model.RecordResponse {
	return model.RecordResponse{
		ID:           record.ID,
		ShopDomain:   record.ShopDomain,
		Question:     record.Question,
		QuestionedBy: record.QuestionedBy,
		QuestionedOn: record.QuestionedOn,
		Answer:       record.Answer,
		AnsweredBy:   record.AnsweredBy,
		AnsweredOn:   record.AnsweredOn,
		Title:        record.Title,
		VariantID:    record.VariantID,
		Handle:       record.Handle,
		DiscountID:   record.DiscountID,
		DiscountCode: record.DiscountCode,
		Destination:  record.Destination,
		Scans:        record.Scans,
		CreatedAt:    record.CreatedAt,
	}
}

func destinationConfig(record db.Record) model.DestinationRequest {
	return model.DestinationRequest{
		Title:        record.Title,
		ProductID:    record.ProductID,
		VariantID:    record.VariantID,
		Handle:       record.Handle,
		DiscountID:   record.DiscountID,
		DiscountCode: record.DiscountCode,
		Destination:  record.Destination,
	}
}
