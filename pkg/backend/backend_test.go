package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/merchware/scanlink/pkg/catalog"
	"github.com/merchware/scanlink/pkg/db"
	"github.com/merchware/scanlink/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	nodes map[string]catalog.Node
	calls int
}

func (f *fakeCatalog) ResolveNodes(_ context.Context, ids []string) (map[string]catalog.Node, error) {
	f.calls++
	resolved := make(map[string]catalog.Node)
	for _, id := range ids {
		if node, ok := f.nodes[id]; ok {
			resolved[id] = node
		}
	}
	return resolved, nil
}

func newTestBackend(t *testing.T, cat *fakeCatalog) (Backend, db.Database) {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.sqlite")
	database, err := db.New(context.Background(), "sqlite", dsn, nil)
	require.NoError(t, err)

	b, err := NewBackend("https", "app.example.com", 3600, cat, database)
	require.NoError(t, err)
	return b, database
}

func createQuestion(t *testing.T, b Backend) db.Record {
	t.Helper()
	record, err := b.CreateQuestion("https://shop.example.com", model.QuestionRequest{
		Question:     "Does it hold 12oz?",
		QuestionedBy: "casey",
		QuestionedOn: "2023-06-01T10:00:00Z",
		ProductID:    "gid://shopify/Product/1",
	})
	require.NoError(t, err)
	return record
}

func TestEnrichAttachesProduct(t *testing.T) {
	cat := &fakeCatalog{nodes: map[string]catalog.Node{
		"gid://shopify/Product/1": {
			ID:       "gid://shopify/Product/1",
			Title:    "Mug",
			Handle:   "mug",
			ImageURL: "https://cdn.example.com/mug.png",
		},
	}}
	b, _ := newTestBackend(t, cat)
	record := createQuestion(t, b)

	enriched, err := b.Enrich(context.Background(), []db.Record{record})
	require.NoError(t, err)
	require.Len(t, enriched, 1)

	require.NotNil(t, enriched[0].Product)
	assert.Equal(t, "Mug", enriched[0].Product.Title)
	assert.Equal(t, "mug", enriched[0].Product.Handle)
	assert.Equal(t, 1, cat.calls)
}

func TestEnrichDeletedProductPlaceholder(t *testing.T) {
	b, _ := newTestBackend(t, &fakeCatalog{})
	record := createQuestion(t, b)

	enriched, err := b.Enrich(context.Background(), []db.Record{record})
	require.NoError(t, err)
	require.Len(t, enriched, 1)

	require.NotNil(t, enriched[0].Product)
	assert.Equal(t, "Deleted product", enriched[0].Product.Title)
}

func TestEnrichClearsStaleDiscount(t *testing.T) {
	cat := &fakeCatalog{nodes: map[string]catalog.Node{
		"gid://shopify/Product/1": {ID: "gid://shopify/Product/1", Title: "Mug", Handle: "mug"},
	}}
	b, database := newTestBackend(t, cat)
	record := createQuestion(t, b)

	err := b.ConfigureDestination(record.ID, model.DestinationRequest{
		Title:        "Mug code",
		ProductID:    record.ProductID,
		Handle:       "mug",
		DiscountID:   "gid://shopify/DiscountCodeNode/9",
		DiscountCode: "SAVE10",
		Destination:  model.DestinationProduct,
	})
	require.NoError(t, err)

	record, err = b.GetRecord(record.ID)
	require.NoError(t, err)

	enriched, err := b.Enrich(context.Background(), []db.Record{record})
	require.NoError(t, err)
	require.Len(t, enriched, 1)
	assert.Empty(t, enriched[0].DiscountID)
	assert.Empty(t, enriched[0].DiscountCode)

	// The clearing is written through, not just reflected in the response
	stored, err := database.GetRecord(record.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.DiscountID)
	assert.Empty(t, stored.DiscountCode)
	assert.Equal(t, "mug", stored.Handle)
	assert.Equal(t, model.DestinationProduct, stored.Destination)
}

func TestEnrichKeepsLiveDiscount(t *testing.T) {
	cat := &fakeCatalog{nodes: map[string]catalog.Node{
		"gid://shopify/Product/1":          {ID: "gid://shopify/Product/1", Title: "Mug"},
		"gid://shopify/DiscountCodeNode/9": {ID: "gid://shopify/DiscountCodeNode/9"},
	}}
	b, _ := newTestBackend(t, cat)
	record := createQuestion(t, b)

	err := b.ConfigureDestination(record.ID, model.DestinationRequest{
		ProductID:    record.ProductID,
		Handle:       "mug",
		DiscountID:   "gid://shopify/DiscountCodeNode/9",
		DiscountCode: "SAVE10",
		Destination:  model.DestinationProduct,
	})
	require.NoError(t, err)

	record, err = b.GetRecord(record.ID)
	require.NoError(t, err)

	enriched, err := b.Enrich(context.Background(), []db.Record{record})
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", enriched[0].DiscountCode)
}

func TestEnrichEmptyBatchSkipsCatalog(t *testing.T) {
	cat := &fakeCatalog{}
	b, _ := newTestBackend(t, cat)

	enriched, err := b.Enrich(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, enriched)
	assert.Zero(t, cat.calls)
}

func TestRecordScanAndResolve(t *testing.T) {
	b, database := newTestBackend(t, &fakeCatalog{})
	record := createQuestion(t, b)

	err := b.ConfigureDestination(record.ID, model.DestinationRequest{
		ProductID:   record.ProductID,
		Handle:      "mug",
		Destination: model.DestinationProduct,
	})
	require.NoError(t, err)

	record, err = b.GetRecord(record.ID)
	require.NoError(t, err)

	url, err := b.RecordScanAndResolve(record)
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com/products/mug", url)

	stored, err := database.GetRecord(record.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Scans)
}

func TestScanCountedEvenWhenResolutionFails(t *testing.T) {
	b, database := newTestBackend(t, &fakeCatalog{})
	record := createQuestion(t, b)

	// destination never configured, so resolution must fail
	_, err := b.RecordScanAndResolve(record)
	require.Error(t, err)

	var unrecognized *model.UnrecognizedDestinationError
	assert.ErrorAs(t, err, &unrecognized)

	stored, err := database.GetRecord(record.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Scans)
}

func TestDerivedURLs(t *testing.T) {
	b, _ := newTestBackend(t, &fakeCatalog{})

	assert.Equal(t, "https://app.example.com/qrcodes/7/scan", b.ScanURL(7))
	assert.Equal(t, "https://app.example.com/qrcodes/7/image", b.ImageURL(7))
}

func TestReconcileClearsStaleDiscounts(t *testing.T) {
	cat := &fakeCatalog{nodes: map[string]catalog.Node{
		"gid://shopify/DiscountCodeNode/live": {ID: "gid://shopify/DiscountCodeNode/live"},
	}}
	b, database := newTestBackend(t, cat)

	stale := createQuestion(t, b)
	require.NoError(t, b.ConfigureDestination(stale.ID, model.DestinationRequest{
		ProductID:    stale.ProductID,
		Handle:       "mug",
		DiscountID:   "gid://shopify/DiscountCodeNode/gone",
		DiscountCode: "GONE10",
		Destination:  model.DestinationProduct,
	}))

	live := createQuestion(t, b)
	require.NoError(t, b.ConfigureDestination(live.ID, model.DestinationRequest{
		ProductID:    live.ProductID,
		Handle:       "mug",
		DiscountID:   "gid://shopify/DiscountCodeNode/live",
		DiscountCode: "LIVE10",
		Destination:  model.DestinationProduct,
	}))

	b.(*backend).reconcile()

	cleared, err := database.GetRecord(stale.ID)
	require.NoError(t, err)
	assert.Empty(t, cleared.DiscountID)
	assert.Empty(t, cleared.DiscountCode)

	kept, err := database.GetRecord(live.ID)
	require.NoError(t, err)
	assert.Equal(t, "LIVE10", kept.DiscountCode)
}
