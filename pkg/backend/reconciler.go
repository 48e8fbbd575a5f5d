package backend

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"k8s.io/apimachinery/pkg/util/wait"
)

func (b *backend) StartReconcilerDaemon(stopCh <-chan struct{}) {
	logrus.Infof("starting discount reconciler. Interval: %vs", b.reconcileIntervalSeconds)
	wait.JitterUntil(b.reconcile, time.Duration(b.reconcileIntervalSeconds)*time.Second, .002, true, stopCh)
}

// reconcile proactively applies the same healing the read path does: any
// stored discount reference the catalog no longer returns gets cleared, so a
// record whose discount was deleted upstream stops advertising it even if
// nobody reads the record for a while.
func (b *backend) reconcile() {
	records, err := b.db.ListRecordsWithDiscount()
	if err != nil {
		logrus.Errorf("problem listing records with discounts: %v", err)
		return
	}
	if len(records) == 0 {
		return
	}

	idSet := make(map[string]bool)
	for _, record := range records {
		idSet[record.DiscountID] = true
	}

	nodes, err := b.catalog.ResolveNodes(context.Background(), maps.Keys(idSet))
	if err != nil {
		logrus.Errorf("could not reach catalog, skipping reconcile: %v", err)
		return
	}

	var cleared int
	for _, record := range records {
		if _, ok := nodes[record.DiscountID]; ok {
			continue
		}
		b.clearStaleDiscount(record)
		cleared++
	}

	logrus.Infof("stale discount references cleared: %v", cleared)
}
