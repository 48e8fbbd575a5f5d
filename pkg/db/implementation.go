package db

import (
	"context"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/merchware/scanlink/pkg/model"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type database struct {
	db *gorm.DB
}

// New creates a new database connection. The schema is migrated before the
// store is handed out, so no caller can issue a query against an absent
// table. AutoMigrate is idempotent and never drops existing columns.
func New(ctx context.Context, dialect string, dsn string, config *gorm.Config) (Database, error) {
	if config == nil {
		config = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	}

	var db *gorm.DB
	var err error

	if dialect == "sqlite" {
		db, err = gorm.Open(sqlite.Open(dsn), config)
	} else if dialect == "mysql" {
		db, err = gorm.Open(mysql.Open(dsn), config)
	} else {
		return nil, fmt.Errorf("unsupported dialect: %s", dialect)
	}

	if err != nil {
		return nil, err
	}

	db = db.WithContext(ctx)

	if err := db.AutoMigrate(
		&Record{},
	); err != nil {
		return nil, err
	}

	d := &database{
		db: db,
	}
	return d, nil
}

func (d *database) CreateQuestion(record *Record) (uint, error) {
	sql := d.db.Create(record)
	if sql.Error != nil {
		return 0, sql.Error
	}

	return record.ID, nil
}

// AnswerQuestion writes the answer field subset. Missing ids are a silent
// no-op; callers that need existence confirmation must read first.
func (d *database) AnswerQuestion(id uint, answer model.AnswerRequest) error {
	sql := d.db.Model(&Record{}).Where("id = ?", id).Updates(map[string]interface{}{
		"answer":     answer.Answer,
		"answeredBy": answer.AnsweredBy,
		"answeredOn": answer.AnsweredOn,
	})
	return sql.Error
}

// ConfigureDestination replaces the QR configuration field subset wholesale.
// Fields the caller left empty are written empty, not preserved. Missing ids
// are a silent no-op.
func (d *database) ConfigureDestination(id uint, config model.DestinationRequest) error {
	sql := d.db.Model(&Record{}).Where("id = ?", id).Updates(map[string]interface{}{
		"title":        config.Title,
		"productId":    config.ProductID,
		"variantId":    config.VariantID,
		"handle":       config.Handle,
		"discountId":   config.DiscountID,
		"discountCode": config.DiscountCode,
		"destination":  config.Destination,
	})
	return sql.Error
}

// GetRecord returns the zero Record when anything other than exactly one row
// matches. More than one row for a primary key should be unreachable, but an
// ambiguous match must read as not-found rather than surface a guess.
func (d *database) GetRecord(id uint) (Record, error) {
	var records []Record
	sql := d.db.Where("id = ?", id).Find(&records)
	if sql.Error != nil {
		return Record{}, sql.Error
	}

	if len(records) != 1 {
		return Record{}, nil
	}

	return records[0], nil
}

func (d *database) ListRecords(shopDomain string) ([]Record, error) {
	var records []Record
	sql := d.db.Where("shopDomain = ?", shopDomain).Order("id").Find(&records)
	if sql.Error != nil {
		return nil, sql.Error
	}

	return records, nil
}

func (d *database) DeleteRecord(id uint) error {
	sql := d.db.Delete(&Record{}, id)
	return sql.Error
}

func (d *database) IncrementScans(id uint) error {
	sql := d.db.Model(&Record{}).Where("id = ?", id).
		UpdateColumn("scans", gorm.Expr("scans + ?", 1))
	return sql.Error
}

func (d *database) ListRecordsWithDiscount() ([]Record, error) {
	var records []Record
	sql := d.db.Where("discountId <> ''").Order("id").Find(&records)
	if sql.Error != nil {
		return nil, sql.Error
	}

	return records, nil
}
