package infra

import (
	"fmt"

	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// to create / update all tables, then applies idempotent SQL patches that
// GORM cannot express (partial indexes mainly).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates/updates the schema. Also used by integration tests
// against a disposable database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Customer{},
		&model.Product{},
		&model.Sale{},
		&model.SaleItem{},
		&model.StockMovement{},
		&model.FiscalSequence{},
		&model.CreditAccount{},
		&model.PurchaseOrder{},
		&model.PurchaseOrderItem{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement is guarded so re-running on an already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Movement log is queried by sale for refund accounting; a partial
		// index keeps that lookup cheap as the table grows.
		{"partial index for refund sums", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_stock_movements_refund_ref') THEN
    CREATE INDEX idx_stock_movements_refund_ref
        ON stock_movements (ref_id, product_id)
        WHERE ref_type = 'REFUND';
  END IF;
END $$`},
		// At most one active sequence per (company, doc_type); inactive
		// historical sequences of the same type may coexist.
		{"unique active fiscal sequence", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uidx_fiscal_sequences_active') THEN
    CREATE UNIQUE INDEX uidx_fiscal_sequences_active
        ON fiscal_sequences (company_id, doc_type)
        WHERE active;
  END IF;
END $$`},
		{"guard against negative sequence numbers", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_fiscal_sequences_number') THEN
    ALTER TABLE fiscal_sequences
      ADD CONSTRAINT chk_fiscal_sequences_number CHECK (current_number >= 0);
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
