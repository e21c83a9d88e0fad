package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/shelfguard/shelfguard/pkg/inventory"
	"github.com/shelfguard/shelfguard/pkg/scoring"
	"github.com/shelfguard/shelfguard/pkg/voidlog"
)

const (
	// fetchPageSize bounds one page of the event scan.
	fetchPageSize = 1000
	// maxPageRetries bounds attempts per page before the scan is cut short.
	maxPageRetries = 3
	// pageRetryBackoff is the fixed wait between page retry attempts.
	pageRetryBackoff = 200 * time.Millisecond
	// insertChunkSize bounds one multi-row insert statement.
	insertChunkSize = 500
)

// Service provides Postgres-backed persistence for events, void records and
// scorecards.
type Service struct {
	db *sqlx.DB
}

// NewService creates a store Service.
func NewService(db *sqlx.DB) *Service {
	return &Service{db: db}
}

// eventRow is the database shape of an inventory event.
type eventRow struct {
	StoreID             string       `db:"store_id"`
	ProductID           string       `db:"product_id"`
	PeriodID            string       `db:"period_id"`
	CountIndex          int          `db:"count_index"`
	ProductName         string       `db:"product_name"`
	CategoryPath        string       `db:"category_path"`
	ProductGroup        string       `db:"product_group"`
	Manager             string       `db:"manager"`
	Region              string       `db:"region"`
	UnitPrice           float64      `db:"unit_price"`
	VarianceQty         float64      `db:"variance_qty"`
	VarianceAmount      float64      `db:"variance_amount"`
	ShrinkageQty        float64      `db:"shrinkage_qty"`
	ShrinkageAmount     float64      `db:"shrinkage_amount"`
	CountQty            float64      `db:"count_qty"`
	SalesAmount         float64      `db:"sales_amount"`
	VoidedQty           float64      `db:"voided_qty"`
	PartialQty          float64      `db:"partial_qty"`
	PartialAmount       float64      `db:"partial_amount"`
	PriorVarianceQty    float64      `db:"prior_variance_qty"`
	PriorVarianceAmount float64      `db:"prior_variance_amount"`
	CountedAt           sql.NullTime `db:"counted_at"`
}

func rowFromEvent(e inventory.Event) eventRow {
	r := eventRow{
		StoreID:             e.StoreID,
		ProductID:           e.ProductID,
		PeriodID:            e.PeriodID,
		CountIndex:          e.CountIndex,
		ProductName:         e.ProductName,
		CategoryPath:        e.CategoryPath,
		ProductGroup:        e.ProductGroup,
		Manager:             e.Manager,
		Region:              e.Region,
		UnitPrice:           e.UnitPrice,
		VarianceQty:         e.VarianceQty,
		VarianceAmount:      e.VarianceAmount,
		ShrinkageQty:        e.ShrinkageQty,
		ShrinkageAmount:     e.ShrinkageAmount,
		CountQty:            e.CountQty,
		SalesAmount:         e.SalesAmount,
		VoidedQty:           e.VoidedQty,
		PartialQty:          e.PartialQty,
		PartialAmount:       e.PartialAmount,
		PriorVarianceQty:    e.PriorVarianceQty,
		PriorVarianceAmount: e.PriorVarianceAmount,
	}
	if !e.CountedAt.IsZero() {
		r.CountedAt = sql.NullTime{Time: e.CountedAt, Valid: true}
	}
	return r
}

func (r eventRow) toEvent() inventory.Event {
	e := inventory.Event{
		StoreID:             r.StoreID,
		ProductID:           r.ProductID,
		PeriodID:            r.PeriodID,
		CountIndex:          r.CountIndex,
		ProductName:         r.ProductName,
		CategoryPath:        r.CategoryPath,
		ProductGroup:        r.ProductGroup,
		Manager:             r.Manager,
		Region:              r.Region,
		UnitPrice:           r.UnitPrice,
		VarianceQty:         r.VarianceQty,
		VarianceAmount:      r.VarianceAmount,
		ShrinkageQty:        r.ShrinkageQty,
		ShrinkageAmount:     r.ShrinkageAmount,
		CountQty:            r.CountQty,
		SalesAmount:         r.SalesAmount,
		VoidedQty:           r.VoidedQty,
		PartialQty:          r.PartialQty,
		PartialAmount:       r.PartialAmount,
		PriorVarianceQty:    r.PriorVarianceQty,
		PriorVarianceAmount: r.PriorVarianceAmount,
	}
	if r.CountedAt.Valid {
		e.CountedAt = r.CountedAt.Time
	}
	return e
}

const insertEventSQL = `
	INSERT INTO inventory_events (
		store_id, product_id, period_id, count_index,
		product_name, category_path, product_group, manager, region,
		unit_price, variance_qty, variance_amount, shrinkage_qty, shrinkage_amount,
		count_qty, sales_amount, voided_qty, partial_qty, partial_amount,
		prior_variance_qty, prior_variance_amount, counted_at
	)
	VALUES (
		:store_id, :product_id, :period_id, :count_index,
		:product_name, :category_path, :product_group, :manager, :region,
		:unit_price, :variance_qty, :variance_amount, :shrinkage_qty, :shrinkage_amount,
		:count_qty, :sales_amount, :voided_qty, :partial_qty, :partial_amount,
		:prior_variance_qty, :prior_variance_amount, :counted_at
	)
	ON CONFLICT (store_id, product_id, period_id, count_index) DO NOTHING`

// InsertEvents stores a batch of events. Replays of the same count key are
// silently dropped, so ingestion is idempotent.
func (s *Service) InsertEvents(ctx context.Context, events []inventory.Event) error {
	for start := 0; start < len(events); start += insertChunkSize {
		end := start + insertChunkSize
		if end > len(events) {
			end = len(events)
		}
		rows := make([]eventRow, 0, end-start)
		for _, e := range events[start:end] {
			rows = append(rows, rowFromEvent(e))
		}
		if _, err := s.db.NamedExecContext(ctx, insertEventSQL, rows); err != nil {
			return fmt.Errorf("insert events: %w", err)
		}
	}
	return nil
}

// EventFilter narrows an event scan. Empty fields match everything.
type EventFilter struct {
	StoreID  string
	PeriodID string
	Manager  string
	Region   string
}

// FetchResult is the outcome of a paginated event scan. Incomplete marks a
// scan that was cut short after repeated page failures; the events collected
// so far are still returned.
type FetchResult struct {
	Events     []inventory.Event
	Incomplete bool
}

// FetchEvents scans events matching the filter in pages, keyed on the row id
// so a slow scan stays stable under concurrent inserts. Each page is retried
// a bounded number of times; a page that keeps failing ends the scan with
// Incomplete set.
func (s *Service) FetchEvents(ctx context.Context, filter EventFilter) (*FetchResult, error) {
	conditions := []string{"id > :after"}
	args := map[string]interface{}{"after": int64(0)}

	if filter.StoreID != "" {
		conditions = append(conditions, "store_id = :store_id")
		args["store_id"] = filter.StoreID
	}
	if filter.PeriodID != "" {
		conditions = append(conditions, "period_id = :period_id")
		args["period_id"] = filter.PeriodID
	}
	if filter.Manager != "" {
		conditions = append(conditions, "manager = :manager")
		args["manager"] = filter.Manager
	}
	if filter.Region != "" {
		conditions = append(conditions, "region = :region")
		args["region"] = filter.Region
	}

	query := fmt.Sprintf(`
		SELECT id, store_id, product_id, period_id, count_index,
		       product_name, category_path, product_group, manager, region,
		       unit_price, variance_qty, variance_amount, shrinkage_qty, shrinkage_amount,
		       count_qty, sales_amount, voided_qty, partial_qty, partial_amount,
		       prior_variance_qty, prior_variance_amount, counted_at
		FROM inventory_events
		WHERE %s
		ORDER BY id
		LIMIT %d`, strings.Join(conditions, " AND "), fetchPageSize)

	stmt, err := s.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("prepare event scan: %w", err)
	}
	defer stmt.Close()

	type pagedRow struct {
		ID int64 `db:"id"`
		eventRow
	}

	result := &FetchResult{}
	for {
		var page []pagedRow
		var pageErr error
		for attempt := 0; attempt < maxPageRetries; attempt++ {
			page = page[:0]
			pageErr = stmt.SelectContext(ctx, &page, args)
			if pageErr == nil {
				break
			}
			if errors.Is(pageErr, context.Canceled) || errors.Is(pageErr, context.DeadlineExceeded) {
				return nil, fmt.Errorf("event scan: %w", pageErr)
			}
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("event scan: %w", ctx.Err())
			case <-time.After(pageRetryBackoff):
			}
		}
		if pageErr != nil {
			result.Incomplete = true
			return result, nil
		}
		for _, r := range page {
			result.Events = append(result.Events, r.toEvent())
		}
		if len(page) < fetchPageSize {
			return result, nil
		}
		args["after"] = page[len(page)-1].ID
	}
}

// voidRow is the database shape of a void record.
type voidRow struct {
	StoreID       string  `db:"store_id"`
	TransactionID string  `db:"transaction_id"`
	ProductID     string  `db:"product_id"`
	ProductName   string  `db:"product_name"`
	CategoryPath  string  `db:"category_path"`
	UnitPrice     float64 `db:"unit_price"`
	Qty           float64 `db:"qty"`
	Amount        float64 `db:"amount"`
	VoidedAt      string  `db:"voided_at"`
}

// InsertVoidRecords stores a batch of POS void-log records.
func (s *Service) InsertVoidRecords(ctx context.Context, records []voidlog.Record) error {
	const q = `
		INSERT INTO void_records (
			store_id, transaction_id, product_id, product_name, category_path,
			unit_price, qty, amount, voided_at
		)
		VALUES (
			:store_id, :transaction_id, :product_id, :product_name, :category_path,
			:unit_price, :qty, :amount, :voided_at
		)`
	for start := 0; start < len(records); start += insertChunkSize {
		end := start + insertChunkSize
		if end > len(records) {
			end = len(records)
		}
		rows := make([]voidRow, 0, end-start)
		for _, r := range records[start:end] {
			rows = append(rows, voidRow{
				StoreID:       r.StoreID,
				TransactionID: r.TransactionID,
				ProductID:     r.ProductID,
				ProductName:   r.ProductName,
				CategoryPath:  r.CategoryPath,
				UnitPrice:     r.UnitPrice,
				Qty:           r.Qty,
				Amount:        r.Amount,
				VoidedAt:      r.VoidedAt,
			})
		}
		if _, err := s.db.NamedExecContext(ctx, q, rows); err != nil {
			return fmt.Errorf("insert void records: %w", err)
		}
	}
	return nil
}

// ListVoidRecords returns all void records for a store.
func (s *Service) ListVoidRecords(ctx context.Context, storeID string) ([]voidlog.Record, error) {
	var rows []voidRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT store_id, transaction_id, product_id, product_name, category_path,
		       unit_price, qty, amount, voided_at
		FROM void_records
		WHERE store_id = $1
		ORDER BY id`, storeID)
	if err != nil {
		return nil, fmt.Errorf("list void records for %s: %w", storeID, err)
	}
	records := make([]voidlog.Record, 0, len(rows))
	for _, r := range rows {
		records = append(records, voidlog.Record{
			StoreID:       r.StoreID,
			TransactionID: r.TransactionID,
			ProductID:     r.ProductID,
			ProductName:   r.ProductName,
			CategoryPath:  r.CategoryPath,
			UnitPrice:     r.UnitPrice,
			Qty:           r.Qty,
			Amount:        r.Amount,
			VoidedAt:      r.VoidedAt,
		})
	}
	return records, nil
}

// UpsertScorecard stores the latest scorecard for a store, replacing any
// previous one.
func (s *Service) UpsertScorecard(ctx context.Context, card *scoring.Scorecard) error {
	payload, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("marshal scorecard: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scorecards (store_id, manager, region, total_score, classification, sales_total, card, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (store_id) DO UPDATE
		  SET manager = EXCLUDED.manager,
		      region = EXCLUDED.region,
		      total_score = EXCLUDED.total_score,
		      classification = EXCLUDED.classification,
		      sales_total = EXCLUDED.sales_total,
		      card = EXCLUDED.card,
		      updated_at = EXCLUDED.updated_at`,
		card.StoreID, card.Manager, card.Region, card.TotalScore,
		string(card.Classification), card.SalesTotal, payload, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert scorecard %s: %w", card.StoreID, err)
	}
	return nil
}

// GetScorecard returns the stored scorecard for a store, or sql.ErrNoRows
// wrapped if none exists.
func (s *Service) GetScorecard(ctx context.Context, storeID string) (*scoring.Scorecard, error) {
	var payload []byte
	err := s.db.GetContext(ctx, &payload,
		`SELECT card FROM scorecards WHERE store_id = $1`, storeID)
	if err != nil {
		return nil, fmt.Errorf("get scorecard %s: %w", storeID, err)
	}
	card := &scoring.Scorecard{}
	if err := json.Unmarshal(payload, card); err != nil {
		return nil, fmt.Errorf("decode scorecard %s: %w", storeID, err)
	}
	return card, nil
}

// ListScorecards returns all stored scorecards, highest score first.
func (s *Service) ListScorecards(ctx context.Context) ([]*scoring.Scorecard, error) {
	var payloads [][]byte
	err := s.db.SelectContext(ctx, &payloads,
		`SELECT card FROM scorecards ORDER BY total_score DESC, store_id`)
	if err != nil {
		return nil, fmt.Errorf("list scorecards: %w", err)
	}
	cards := make([]*scoring.Scorecard, 0, len(payloads))
	for _, p := range payloads {
		card := &scoring.Scorecard{}
		if err := json.Unmarshal(p, card); err != nil {
			return nil, fmt.Errorf("decode scorecard: %w", err)
		}
		cards = append(cards, card)
	}
	return cards, nil
}
