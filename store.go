package portfolio

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/avianalytics/portfolio/date"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store is the durable snapshot store holding the four ingested tables.
// All analytics read from it; the only write path is Replace, which swaps
// the whole snapshot atomically. WAL mode keeps concurrent readers
// isolated from an in-flight replace.
type Store struct {
	conn *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS securities (
	security_id INTEGER PRIMARY KEY,
	ticker      TEXT NOT NULL UNIQUE,
	name        TEXT NOT NULL,
	asset_class TEXT NOT NULL,
	currency    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS prices (
	price_date  TEXT NOT NULL,
	security_id INTEGER NOT NULL,
	close_price TEXT NOT NULL,
	PRIMARY KEY (price_date, security_id),
	FOREIGN KEY (security_id) REFERENCES securities(security_id)
);

CREATE TABLE IF NOT EXISTS holdings (
	holding_date TEXT NOT NULL,
	security_id  INTEGER NOT NULL,
	quantity     TEXT NOT NULL,
	PRIMARY KEY (holding_date, security_id),
	FOREIGN KEY (security_id) REFERENCES securities(security_id)
);

CREATE TABLE IF NOT EXISTS cash (
	cash_date TEXT PRIMARY KEY,
	currency  TEXT NOT NULL,
	amount    TEXT NOT NULL
);
`

// OpenStore opens (or creates) the snapshot store at the given path.
func OpenStore(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("pinging store: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{conn: conn, path: dbPath}, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error { return s.conn.Close() }

// Replace swaps all four tables for the batch content in a single
// transaction. On any error the transaction rolls back and the previous
// snapshot stays fully intact.
func (s *Store) Replace(b *Batch) (err error) {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("starting replace: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	// Delete children before parents to respect foreign keys.
	for _, table := range []string{"prices", "holdings", "cash", "securities"} {
		if _, err = tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for _, sec := range b.Securities {
		_, err = tx.Exec(
			"INSERT INTO securities (security_id, ticker, name, asset_class, currency) VALUES (?, ?, ?, ?, ?)",
			sec.ID, sec.Ticker, sec.Name, sec.AssetClass, sec.Currency)
		if err != nil {
			return fmt.Errorf("inserting security %q: %w", sec.Ticker, err)
		}
	}
	for _, p := range b.Prices {
		_, err = tx.Exec(
			"INSERT INTO prices (price_date, security_id, close_price) VALUES (?, ?, ?)",
			p.Date.String(), p.SecurityID, p.Close.String())
		if err != nil {
			return fmt.Errorf("inserting price (%s, %d): %w", p.Date, p.SecurityID, err)
		}
	}
	for _, h := range b.Holdings {
		_, err = tx.Exec(
			"INSERT INTO holdings (holding_date, security_id, quantity) VALUES (?, ?, ?)",
			h.Date.String(), h.SecurityID, h.Quantity.String())
		if err != nil {
			return fmt.Errorf("inserting holding (%s, %d): %w", h.Date, h.SecurityID, err)
		}
	}
	for _, c := range b.Cash {
		_, err = tx.Exec(
			"INSERT INTO cash (cash_date, currency, amount) VALUES (?, ?, ?)",
			c.Date.String(), c.Currency, c.Amount.String())
		if err != nil {
			return fmt.Errorf("inserting cash (%s): %w", c.Date, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing replace: %w", err)
	}
	return nil
}

// Securities returns all securities ordered by ticker.
func (s *Store) Securities() ([]Security, error) {
	rows, err := s.conn.Query(
		"SELECT security_id, ticker, name, asset_class, currency FROM securities ORDER BY ticker")
	if err != nil {
		return nil, fmt.Errorf("querying securities: %w", err)
	}
	defer rows.Close()

	var secs []Security
	for rows.Next() {
		var sec Security
		if err := rows.Scan(&sec.ID, &sec.Ticker, &sec.Name, &sec.AssetClass, &sec.Currency); err != nil {
			return nil, fmt.Errorf("scanning security: %w", err)
		}
		secs = append(secs, sec)
	}
	return secs, rows.Err()
}

// Tickers returns all known ticker symbols ordered alphabetically.
func (s *Store) Tickers() ([]string, error) {
	secs, err := s.Securities()
	if err != nil {
		return nil, err
	}
	tickers := make([]string, 0, len(secs))
	for _, sec := range secs {
		tickers = append(tickers, sec.Ticker)
	}
	return tickers, nil
}

// SecurityByTicker returns the security with the given ticker, or nil when
// unknown.
func (s *Store) SecurityByTicker(ticker string) (*Security, error) {
	var sec Security
	err := s.conn.QueryRow(
		"SELECT security_id, ticker, name, asset_class, currency FROM securities WHERE ticker = ?",
		ticker).Scan(&sec.ID, &sec.Ticker, &sec.Name, &sec.AssetClass, &sec.Currency)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying security %q: %w", ticker, err)
	}
	return &sec, nil
}

// HoldingDates returns the distinct holding dates, ordered. These are the
// dates for which a NAV can exist.
func (s *Store) HoldingDates() ([]date.Date, error) {
	return s.dates("SELECT DISTINCT holding_date FROM holdings ORDER BY holding_date")
}

// CashDates returns the distinct cash dates, ordered.
func (s *Store) CashDates() ([]date.Date, error) {
	return s.dates("SELECT cash_date FROM cash ORDER BY cash_date")
}

func (s *Store) dates(query string) ([]date.Date, error) {
	rows, err := s.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying dates: %w", err)
	}
	defer rows.Close()

	var out []date.Date
	for rows.Next() {
		var str string
		if err := rows.Scan(&str); err != nil {
			return nil, fmt.Errorf("scanning date: %w", err)
		}
		d, err := date.Parse(str)
		if err != nil {
			return nil, fmt.Errorf("stored date: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// HoldingsOn returns all holding records for one date.
func (s *Store) HoldingsOn(d date.Date) ([]HoldingRecord, error) {
	rows, err := s.conn.Query(
		"SELECT security_id, quantity FROM holdings WHERE holding_date = ?", d.String())
	if err != nil {
		return nil, fmt.Errorf("querying holdings on %s: %w", d, err)
	}
	defer rows.Close()

	var out []HoldingRecord
	for rows.Next() {
		h := HoldingRecord{Date: d}
		var qty string
		if err := rows.Scan(&h.SecurityID, &qty); err != nil {
			return nil, fmt.Errorf("scanning holding: %w", err)
		}
		if h.Quantity, err = decimal.NewFromString(qty); err != nil {
			return nil, fmt.Errorf("stored quantity %q: %w", qty, err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// PricesOn returns the close prices observed on one date, keyed by
// security ID.
func (s *Store) PricesOn(d date.Date) (map[int64]decimal.Decimal, error) {
	rows, err := s.conn.Query(
		"SELECT security_id, close_price FROM prices WHERE price_date = ?", d.String())
	if err != nil {
		return nil, fmt.Errorf("querying prices on %s: %w", d, err)
	}
	defer rows.Close()

	out := make(map[int64]decimal.Decimal)
	for rows.Next() {
		var id int64
		var str string
		if err := rows.Scan(&id, &str); err != nil {
			return nil, fmt.Errorf("scanning price: %w", err)
		}
		px, err := decimal.NewFromString(str)
		if err != nil {
			return nil, fmt.Errorf("stored price %q: %w", str, err)
		}
		out[id] = px
	}
	return out, rows.Err()
}

// PrevClose returns a security's most recent close strictly before the
// given date, independent of any portfolio-wide previous date.
func (s *Store) PrevClose(securityID int64, before date.Date) (decimal.Decimal, bool, error) {
	var str string
	err := s.conn.QueryRow(
		"SELECT close_price FROM prices WHERE security_id = ? AND price_date < ? ORDER BY price_date DESC LIMIT 1",
		securityID, before.String()).Scan(&str)
	if err == sql.ErrNoRows {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("querying previous close: %w", err)
	}
	px, err := decimal.NewFromString(str)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("stored price %q: %w", str, err)
	}
	return px, true, nil
}

// CashOn returns the cash balance on one date, if any.
func (s *Store) CashOn(d date.Date) (*CashBalance, error) {
	var str, cur string
	err := s.conn.QueryRow(
		"SELECT amount, currency FROM cash WHERE cash_date = ?", d.String()).Scan(&str, &cur)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying cash on %s: %w", d, err)
	}
	amount, err := decimal.NewFromString(str)
	if err != nil {
		return nil, fmt.Errorf("stored amount %q: %w", str, err)
	}
	return &CashBalance{Date: d, Amount: amount, Currency: cur}, nil
}

// CashAll returns all cash balances ordered by date.
func (s *Store) CashAll() ([]CashBalance, error) {
	rows, err := s.conn.Query("SELECT cash_date, amount, currency FROM cash ORDER BY cash_date")
	if err != nil {
		return nil, fmt.Errorf("querying cash: %w", err)
	}
	defer rows.Close()

	var out []CashBalance
	for rows.Next() {
		var dstr, astr string
		var c CashBalance
		if err := rows.Scan(&dstr, &astr, &c.Currency); err != nil {
			return nil, fmt.Errorf("scanning cash: %w", err)
		}
		if c.Date, err = date.Parse(dstr); err != nil {
			return nil, fmt.Errorf("stored cash date: %w", err)
		}
		if c.Amount, err = decimal.NewFromString(astr); err != nil {
			return nil, fmt.Errorf("stored amount %q: %w", astr, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Currency returns the portfolio's cash currency, or "" when the store is
// empty.
func (s *Store) Currency() (string, error) {
	var cur string
	err := s.conn.QueryRow("SELECT currency FROM cash LIMIT 1").Scan(&cur)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying currency: %w", err)
	}
	return cur, nil
}
