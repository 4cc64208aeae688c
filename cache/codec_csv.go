package cache

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

// Snapshot column names. The header row is required on write; on read,
// unknown columns are ignored and missing columns default to 0/absent.
const (
	colDomain    = "domain"
	colAlive     = "registration_alive"
	colMX        = "mail_exchange_exists"
	colCheckedAt = "checked_at"
)

// writeCSV writes the full cache as a delimited snapshot with a header row.
// Booleans are encoded as 1/0; facts without a timestamp are stamped with
// now at write time.
func writeCSV(w io.Writer, c *Cache, now time.Time) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{colDomain, colAlive, colMX, colCheckedAt}); err != nil {
		return fmt.Errorf("write cache header: %w", err)
	}

	for _, domain := range c.Domains() {
		f, _ := c.Get(domain)
		row := []string{
			domain,
			encodeBool(f.RegistrationAlive),
			encodeBool(f.MailExchangeExists),
			f.CheckedAtText(now),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write cache row for %s: %w", domain, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// readCSV loads a delimited snapshot. Rows without a domain are skipped;
// booleans decode from the "1"/not-"1" convention; unparseable timestamps
// are retained as opaque text.
func readCSV(r io.Reader) (*Cache, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}

	c := New()
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read cache row: %w", err)
		}

		domain := NormalizeDomain(field(row, cols, colDomain))
		if domain == "" {
			continue
		}

		f := Fact{
			RegistrationAlive:  field(row, cols, colAlive) == "1",
			MailExchangeExists: field(row, cols, colMX) == "1",
		}
		f.CheckedAt, f.CheckedAtRaw = parseCheckedAt(field(row, cols, colCheckedAt))

		c.Put(domain, f)
	}

	return c, nil
}

// field returns the named column of a row, or "" when the column is missing
// from the header or the row is short.
func field(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func encodeBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
