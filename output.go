package mailvet

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/quentale/mailvet/cache"
)

// createOutput opens the output file for writing, creating intermediate
// directories as needed.
func createOutput(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	return f, nil
}

// rowWriter emits classified result rows: one per syntactically valid
// address, booleans encoded as 1/0.
type rowWriter struct {
	w *csv.Writer
}

func newRowWriter(w io.Writer) *rowWriter {
	return &rowWriter{w: csv.NewWriter(w)}
}

func (rw *rowWriter) writeHeader() error {
	return rw.w.Write([]string{"email", "domain", "registration_alive", "mail_exchange_exists"})
}

func (rw *rowWriter) writeRow(email, domain string, f cache.Fact) error {
	return rw.w.Write([]string{
		email,
		domain,
		bool01(f.RegistrationAlive),
		bool01(f.MailExchangeExists),
	})
}

func (rw *rowWriter) flush() error {
	rw.w.Flush()
	return rw.w.Error()
}

func bool01(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
