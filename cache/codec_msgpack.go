package cache

import (
	"fmt"
	"time"

	"github.com/tinylib/msgp/msgp"
)

// encodeMsgpack writes the full cache as a MessagePack snapshot: a map of
// domain to a field map carrying the same values as the CSV codec.
func encodeMsgpack(c *Cache, now time.Time) ([]byte, error) {
	b := msgp.AppendMapHeader(nil, uint32(c.Len()))

	for _, domain := range c.Domains() {
		f, _ := c.Get(domain)

		b = msgp.AppendString(b, domain)
		b = msgp.AppendMapHeader(b, 3)
		b = msgp.AppendString(b, colAlive)
		b = msgp.AppendBool(b, f.RegistrationAlive)
		b = msgp.AppendString(b, colMX)
		b = msgp.AppendBool(b, f.MailExchangeExists)
		b = msgp.AppendString(b, colCheckedAt)
		b = msgp.AppendString(b, f.CheckedAtText(now))
	}

	return b, nil
}

// decodeMsgpack loads a MessagePack snapshot. Entries with an empty domain
// are skipped; unknown fields are ignored; unparseable timestamps are
// retained as opaque text.
func decodeMsgpack(b []byte) (*Cache, error) {
	size, b, err := msgp.ReadMapHeaderBytes(b)
	if err != nil {
		return nil, fmt.Errorf("read snapshot header: %w", err)
	}

	c := New()
	for i := uint32(0); i < size; i++ {
		var domain string
		domain, b, err = msgp.ReadStringBytes(b)
		if err != nil {
			return nil, fmt.Errorf("read snapshot domain: %w", err)
		}

		var fields uint32
		fields, b, err = msgp.ReadMapHeaderBytes(b)
		if err != nil {
			return nil, fmt.Errorf("read snapshot entry for %s: %w", domain, err)
		}

		var f Fact
		for j := uint32(0); j < fields; j++ {
			var key string
			key, b, err = msgp.ReadStringBytes(b)
			if err != nil {
				return nil, fmt.Errorf("read snapshot field for %s: %w", domain, err)
			}

			switch key {
			case colAlive:
				f.RegistrationAlive, b, err = msgp.ReadBoolBytes(b)
			case colMX:
				f.MailExchangeExists, b, err = msgp.ReadBoolBytes(b)
			case colCheckedAt:
				var text string
				text, b, err = msgp.ReadStringBytes(b)
				if err == nil {
					f.CheckedAt, f.CheckedAtRaw = parseCheckedAt(text)
				}
			default:
				b, err = msgp.Skip(b)
			}
			if err != nil {
				return nil, fmt.Errorf("decode snapshot field %s for %s: %w", key, domain, err)
			}
		}

		c.Put(domain, f)
	}

	return c, nil
}
