package billing

import (
	"fmt"
	"time"
)

// Document number prefixes
const (
	PrefixInvoice = "INV"
	PrefixReceipt = "RCT"
)

// NumberPeriod returns the PREFIX-YYYYMM- stem shared by all numbers of a month
func NumberPeriod(prefix string, at time.Time) string {
	return fmt.Sprintf("%s-%04d%02d-", prefix, at.Year(), int(at.Month()))
}

// FormatNumber builds a document number like INV-202501-00042
func FormatNumber(prefix string, at time.Time, seq int64) string {
	return fmt.Sprintf("%s%05d", NumberPeriod(prefix, at), seq)
}
