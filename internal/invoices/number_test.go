package invoices

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNextNumberIncrementsSequence(t *testing.T) {
	now := time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "INV-8-202502", NextNumber("INV-7-202501", now))
}

func TestNextNumberFirstInvoice(t *testing.T) {
	now := time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "INV-1-202502", NextNumber("", now))
}

func TestNextNumberUnparsablePrior(t *testing.T) {
	now := time.Date(2024, time.November, 3, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "INV-1-202411", NextNumber("garbage", now))
	require.Equal(t, "INV-1-202411", NextNumber("INV-x-202410", now))
}

func TestNextNumberZeroPadsMonth(t *testing.T) {
	now := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "INV-13-202503", NextNumber("INV-12-202502", now))
}
