package papertrade

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCachedOracle(t *testing.T) {
	ctx := context.Background()
	source := NewMapOracle().Set("AAPL", "Apple Inc.", USD(50))
	c, err := NewCachedOracle(source, time.Hour)
	if err != nil {
		t.Fatalf("NewCachedOracle() failed: %v", err)
	}
	defer c.Close()

	if _, err := c.Lookup(ctx, "aapl"); err != nil {
		t.Fatalf("Lookup() failed: %v", err)
	}
	c.Wait()
	source.Set("AAPL", "Apple Inc.", USD(60))
	q, err := c.Lookup(ctx, " AAPL")
	if err != nil {
		t.Fatalf("Lookup() failed: %v", err)
	}
	if !q.Price.Equal(USD(50)) {
		t.Errorf("cached price = %s, want $50.00", q.Price)
	}
	if source.Calls() != 1 {
		t.Errorf("source called %d times, want 1", source.Calls())
	}

	// misses are not cached
	for range 2 {
		if _, err := c.Lookup(ctx, "ZZZZ"); !errors.Is(err, ErrSymbolNotFound) {
			t.Errorf("Lookup(ZZZZ) error = %v, want ErrSymbolNotFound", err)
		}
		c.Wait()
	}
	if source.Calls() != 3 {
		t.Errorf("source called %d times, want 3", source.Calls())
	}
}

func TestCachedOracle_Expires(t *testing.T) {
	ctx := context.Background()
	source := NewMapOracle().Set("AAPL", "Apple Inc.", USD(50))
	c, err := NewCachedOracle(source, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewCachedOracle() failed: %v", err)
	}
	defer c.Close()

	c.Lookup(ctx, "AAPL")
	c.Wait()
	source.Set("AAPL", "Apple Inc.", USD(60))
	time.Sleep(50 * time.Millisecond)

	q, err := c.Lookup(ctx, "AAPL")
	if err != nil {
		t.Fatalf("Lookup() failed: %v", err)
	}
	if !q.Price.Equal(USD(60)) {
		t.Errorf("price after expiry = %s, want $60.00", q.Price)
	}
}

func TestMoney(t *testing.T) {
	testCases := []struct {
		m    Money
		want string
	}{
		{USD(1000), "$1,000.00"},
		{USD(0.5), "$0.50"},
		{USD(172.345), "$172.35"},
	}
	for _, tc := range testCases {
		if got := tc.m.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}

	if got := USD(50).Mul(10); !got.Equal(USD(500)) {
		t.Errorf("Mul() = %s, want $500.00", got)
	}
	if got := USD(50).Sub(USD(80)); !got.IsNegative() {
		t.Errorf("Sub() = %s, want negative", got)
	}
	if m, err := ParseMoney("10000.00", "USD"); err != nil || !m.Equal(USD(10000)) {
		t.Errorf("ParseMoney() = %s, %v", m, err)
	}
	if _, err := ParseMoney("lots", "USD"); err == nil {
		t.Errorf("ParseMoney(lots) succeeded")
	}
}
