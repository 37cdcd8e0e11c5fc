package cache

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute)

	if _, ok := c.GetPrice("LMCAP 20250601 LME Comdty"); ok {
		t.Error("empty cache reported a hit")
	}

	want := decimal.RequireFromString("9555.25")
	c.SetPrice("LMCAP 20250601 LME Comdty", want)

	got, ok := c.GetPrice("LMCAP 20250601 LME Comdty")
	if !ok {
		t.Fatal("expected a hit")
	}
	if !got.Equal(want) {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(10 * time.Millisecond)
	c.SetPrice("LMCAP 20250601 LME Comdty", decimal.NewFromInt(100))

	time.Sleep(20 * time.Millisecond)
	if _, ok := c.GetPrice("LMCAP 20250601 LME Comdty"); ok {
		t.Error("expired entry still served")
	}
}

func TestMemoryCacheClear(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	c.SetPrice("LMCAP 20250601 LME Comdty", decimal.NewFromInt(100))
	c.Clear()
	if _, ok := c.GetPrice("LMCAP 20250601 LME Comdty"); ok {
		t.Error("cleared entry still served")
	}
}
