package shared

import (
	"reflect"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOTEL_API_KEY", "k")
	c := Load()
	if c.HTTPAddr != ":8080" || c.CacheTTL != 15*time.Minute || c.SessionTTL != 30*time.Minute {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.ReferencePrefix != "ADMAS" || c.KafkaBrokers != nil {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " k1:9092, ,k2:9092 ")
	t.Setenv("PREFETCH_HOTEL_IDS", "1,2")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("PREFETCH_WORKERS", "not-a-number")

	c := Load()
	if !reflect.DeepEqual(c.KafkaBrokers, []string{"k1:9092", "k2:9092"}) {
		t.Fatalf("unexpected brokers: %v", c.KafkaBrokers)
	}
	if !reflect.DeepEqual(c.PrefetchHotelIDs, []string{"1", "2"}) || c.CacheTTL != time.Minute || c.Workers != 8 {
		t.Fatalf("unexpected config: %+v", c)
	}
}
