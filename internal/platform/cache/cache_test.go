package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid-redis", "redis://localhost:6379", false},
		{"valid-with-db", "redis://localhost:6379/0", false},
		{"empty", "", true},
		{"not-a-url", "localhost:6379", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseURL() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNew_UnreachableHost(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping unreachable host test in short mode")
	}

	ctx := t.Context()
	_, err := New(ctx, "redis://localhost:59999")
	if err == nil {
		t.Fatal("New() should return error for unreachable host")
	}
}

func TestGetBytes_UnreachableHost(t *testing.T) {
	c := &Cache{Client: redis.NewClient(&redis.Options{
		Addr:        "localhost:59999",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := c.GetBytes(ctx, "catalog:online:abc"); err == nil {
		t.Error("GetBytes() should return error when the cache is unreachable")
	}
	if err := c.SetBytes(ctx, "catalog:online:abc", []byte("{}"), time.Minute); err == nil {
		t.Error("SetBytes() should return error when the cache is unreachable")
	}
}
