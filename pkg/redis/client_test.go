package redis

import (
	"context"
	"testing"

	"github.com/telnova/cart-backend/pkg/config"
)

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error when neither url nor address is set")
	}
}

func TestOptionsFromConfigParsesURL(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{
		URL:      "redis://localhost:6379/2",
		PoolSize: 7,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6379" {
		t.Fatalf("unexpected addr %q", opts.Addr)
	}
	if opts.DB != 2 {
		t.Fatalf("unexpected db %d", opts.DB)
	}
	if opts.PoolSize != 7 {
		t.Fatalf("pool size from config should apply, got %d", opts.PoolSize)
	}
}

func TestOptionsFromConfigAddressFallback(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{
		Address:  "redis:6380",
		Password: "s3cret",
		DB:       1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "redis:6380" || opts.Password != "s3cret" || opts.DB != 1 {
		t.Fatalf("address fallback not applied: %+v", opts)
	}
}

func TestCartKeyNamespacing(t *testing.T) {
	c := &Client{}
	if got := c.CartKey("abc"); got != "cartapi:cart:abc" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestUninitializedClientErrors(t *testing.T) {
	c := &Client{}
	if err := c.Ping(context.Background()); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
	if err := c.Set(context.Background(), "k", "v", 0); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
}
