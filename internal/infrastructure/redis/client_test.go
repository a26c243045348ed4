package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestNewClientConnects(t *testing.T) {
	s := miniredis.RunT(t)
	defer s.Close()

	ctx := context.Background()

	client, err := NewClient(ctx, "redis://"+s.Addr())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	if err := client.Set(ctx, "probe", "1", 0).Err(); err != nil {
		t.Fatalf("set after connect: %v", err)
	}
}

func TestNewClientRejectsBadURL(t *testing.T) {
	if _, err := NewClient(context.Background(), "://bad-url"); err == nil {
		t.Fatal("expected error for malformed URL")
	}
}

func TestNewClientFailsWhenServerDown(t *testing.T) {
	s := miniredis.RunT(t)
	url := "redis://" + s.Addr()
	s.Close()

	if _, err := NewClient(context.Background(), url); err == nil {
		t.Fatal("expected ping error with no server listening")
	}
}
