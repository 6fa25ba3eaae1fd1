package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHostnameResolver(t *testing.T) {
	t.Run("loopback short-circuits to localhost", func(t *testing.T) {
		r := &HostnameResolver{
			lookupAddr: func(ctx context.Context, addr string) ([]string, error) {
				t.Fatal("lookup must not run for loopback")
				return nil, nil
			},
		}
		assert.Equal(t, "localhost", r.Resolve("127.0.0.1"))
		assert.Equal(t, "localhost", r.Resolve("::1"))
		assert.Equal(t, "localhost", r.Resolve("localhost"))
	})

	t.Run("first name wins", func(t *testing.T) {
		r := &HostnameResolver{
			lookupAddr: func(ctx context.Context, addr string) ([]string, error) {
				return []string{"a.example.org.", "b.example.org."}, nil
			},
		}
		assert.Equal(t, "a.example.org.", r.Resolve("203.0.113.7"))
	})

	t.Run("failure falls back to the raw address", func(t *testing.T) {
		r := &HostnameResolver{
			lookupAddr: func(ctx context.Context, addr string) ([]string, error) {
				return nil, errors.New("nxdomain")
			},
		}
		assert.Equal(t, "203.0.113.7", r.Resolve("203.0.113.7"))
	})

	t.Run("empty result falls back to the raw address", func(t *testing.T) {
		r := &HostnameResolver{
			lookupAddr: func(ctx context.Context, addr string) ([]string, error) {
				return []string{}, nil
			},
		}
		assert.Equal(t, "203.0.113.7", r.Resolve("203.0.113.7"))
	})
}
