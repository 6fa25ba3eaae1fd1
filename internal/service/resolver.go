package service

import (
	"context"
	"net"
	"time"

	"github.com/ssps-place/place-backend/internal/model"
)

const resolveTimeout = 2 * time.Second

// HostnameResolver turns a client address into a human-readable provenance
// label for the timelapse. Resolution runs off the accept path; a failure or
// timeout falls back to the raw address with no retry.
type HostnameResolver struct {
	lookupAddr func(ctx context.Context, addr string) ([]string, error)
}

func NewHostnameResolver() *HostnameResolver {
	return &HostnameResolver{
		lookupAddr: net.DefaultResolver.LookupAddr,
	}
}

// Resolve returns the first reverse-DNS name for ip, or ip itself when the
// lookup fails. Loopback addresses resolve to "localhost" without a lookup.
func (r *HostnameResolver) Resolve(ip string) string {
	if model.IsLocalKey(ip) {
		return "localhost"
	}

	ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()

	names, err := r.lookupAddr(ctx, ip)
	if err != nil || len(names) == 0 {
		return ip
	}
	return names[0]
}
