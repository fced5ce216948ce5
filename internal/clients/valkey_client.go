package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"
)

type ValkeyOptions struct {
	Address  string
	Password string
	TLS      bool
}

// ValkeyClient wraps valkey.Client with retries and reconnects after
// connection-level failures.
type ValkeyClient struct {
	opts   ValkeyOptions
	mu     sync.RWMutex
	client valkey.Client
}

func NewValkeyClient(opts ValkeyOptions) (*ValkeyClient, error) {
	client, err := connectValkey(opts)
	if err != nil {
		return nil, err
	}
	slog.Info("[ValkeyClient] Successfully connected to valkey", slog.String("address", opts.Address))
	return &ValkeyClient{opts: opts, client: client}, nil
}

// WrapValkeyClient adopts an already connected client, such as the valkey-go
// mock client in tests.
func WrapValkeyClient(client valkey.Client, opts ValkeyOptions) *ValkeyClient {
	return &ValkeyClient{opts: opts, client: client}
}

func connectValkey(opts ValkeyOptions) (valkey.Client, error) {
	clientOpts := valkey.ClientOption{
		InitAddress:      []string{opts.Address},
		Password:         opts.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}
	if opts.TLS {
		clientOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client, err := valkey.NewClient(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}
	return client, nil
}

func (vc *ValkeyClient) current() valkey.Client {
	vc.mu.RLock()
	defer vc.mu.RUnlock()
	return vc.client
}

func (vc *ValkeyClient) recreateClient() {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")
	client, err := connectValkey(vc.opts)
	if err != nil {
		slog.Error("[ValkeyClient] Recreate failed", slog.String("error", err.Error()))
		return
	}
	vc.client.Close()
	vc.client = client
	slog.Info("[ValkeyClient] Successfully reconnected to valkey")
}

// B returns a command builder.
func (vc *ValkeyClient) B() valkey.Builder {
	return vc.current().B()
}

func (vc *ValkeyClient) Ping(ctx context.Context) error {
	c := vc.current()
	return c.Do(ctx, c.B().Ping().Build()).Error()
}

func (vc *ValkeyClient) Close() {
	vc.current().Close()
}

func (vc *ValkeyClient) DoWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult

	for i := 0; i < retries; i++ {
		result = vc.current().Do(ctx, completed)
		err := result.Error()
		if err == nil || valkey.IsValkeyNil(err) {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
		if isConnectionError(err) {
			vc.recreateClient()
		}
		time.Sleep(250 * time.Millisecond)
	}

	return result
}

// ExecWithRetry runs a Lua script, retrying the whole script on failure.
// Scripts run atomically, so a failed attempt leaves no partial writes.
func (vc *ValkeyClient) ExecWithRetry(ctx context.Context, script *valkey.Lua, keys, args []string, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult

	for i := 0; i < retries; i++ {
		result = script.Exec(ctx, vc.current(), keys, args)
		err := result.Error()
		if err == nil {
			break
		}

		slog.Warn("[ValkeyClient] Script failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
		if isConnectionError(err) {
			vc.recreateClient()
		}
		time.Sleep(250 * time.Millisecond)
	}

	return result
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
