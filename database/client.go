package database

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/koustreak/QueryDeck/logger"
)

// Client is the query-execution façade. It owns one lazily created shared
// pool and all the result-shaping helpers built on top of it.
//
// The pool lifecycle is a small state machine: uninitialized until the first
// acquisition, connecting while the first attempt is in flight (concurrent
// callers coalesce onto that one attempt), ready once it succeeds. A failed
// attempt leaves the client uninitialized so the next call retries from
// scratch instead of replaying a broken pool.
type Client struct {
	cfg    *Config
	driver Driver
	log    *logger.Logger

	mu     sync.Mutex
	shared Pool
	flight singleflight.Group
}

// Option customises a Client.
type Option func(*Client)

// WithLogger routes the client's error logging through l.
// Without it the client stays silent.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New builds a Client for the given configuration and engine driver. The
// configuration is copied and default values are backfilled, so the caller's
// struct can be discarded. No connection is made until first use.
func New(cfg *Config, drv Driver, opts ...Option) *Client {
	c := &Client{driver: drv, log: logger.Nop()}
	if cfg != nil {
		cc := *cfg
		cc.normalize()
		c.cfg = &cc
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// pool returns the shared pool, creating it on first use. Concurrent
// first-time callers all await the same creation attempt and receive the
// same pool instance; a failed attempt is not cached.
func (c *Client) pool(ctx context.Context) (Pool, error) {
	if err := c.checkInit(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	p := c.shared
	c.mu.Unlock()
	if p != nil {
		return p, nil
	}

	v, err, _ := c.flight.Do("pool", func() (any, error) {
		// Re-check: another flight may have completed between the unlock
		// above and this closure running.
		c.mu.Lock()
		existing := c.shared
		c.mu.Unlock()
		if existing != nil {
			return existing, nil
		}

		created, err := c.driver.Connect(ctx, c.cfg)
		if err != nil {
			c.log.ErrorWith("pool creation failed", err, map[string]any{
				"driver": c.driver.Name(),
				"server": c.cfg.Server,
			})
			return nil, err
		}

		c.mu.Lock()
		c.shared = created
		c.mu.Unlock()
		return created, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Pool), nil
}

func (c *Client) checkInit() error {
	if c.cfg == nil {
		return errConfiguration("client has no configuration; pass a Config to New")
	}
	if c.driver == nil {
		return errConfiguration("client has no driver; pass a Driver to New")
	}
	return nil
}

// Conn opens a private, one-off connection outside the shared pool. It is
// never cached; the caller owns it and must Close it. Failures are surfaced
// immediately and not retried.
func (c *Client) Conn(ctx context.Context) (Conn, error) {
	if err := c.checkInit(); err != nil {
		return nil, err
	}
	conn, err := c.driver.Open(ctx, c.cfg)
	if err != nil {
		c.log.ErrorWith("connection failed", err, map[string]any{
			"driver": c.driver.Name(),
			"server": c.cfg.Server,
		})
		return nil, err
	}
	return conn, nil
}

// Ping verifies the shared pool can reach the database, creating the pool
// if needed.
func (c *Client) Ping(ctx context.Context) error {
	p, err := c.pool(ctx)
	if err != nil {
		return err
	}
	return p.Ping(ctx)
}

// Close releases the shared pool. A later call recreates it.
func (c *Client) Close() {
	c.mu.Lock()
	p := c.shared
	c.shared = nil
	c.mu.Unlock()
	if p != nil {
		p.Close()
	}
}

// Execute is the execution primitive behind every shaper: it validates
// parameters, acquires the shared pool and runs the command, returning the
// normalized multi-recordset outcome. Failures are logged once here and
// returned unchanged — no retry.
func (c *Client) Execute(ctx context.Context, kind CommandKind, query string, params ...Param) (*Result, error) {
	if err := checkParams(params); err != nil {
		return nil, err
	}
	p, err := c.pool(ctx)
	if err != nil {
		return nil, err
	}
	res, err := p.Query(ctx, kind, query, params)
	if err != nil {
		c.logQueryError(kind, query, err)
		return nil, err
	}
	return res, nil
}

// exec is the row-count sibling of Execute, backing Update and Delete.
// Record sets and affected counts come from different driver entry points,
// so the two paths stay separate.
func (c *Client) exec(ctx context.Context, kind CommandKind, query string, params []Param) (int64, error) {
	if err := checkParams(params); err != nil {
		return 0, err
	}
	p, err := c.pool(ctx)
	if err != nil {
		return 0, err
	}
	n, err := p.Exec(ctx, kind, query, params)
	if err != nil {
		c.logQueryError(kind, query, err)
		return 0, err
	}
	return n, nil
}

// ExecuteReturn executes a stored procedure and yields its integer return
// status, 0 when the procedure sets none. A leading @ marker is stripped
// from every parameter name before binding.
func (c *Client) ExecuteReturn(ctx context.Context, proc string, params ...Param) (int64, error) {
	stripped := make([]Param, len(params))
	for i, p := range params {
		p.Name = StripMarker(p.Name)
		stripped[i] = p
	}
	if err := checkParams(stripped); err != nil {
		return 0, err
	}
	pool, err := c.pool(ctx)
	if err != nil {
		return 0, err
	}
	rv, err := pool.CallReturn(ctx, proc, stripped)
	if err != nil {
		c.logQueryError(StoredProcedure, proc, err)
		return 0, err
	}
	return rv, nil
}

func (c *Client) logQueryError(kind CommandKind, query string, err error) {
	c.log.ErrorWith("query execution failed", err, map[string]any{
		"driver": c.driver.Name(),
		"kind":   kind.String(),
		"query":  query,
	})
}
