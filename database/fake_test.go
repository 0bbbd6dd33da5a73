package database

import (
	"context"
	"sync"
	"sync/atomic"
)

// fakeDriver lets the client tests observe pool lifecycle and execution
// without any engine behind them.
type fakeDriver struct {
	mu         sync.Mutex
	connects   atomic.Int32
	opens      atomic.Int32
	connectErr func(attempt int32) error // nil means success
	pool       *fakePool
}

func newFakeDriver(pool *fakePool) *fakeDriver {
	if pool == nil {
		pool = &fakePool{}
	}
	return &fakeDriver{pool: pool}
}

func (d *fakeDriver) Name() string { return "fake" }

func (d *fakeDriver) IdentitySuffix(column string) string {
	return "; SELECT IDENTITY() AS " + column
}

func (d *fakeDriver) Connect(_ context.Context, _ *Config) (Pool, error) {
	attempt := d.connects.Add(1)
	d.mu.Lock()
	fn := d.connectErr
	d.mu.Unlock()
	if fn != nil {
		if err := fn(attempt); err != nil {
			return nil, err
		}
	}
	return d.pool, nil
}

func (d *fakeDriver) Open(_ context.Context, _ *Config) (Conn, error) {
	attempt := d.opens.Add(1)
	d.mu.Lock()
	fn := d.connectErr
	d.mu.Unlock()
	if fn != nil {
		if err := fn(attempt); err != nil {
			return nil, err
		}
	}
	return &fakeConn{pool: d.pool}, nil
}

func (d *fakeDriver) setConnectErr(fn func(attempt int32) error) {
	d.mu.Lock()
	d.connectErr = fn
	d.mu.Unlock()
}

// fakePool records the last call and plays back canned outcomes.
type fakePool struct {
	mu sync.Mutex

	lastKind   CommandKind
	lastQuery  string
	lastParams []Param
	queries    int

	result      *Result
	execCount   int64
	returnValue int64
	err         error

	closed bool
}

func (p *fakePool) record(kind CommandKind, query string, params []Param) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastKind = kind
	p.lastQuery = query
	p.lastParams = params
	p.queries++
}

func (p *fakePool) Query(_ context.Context, kind CommandKind, query string, params []Param) (*Result, error) {
	p.record(kind, query, params)
	if p.err != nil {
		return nil, p.err
	}
	if p.result == nil {
		return &Result{}, nil
	}
	return p.result, nil
}

func (p *fakePool) Exec(_ context.Context, kind CommandKind, query string, params []Param) (int64, error) {
	p.record(kind, query, params)
	if p.err != nil {
		return 0, p.err
	}
	return p.execCount, nil
}

func (p *fakePool) CallReturn(_ context.Context, proc string, params []Param) (int64, error) {
	p.record(StoredProcedure, proc, params)
	if p.err != nil {
		return 0, p.err
	}
	return p.returnValue, nil
}

func (p *fakePool) Ping(_ context.Context) error { return p.err }

func (p *fakePool) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}

type fakeConn struct {
	pool   *fakePool
	closed bool
}

func (c *fakeConn) Query(ctx context.Context, kind CommandKind, query string, params []Param) (*Result, error) {
	return c.pool.Query(ctx, kind, query, params)
}

func (c *fakeConn) Exec(ctx context.Context, kind CommandKind, query string, params []Param) (int64, error) {
	return c.pool.Exec(ctx, kind, query, params)
}

func (c *fakeConn) CallReturn(ctx context.Context, proc string, params []Param) (int64, error) {
	return c.pool.CallReturn(ctx, proc, params)
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}
