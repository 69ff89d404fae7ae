package graph

import (
	"context"
	"strings"
	"sync"
)

// MemoryClient is an in-process Client for tests. Results are scripted per
// query text, and every executed statement is recorded.
type MemoryClient struct {
	mu           sync.Mutex
	calls        []ExecutedQuery
	results      map[string][]Result
	errs         map[string]error
	err          error
	connectivity error
	closed       bool
}

// ExecutedQuery captures one statement run against the client.
type ExecutedQuery struct {
	Query  string
	Params map[string]any
	Write  bool
}

// NewMemoryClient returns a client with no scripted results.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		results: make(map[string][]Result),
		errs:    make(map[string]error),
	}
}

// WithError makes every subsequent query fail with err.
func (m *MemoryClient) WithError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithConnectivityError forces VerifyConnectivity to return err.
func (m *MemoryClient) WithConnectivityError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectivity = err
	return m
}

// On queues res for the next execution of query. Queued results are
// consumed in order; once exhausted the query returns an empty Result.
func (m *MemoryClient) On(query string, res Result) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := normalizeQuery(query)
	m.results[key] = append(m.results[key], res)
	return m
}

// FailOn makes executions of query return err.
func (m *MemoryClient) FailOn(query string, err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[normalizeQuery(query)] = err
	return m
}

func (m *MemoryClient) ExecuteWrite(_ context.Context, cypher string, params map[string]any) (Result, error) {
	return m.execute(cypher, params, true)
}

func (m *MemoryClient) ExecuteRead(_ context.Context, cypher string, params map[string]any) (Result, error) {
	return m.execute(cypher, params, false)
}

func (m *MemoryClient) execute(cypher string, params map[string]any, write bool) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return Result{}, m.err
	}
	key := normalizeQuery(cypher)
	if err := m.errs[key]; err != nil {
		return Result{}, err
	}

	m.calls = append(m.calls, ExecutedQuery{
		Query:  cypher,
		Params: cloneMap(params),
		Write:  write,
	})

	queued := m.results[key]
	if len(queued) == 0 {
		return Result{}, nil
	}
	m.results[key] = queued[1:]
	return queued[0], nil
}

func (m *MemoryClient) VerifyConnectivity(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectivity
}

func (m *MemoryClient) Close(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MemoryClient) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// WriteCalls returns a snapshot of executed write statements.
func (m *MemoryClient) WriteCalls() []ExecutedQuery {
	return m.filter(true)
}

// ReadCalls returns a snapshot of executed read statements.
func (m *MemoryClient) ReadCalls() []ExecutedQuery {
	return m.filter(false)
}

func (m *MemoryClient) filter(write bool) []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ExecutedQuery
	for _, c := range m.calls {
		if c.Write == write {
			out = append(out, c)
		}
	}
	return out
}

func normalizeQuery(q string) string {
	return strings.Join(strings.Fields(q), " ")
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
