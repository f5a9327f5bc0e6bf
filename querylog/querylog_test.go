package querylog

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestStart_AttachesFreshLogPerRequest(t *testing.T) {
	var seen []*Log
	h := Start()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l, ok := FromContext(r.Context())
		if !ok {
			t.Fatalf("expected log in context")
		}
		Record(r.Context(), "SELECT 1", time.Millisecond)
		seen = append(seen, l)
	}))

	for i := 0; i < 2; i++ {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}
	if len(seen) != 2 || seen[0] == seen[1] {
		t.Fatalf("expected two distinct logs")
	}
	if seen[0].Count() != 1 || seen[1].Count() != 1 {
		t.Fatalf("expected one query each, got %d and %d", seen[0].Count(), seen[1].Count())
	}
}

func TestStart_KeepsOuterLog(t *testing.T) {
	outer := New()
	h := Start()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Record(r.Context(), "q", 0)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	h.ServeHTTP(httptest.NewRecorder(), req.WithContext(WithLog(req.Context(), outer)))
	if outer.Count() != 1 {
		t.Fatalf("expected query in outer log, got %d", outer.Count())
	}
}

func TestRecord_WithoutLogIsNoop(t *testing.T) {
	Record(context.Background(), "q", 0)
	var l *Log
	if l.Count() != 0 || l.Entries() != nil {
		t.Fatalf("nil log must be empty")
	}
}

func TestLog_ConcurrentAdds(t *testing.T) {
	l := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Add(Entry{Query: "q"})
		}()
	}
	wg.Wait()
	if l.Count() != 50 {
		t.Fatalf("expected 50 entries, got %d", l.Count())
	}
}

type fakeQueryer struct {
	execErr error
}

func (f fakeQueryer) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return nil, f.execErr
}

func (f fakeQueryer) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return nil, errors.New("no rows here")
}

func (f fakeQueryer) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return &sql.Row{}
}

func TestWrap_RecordsQueries(t *testing.T) {
	l := New()
	ctx := WithLog(context.Background(), l)
	db := Wrap(fakeQueryer{execErr: errors.New("boom")})

	_, _ = db.ExecContext(ctx, "UPDATE t SET a = ?", 1)
	_, _ = db.QueryContext(ctx, "SELECT * FROM t")
	_, _ = db.ExecContext(context.Background(), "not recorded")

	entries := l.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Query != "UPDATE t SET a = ?" || entries[0].Args != 1 || entries[0].Err != "boom" {
		t.Fatalf("unexpected first entry %+v", entries[0])
	}
	if entries[1].Err != "no rows here" {
		t.Fatalf("unexpected second entry %+v", entries[1])
	}
}
