package access

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewJWTResolver_RequiresSecret(t *testing.T) {
	if _, err := NewJWTResolver(nil); !errors.Is(err, ErrNoSecret) {
		t.Fatalf("expected ErrNoSecret, got %v", err)
	}
}

func TestJWTResolver_LoginThenResolve(t *testing.T) {
	j, err := NewJWTResolver([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	rr := httptest.NewRecorder()
	if err := j.Login(rr, Principal{ID: "u1", Name: "alice", Capabilities: []Capability{ViewBar}}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != DefaultSessionCookie {
		t.Fatalf("expected one session cookie, got %v", cookies)
	}

	req := httptest.NewRequest(http.MethodGet, "http://example.test/", nil)
	req.AddCookie(cookies[0])
	p := j.Resolve(req)
	if p.ID != "u1" || p.Name != "alice" || !p.Has(ViewBar) {
		t.Fatalf("unexpected principal %+v", p)
	}
	if p.Session == "" {
		t.Fatalf("expected generated session id")
	}
}

func TestJWTResolver_RejectsForeignAndExpiredTokens(t *testing.T) {
	j, _ := NewJWTResolver([]byte("secret"), WithSessionTTL(time.Minute))
	other, _ := NewJWTResolver([]byte("other"))

	foreign, err := other.Issue(Principal{ID: "u1"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := j.Parse(foreign); err == nil {
		t.Fatalf("expected signature error")
	}

	tok, err := j.Issue(Principal{ID: "u1"})
	if err != nil {
		t.Fatal(err)
	}
	j.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := j.Parse(tok); err == nil {
		t.Fatalf("expected expiry error")
	}
}

func TestJWTResolver_MissingOrGarbageCookieIsAnonymous(t *testing.T) {
	j, _ := NewJWTResolver([]byte("secret"))

	req := httptest.NewRequest(http.MethodGet, "http://example.test/", nil)
	if p := j.Resolve(req); !p.IsAnonymous() {
		t.Fatalf("expected anonymous, got %+v", p)
	}
	req.AddCookie(&http.Cookie{Name: DefaultSessionCookie, Value: "garbage"})
	if p := j.Resolve(req); !p.IsAnonymous() {
		t.Fatalf("expected anonymous, got %+v", p)
	}
}

func TestJWTResolver_IssueAnonymousFails(t *testing.T) {
	j, _ := NewJWTResolver([]byte("secret"))
	if _, err := j.Issue(Principal{}); err == nil {
		t.Fatalf("expected error")
	}
}
