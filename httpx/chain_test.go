package httpx

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func recordingMW(got *[]string, name string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*got = append(*got, name+"<")
			next.ServeHTTP(w, r)
			*got = append(*got, ">"+name)
		})
	}
}

func TestChain_Order(t *testing.T) {
	var got []string
	endpoint := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, "h")
	})

	h := Chain(recordingMW(&got, "a"), recordingMW(&got, "b"), recordingMW(&got, "c")).Handler(endpoint)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "http://example.test/", nil))

	want := []string{"a<", "b<", "c<", "h", ">c", ">b", ">a"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order mismatch:\n got: %#v\nwant: %#v", got, want)
	}
}

func TestChain_IgnoresNilMiddleware(t *testing.T) {
	var got []string
	endpoint := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, "h")
	})

	mws := Chain(nil, recordingMW(&got, "a"), nil)
	if len(mws) != 1 {
		t.Fatalf("expected nil-filtered chain of 1, got %d", len(mws))
	}
	mws.Handler(endpoint).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "http://example.test/", nil))

	want := []string{"a<", "h", ">a"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected execution:\n got: %#v\nwant: %#v", got, want)
	}
}

func TestChain_AllNil_ReturnsNil(t *testing.T) {
	if mws := Chain(nil, nil); mws != nil {
		t.Fatalf("expected nil chain, got %#v", mws)
	}
}

func TestMiddlewares_With_DoesNotMutateReceiver(t *testing.T) {
	var got []string
	endpoint := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, "h")
	})

	base := Chain(recordingMW(&got, "a"))
	derived := base.With(recordingMW(&got, "b"))

	base.Handler(endpoint).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "http://example.test/", nil))
	if want := []string{"a<", "h", ">a"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("base chain changed:\n got: %#v\nwant: %#v", got, want)
	}

	got = got[:0]
	derived.Handler(endpoint).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "http://example.test/", nil))
	if want := []string{"a<", "b<", "h", ">b", ">a"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("derived chain mismatch:\n got: %#v\nwant: %#v", got, want)
	}
}

func TestMiddlewares_Middleware_Collapses(t *testing.T) {
	var got []string
	endpoint := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, "h")
	})

	mw := Chain(recordingMW(&got, "a"), recordingMW(&got, "b")).Middleware()
	Wrap(endpoint, recordingMW(&got, "outer"), mw).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "http://example.test/", nil))

	want := []string{"outer<", "a<", "b<", "h", ">b", ">a", ">outer"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected execution:\n got: %#v\nwant: %#v", got, want)
	}
}

func TestMiddlewares_Handler_PanicsOnNilEndpoint(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic")
		}
	}()
	_ = Chain().Handler(nil)
}
