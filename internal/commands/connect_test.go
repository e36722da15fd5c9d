package commands

import (
	"context"
	"net"
	"net/http"
	"testing"
)

func callback(t *testing.T, query string) (string, error) {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer listener.Close()

	type result struct {
		code string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		code, err := awaitCallback(context.Background(), listener, "s1")
		done <- result{code, err}
	}()

	resp, err := http.Get("http://" + listener.Addr().String() + "/callback?" + query)
	if err != nil {
		t.Fatalf("callback request: %v", err)
	}
	resp.Body.Close()

	r := <-done
	return r.code, r.err
}

func TestAwaitCallback_Code(t *testing.T) {
	code, err := callback(t, "state=s1&code=abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "abc" {
		t.Errorf("expected code abc, got %q", code)
	}
}

func TestAwaitCallback_StateMismatch(t *testing.T) {
	_, err := callback(t, "state=other&code=abc")
	if err == nil || err.Error() != "oauth state mismatch" {
		t.Errorf("expected state mismatch, got %v", err)
	}
}

func TestAwaitCallback_Denied(t *testing.T) {
	_, err := callback(t, "state=s1&error=access_denied")
	if err == nil || err.Error() != "authorization denied: access_denied" {
		t.Errorf("expected denial, got %v", err)
	}
}
