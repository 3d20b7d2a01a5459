package fetch

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func TestHTTPFetcher_Fetch(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB}, 2048)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			if r.Header.Get("User-Agent") != userAgent {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_, _ = w.Write(payload)
		case "/big":
			w.Header().Set("Content-Length", strconv.Itoa(4096))
			_, _ = w.Write(bytes.Repeat([]byte{1}, 4096))
		case "/chunked":
			fl := w.(http.Flusher)
			for i := 0; i < 4; i++ {
				_, _ = w.Write(bytes.Repeat([]byte{1}, 1024))
				fl.Flush()
			}
		case "/slow":
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewHTTPFetcher(Config{Timeout: 5 * time.Second, MaxBytes: 3000})

	tests := []struct {
		name    string
		path    string
		ctx     func() (context.Context, context.CancelFunc)
		wantN   int64
		wantErr error
		anyErr  bool
	}{
		{name: "ok", path: "/ok", wantN: int64(len(payload))},
		{name: "not found", path: "/missing", wantErr: ErrUnexpectedStatus},
		{name: "declared too large", path: "/big", wantErr: ErrTooLarge},
		{name: "streamed too large", path: "/chunked", wantErr: ErrTooLarge},
		{
			name: "cancelled",
			path: "/slow",
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithTimeout(context.Background(), 50*time.Millisecond)
			},
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.Background(), context.CancelFunc(func() {})
			if tt.ctx != nil {
				ctx, cancel = tt.ctx()
			}
			defer cancel()

			var buf bytes.Buffer
			n, err := f.Fetch(ctx, srv.URL+tt.path, &buf)

			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
			case tt.anyErr:
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if n != tt.wantN || !bytes.Equal(buf.Bytes(), payload) {
					t.Fatalf("expected %d bytes, got %d", tt.wantN, n)
				}
			}
		})
	}
}

func TestNewHTTPFetcher_Defaults(t *testing.T) {
	f := NewHTTPFetcher(Config{})
	if f.maxBytes != defaultMaxBytes {
		t.Fatalf("expected default max bytes, got %d", f.maxBytes)
	}
	if f.client.Timeout != defaultTimeout {
		t.Fatalf("expected default timeout, got %v", f.client.Timeout)
	}
}
