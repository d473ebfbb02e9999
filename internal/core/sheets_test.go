package core

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseSheetURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    SheetRef
		wantErr bool
	}{
		{
			name: "edit link",
			url:  "https://docs.google.com/spreadsheets/d/1AbC-d_9/edit#gid=123",
			want: SheetRef{ID: "1AbC-d_9", GID: "123"},
		},
		{
			name: "share link without gid",
			url:  "https://docs.google.com/spreadsheets/d/1AbC/edit?usp=sharing",
			want: SheetRef{ID: "1AbC", GID: "0"},
		},
		{
			name: "query gid",
			url:  "https://docs.google.com/spreadsheets/d/xyz/edit?usp=sharing&gid=42",
			want: SheetRef{ID: "xyz", GID: "42"},
		},
		{name: "not a sheet", url: "https://example.com/file.csv", wantErr: true},
		{name: "empty", url: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSheetURL(tt.url)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSheetURL) {
					t.Errorf("error = %v, want ErrInvalidSheetURL", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSheetURL() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseSheetURL() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSheetRef_ExportURL(t *testing.T) {
	got := SheetRef{ID: "abc", GID: "7"}.ExportURL()
	want := "https://docs.google.com/spreadsheets/d/abc/export?format=csv&gid=7"
	if got != want {
		t.Errorf("ExportURL() = %q, want %q", got, want)
	}
}

func TestHTTPSheetFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte("Name,Cost\nFigma,45\n"))
		case "/big":
			w.Write([]byte(strings.Repeat("x", 64)))
		default:
			http.Error(w, "nope", http.StatusNotFound)
		}
	}))
	defer srv.Close()

	f := NewHTTPSheetFetcher(0)
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		body, err := f.Fetch(ctx, srv.URL+"/ok", 1024)
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if !strings.HasPrefix(string(body), "Name,Cost") {
			t.Errorf("body = %q", body)
		}
	})

	t.Run("status", func(t *testing.T) {
		_, err := f.Fetch(ctx, srv.URL+"/missing", 1024)
		if !errors.Is(err, ErrSheetFetch) || !strings.Contains(err.Error(), "404") {
			t.Errorf("error = %v, want ErrSheetFetch with status", err)
		}
	})

	t.Run("too large", func(t *testing.T) {
		_, err := f.Fetch(ctx, srv.URL+"/big", 16)
		if !errors.Is(err, ErrFileTooLarge) {
			t.Errorf("error = %v, want ErrFileTooLarge", err)
		}
	})
}
