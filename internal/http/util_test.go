package http

import (
	"net/url"
	"strconv"
	"testing"
)

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse url %q: %v", raw, err)
	}
	return u
}
