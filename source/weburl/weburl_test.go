package weburl

import (
	"net"
	"reflect"
	"testing"
)

func TestIsURLOnly(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{
			name: "bare https URL",
			text: "https://go.dev/doc/effective_go",
			want: true,
		},
		{
			name: "bare http URL",
			text: "http://example.com",
			want: true,
		},
		{
			name: "URL with surrounding whitespace",
			text: "  https://example.com/path  \n",
			want: true,
		},
		{
			name: "URL inside sentence",
			text: "check out https://example.com today",
			want: false,
		},
		{
			name: "two URLs",
			text: "https://a.com https://b.com",
			want: false,
		},
		{
			name: "plain text",
			text: "not a url at all",
			want: false,
		},
		{
			name: "scheme only",
			text: "https://",
			want: false,
		},
		{
			name: "empty",
			text: "",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsURLOnly(tt.text); got != tt.want {
				t.Errorf("IsURLOnly(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractURLs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single URL in sentence",
			text: "see https://example.com/docs for details",
			want: []string{"https://example.com/docs"},
		},
		{
			name: "multiple URLs",
			text: "https://a.com and https://b.com/path?q=1",
			want: []string{"https://a.com", "https://b.com/path?q=1"},
		},
		{
			name: "no URLs",
			text: "nothing to see here",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractURLs(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractURLs(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{
			name:    "valid https URL",
			url:     "https://go.dev/doc/effective_go",
			wantErr: false,
		},
		{
			name:    "valid http URL",
			url:     "http://example.com",
			wantErr: false,
		},
		{
			name:    "ftp scheme rejected",
			url:     "ftp://example.com/file",
			wantErr: true,
		},
		{
			name:    "localhost rejected",
			url:     "https://localhost:8080",
			wantErr: true,
		},
		{
			name:    "127.0.0.1 rejected",
			url:     "https://127.0.0.1/path",
			wantErr: true,
		},
		{
			name:    ".local domain rejected",
			url:     "https://myserver.local/api",
			wantErr: true,
		},
		{
			name:    ".internal domain rejected",
			url:     "https://app.internal/api",
			wantErr: true,
		},
		{
			name:    "private IP 192.168.x.x rejected",
			url:     "https://192.168.1.1/path",
			wantErr: true,
		},
		{
			name:    "private IP 10.x.x.x rejected",
			url:     "https://10.0.0.1/path",
			wantErr: true,
		},
		{
			name:    "private IP 172.16.x.x rejected",
			url:     "https://172.16.0.1/path",
			wantErr: true,
		},
		{
			name:    "invalid URL",
			url:     "not-a-url",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip       string
		expected bool
	}{
		// IPv4 private ranges
		{"192.168.1.1", true},
		{"10.0.0.1", true},
		{"172.16.0.1", true},
		{"172.31.255.255", true},
		{"127.0.0.1", true},
		{"169.254.1.1", true}, // IPv4 link-local

		// IPv4 public
		{"8.8.8.8", false},
		{"1.1.1.1", false},

		// CGNAT
		{"100.64.0.1", true},
		{"100.127.255.255", true},

		// IPv6
		{"::1", true},                // IPv6 loopback
		{"::ffff:192.168.1.1", true}, // IPv6-mapped private IPv4
		{"::ffff:127.0.0.1", true},   // IPv6-mapped loopback
		{"::ffff:8.8.8.8", false},    // IPv6-mapped public IPv4
		{"fe80::1", true},            // IPv6 link-local
		{"fc00::1", true},            // IPv6 unique local
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			ip := net.ParseIP(tt.ip)
			if ip == nil {
				t.Fatalf("failed to parse IP: %s", tt.ip)
			}
			got := IsPrivateIP(ip)
			if got != tt.expected {
				t.Errorf("IsPrivateIP(%q) = %v, want %v", tt.ip, got, tt.expected)
			}
		})
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://example.com/path", "example.com"},
		{"https://docs.example.com", "docs.example.com"},
		{"https://example.com:8080/path", "example.com"},
		{"invalid-url", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got := ExtractDomain(tt.url)
			if got != tt.expected {
				t.Errorf("ExtractDomain(%q) = %q, want %q", tt.url, got, tt.expected)
			}
		})
	}
}
