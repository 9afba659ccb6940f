package security

import "testing"

func TestValidateImageURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "https", url: "https://example.com/ref.jpg", wantErr: false},
		{name: "http", url: "http://example.com/ref.jpg", wantErr: false},
		{name: "empty", url: "", wantErr: true},
		{name: "no scheme", url: "example.com/ref.jpg", wantErr: true},
		{name: "file scheme", url: "file:///etc/passwd", wantErr: true},
		{name: "ftp scheme", url: "ftp://example.com/ref.jpg", wantErr: true},
		{name: "localhost", url: "http://localhost/ref.jpg", wantErr: true},
		{name: "localhost subdomain", url: "http://internal.localhost/ref.jpg", wantErr: true},
		{name: "loopback v4", url: "http://127.0.0.1:8080/ref.jpg", wantErr: true},
		{name: "loopback v6", url: "http://[::1]/ref.jpg", wantErr: true},
		{name: "private 10", url: "http://10.0.0.5/ref.jpg", wantErr: true},
		{name: "private 172", url: "http://172.16.4.1/ref.jpg", wantErr: true},
		{name: "private 192", url: "http://192.168.1.20/ref.jpg", wantErr: true},
		{name: "link local", url: "http://169.254.169.254/latest/meta-data", wantErr: true},
		{name: "unspecified", url: "http://0.0.0.0/ref.jpg", wantErr: true},
		{name: "public ip", url: "http://93.184.216.34/ref.jpg", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateImageURL(tt.url); (err != nil) != tt.wantErr {
				t.Errorf("ValidateImageURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}
