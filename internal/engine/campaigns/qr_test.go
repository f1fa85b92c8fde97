package campaigns

import (
	"testing"
)

func TestGenerateInsertCardQR(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		size    int
		wantErr bool
	}{
		{
			name:    "Valid QR Code",
			url:     "https://shop.example.com/campaigns/42",
			size:    512,
			wantErr: false,
		},
		{
			name:    "Default Size",
			url:     "https://shop.example.com/campaigns/42",
			size:    0,
			wantErr: false,
		},
		{
			name:    "Size Too Small",
			url:     "https://shop.example.com/campaigns/42",
			size:    100,
			wantErr: true,
		},
		{
			name:    "Size Too Large",
			url:     "https://shop.example.com/campaigns/42",
			size:    5000,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateInsertCardQR(tt.url, tt.size)
			if (err != nil) != tt.wantErr {
				t.Errorf("GenerateInsertCardQR() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && len(got) == 0 {
				t.Errorf("GenerateInsertCardQR() returned empty bytes")
			}
		})
	}
}
