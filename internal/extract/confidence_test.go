package extract

import "testing"

func TestScoreConfidence(t *testing.T) {
	tests := []struct {
		name     string
		data     ReceiptData
		fileType string
		want     int
	}{
		{
			name:     "everything present on a pdf clamps at the ceiling",
			data:     ReceiptData{Vendor: "Acme", TotalAmount: 10, Date: "2024-03-15"},
			fileType: "application/pdf",
			want:     95,
		},
		{
			name:     "everything present on a photo clamps at the ceiling",
			data:     ReceiptData{Vendor: "Acme", TotalAmount: 10, Date: "2024-03-15"},
			fileType: "image/jpeg",
			want:     95,
		},
		{
			name:     "bare extraction from a photo stays at base",
			data:     ReceiptData{Vendor: "unknown", TotalAmount: 0, Date: "15/03/2024"},
			fileType: "image/jpeg",
			want:     85,
		},
		{
			name:     "placeholder vendor earns nothing",
			data:     ReceiptData{Vendor: "  N/A ", TotalAmount: 12.5, Date: "2024-03-15"},
			fileType: "image/png",
			want:     95,
		},
		{
			name:     "vendor only",
			data:     ReceiptData{Vendor: "Acme"},
			fileType: "image/jpeg",
			want:     90,
		},
		{
			name:     "pdf bonus on a bare extraction",
			data:     ReceiptData{Vendor: "unknown"},
			fileType: "application/pdf",
			want:     95,
		},
		{
			name:     "date must be strictly ISO prefixed",
			data:     ReceiptData{Vendor: "Acme", Date: "March 15, 2024"},
			fileType: "image/jpeg",
			want:     90,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreConfidence(tt.data, tt.fileType)
			if got != tt.want {
				t.Errorf("score: got %d, want %d", got, tt.want)
			}
			if got < 70 || got > 95 {
				t.Errorf("score %d outside [70,95]", got)
			}
			// deterministic: same inputs, same score
			if again := ScoreConfidence(tt.data, tt.fileType); again != got {
				t.Errorf("score not reproducible: %d then %d", got, again)
			}
		})
	}
}
