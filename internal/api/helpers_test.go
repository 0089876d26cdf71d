package api

import (
	"net/http/httptest"
	"testing"

	"donations/internal/models"
)

func TestValidTxHash(t *testing.T) {
	tests := []struct {
		name     string
		hash     string
		expected bool
	}{
		{"valid upper", "21B55540F40F6CC16DE1D0AE1C0F03C2328F07EFA38D715E6E7E0CDF0DDDDE6F", true},
		{"valid lower", "21b55540f40f6cc16de1d0ae1c0f03c2328f07efa38d715e6e7e0cdf0dddde6f", true},
		{"too short", "21b55540", false},
		{"empty", "", false},
		{"non-hex", "z1B55540F40F6CC16DE1D0AE1C0F03C2328F07EFA38D715E6E7E0CDF0DDDDE6F", false},
		{"0x prefixed", "0x21B55540F40F6CC16DE1D0AE1C0F03C2328F07EFA38D715E6E7E0CDF0DDDD", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validTxHash(tt.hash); got != tt.expected {
				t.Errorf("validTxHash(%q) = %v, expected %v", tt.hash, got, tt.expected)
			}
		})
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "/receipts", 50, 0},
		{"explicit", "/receipts?limit=10&offset=20", 10, 20},
		{"over cap", "/receipts?limit=1000", 50, 0},
		{"negative offset", "/receipts?offset=-5", 50, 0},
		{"garbage", "/receipts?limit=abc&offset=xyz", 50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			limit, offset := parsePagination(r)
			if limit != tt.wantLimit || offset != tt.wantOffset {
				t.Errorf("parsePagination(%q) = (%d, %d), expected (%d, %d)",
					tt.url, limit, offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestBuildDonorRows_ViewerMatchCaseInsensitive(t *testing.T) {
	donors := []models.Donor{
		{Address: "0xABC1000000000000000000000000000000000001", Amount: "5.0", Rank: 1},
		{Address: "0xdef2000000000000000000000000000000000002", Amount: "3.0", Rank: 2},
	}

	rows := buildDonorRows(donors, "0xabc1000000000000000000000000000000000001")

	if !rows[0].IsViewer {
		t.Error("Expected case-insensitive viewer match on row 0")
	}
	if rows[1].IsViewer {
		t.Error("Row 1 must not match the viewer")
	}
	if rows[0].Rank != 1 || rows[1].Rank != 2 {
		t.Error("Ranks must pass through unchanged")
	}
}
