package domain

import (
	"strings"
	"testing"

	apperrors "github.com/louisbranch/giving.space/internal/errors"
)

func TestValidateAssetInput(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		category string
		wantErr  bool
	}{
		{name: "within bounds", uri: "ipfs://abc", category: "Art"},
		{name: "uri at limit", uri: strings.Repeat("u", MaxURILen), category: "Art"},
		{name: "uri too long", uri: strings.Repeat("u", MaxURILen+1), category: "Art", wantErr: true},
		{name: "category too long", uri: "ipfs://abc", category: strings.Repeat("c", MaxCategoryLen+1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAssetInput(tt.uri, tt.category)
			if tt.wantErr {
				if !apperrors.IsCode(err, apperrors.CodeInvalidParameter) {
					t.Fatalf("expected INVALID_PARAMETER, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestAssetListed(t *testing.T) {
	if (Asset{}).Listed() {
		t.Fatal("zero price means not listed")
	}
	if !(Asset{Price: 1}).Listed() {
		t.Fatal("positive price means listed")
	}
}
