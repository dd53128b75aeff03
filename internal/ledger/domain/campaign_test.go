package domain

import (
	"errors"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/giving.space/internal/errors"
)

func TestNormalizeCreateCampaignInputTrims(t *testing.T) {
	input := CreateCampaignInput{
		Name:        "  Clean Water  ",
		Description: " wells for the valley ",
		Goal:        5_000_000,
		Duration:    1000,
	}

	normalized, err := NormalizeCreateCampaignInput(input)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if normalized.Name != "Clean Water" {
		t.Fatalf("expected trimmed name, got %q", normalized.Name)
	}
	if normalized.Description != "wells for the valley" {
		t.Fatalf("expected trimmed description, got %q", normalized.Description)
	}
}

func TestNormalizeCreateCampaignInputValidation(t *testing.T) {
	tests := []struct {
		name  string
		input CreateCampaignInput
		code  apperrors.Code
	}{
		{
			name: "zero goal",
			input: CreateCampaignInput{
				Name: "Campaign",
				Goal: 0,
			},
			code: apperrors.CodeInvalidParameter,
		},
		{
			name: "name too long",
			input: CreateCampaignInput{
				Name: strings.Repeat("n", MaxNameLen+1),
				Goal: 1,
			},
			code: apperrors.CodeInvalidParameter,
		},
		{
			name: "description too long",
			input: CreateCampaignInput{
				Name:        "Campaign",
				Description: strings.Repeat("d", MaxDescriptionLen+1),
				Goal:        1,
			},
			code: apperrors.CodeInvalidParameter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeCreateCampaignInput(tt.input)
			if !apperrors.IsCode(err, tt.code) {
				t.Fatalf("expected code %s, got %v", tt.code, err)
			}
		})
	}
}

func TestCampaignExpired(t *testing.T) {
	campaign := Campaign{Deadline: 100}
	if campaign.Expired(100) {
		t.Fatal("campaign at its deadline height is not expired")
	}
	if !campaign.Expired(101) {
		t.Fatal("campaign past its deadline height is expired")
	}
}

func TestValidateDonationPercent(t *testing.T) {
	if err := ValidateDonationPercent(100); err != nil {
		t.Fatalf("100 is a valid percentage: %v", err)
	}
	err := ValidateDonationPercent(101)
	if !apperrors.IsCode(err, apperrors.CodeInvalidPercentage) {
		t.Fatalf("expected INVALID_PERCENTAGE, got %v", err)
	}
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Metadata["Percentage"] != "101" {
		t.Fatalf("expected percentage metadata, got %v", err)
	}
}
