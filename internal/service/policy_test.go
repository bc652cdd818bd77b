package service

import (
	"testing"

	"github.com/lshigami/Surikat/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestShouldAutoBlock(t *testing.T) {
	tests := []struct {
		name  string
		cfg   *model.IntegrityConfig
		count int
		want  bool
	}{
		{name: "nil config never blocks", cfg: nil, count: 100, want: false},
		{
			name:  "detection disabled never blocks",
			cfg:   &model.IntegrityConfig{CheatDetectionEnabled: false, ViolationThreshold: 3},
			count: 10,
			want:  false,
		},
		{
			name:  "below threshold",
			cfg:   &model.IntegrityConfig{CheatDetectionEnabled: true, ViolationThreshold: 3},
			count: 2,
			want:  false,
		},
		{
			name:  "at threshold",
			cfg:   &model.IntegrityConfig{CheatDetectionEnabled: true, ViolationThreshold: 3},
			count: 3,
			want:  true,
		},
		{
			name:  "above threshold",
			cfg:   &model.IntegrityConfig{CheatDetectionEnabled: true, ViolationThreshold: 3},
			count: 7,
			want:  true,
		},
		{
			name:  "zero threshold falls back to default",
			cfg:   &model.IntegrityConfig{CheatDetectionEnabled: true, ViolationThreshold: 0},
			count: model.DefaultViolationThreshold,
			want:  true,
		},
		{
			name:  "override above default",
			cfg:   &model.IntegrityConfig{CheatDetectionEnabled: true, ViolationThreshold: 5},
			count: 4,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldAutoBlock(tt.cfg, tt.count))
		})
	}
}
