package service

import (
	"testing"
	"time"

	"lms_progress_backend/internal/model"
	"lms_progress_backend/internal/util"

	"github.com/stretchr/testify/assert"
)

func TestValidateAttempt(t *testing.T) {
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	sub := &model.Subconcept{MaxScore: 100}

	tests := []struct {
		name    string
		req     SubmitAttemptRequest
		sub     *model.Subconcept
		wantErr error
	}{
		{
			name: "valid",
			req:  SubmitAttemptRequest{Score: 80, StartTime: base, EndTime: base.Add(time.Hour)},
			sub:  sub,
		},
		{
			name:    "negative score",
			req:     SubmitAttemptRequest{Score: -1},
			sub:     sub,
			wantErr: util.ErrScoreExceedsMax,
		},
		{
			name:    "score above max",
			req:     SubmitAttemptRequest{Score: 101},
			sub:     sub,
			wantErr: util.ErrScoreExceedsMax,
		},
		{
			name: "score at max",
			req:  SubmitAttemptRequest{Score: 100},
			sub:  sub,
		},
		{
			name: "unlimited when max score zero",
			req:  SubmitAttemptRequest{Score: 5000},
			sub:  &model.Subconcept{MaxScore: 0},
		},
		{
			name:    "end before start",
			req:     SubmitAttemptRequest{Score: 10, StartTime: base, EndTime: base.Add(-time.Minute)},
			sub:     sub,
			wantErr: util.ErrInvalidTimeRange,
		},
		{
			name: "zero times skip range check",
			req:  SubmitAttemptRequest{Score: 10},
			sub:  sub,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAttempt(&tt.req, tt.sub)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
