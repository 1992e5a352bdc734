package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func result(success bool) JobResult {
	now := time.Now()
	return JobResult{
		JobName:   "badge_refresh",
		StartTime: now,
		EndTime:   now.Add(time.Second),
		Duration:  time.Second,
		Success:   success,
	}
}

func TestJobHistory_AddResultBounded(t *testing.T) {
	h := &JobHistory{}

	for i := 0; i < 150; i++ {
		h.AddResult(result(true))
	}

	assert.Len(t, h.Results, 100)
}

func TestJobHistory_GetLatestResults(t *testing.T) {
	h := &JobHistory{}
	h.AddResult(result(true))
	h.AddResult(result(false))
	h.AddResult(result(true))

	latest := h.GetLatestResults(2)
	assert.Len(t, latest, 2)

	all := h.GetLatestResults(10)
	assert.Len(t, all, 3)

	none := (&JobHistory{}).GetLatestResults(5)
	assert.Empty(t, none)
}

func TestJobHistory_GetSuccessRate(t *testing.T) {
	h := &JobHistory{}
	assert.Equal(t, 0.0, h.GetSuccessRate())

	h.AddResult(result(true))
	h.AddResult(result(true))
	h.AddResult(result(false))
	h.AddResult(result(true))

	assert.InDelta(t, 0.75, h.GetSuccessRate(), 1e-9)
}
