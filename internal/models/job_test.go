package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobStatusNext(t *testing.T) {
	tests := []struct {
		from    JobStatus
		action  JobAction
		want    JobStatus
		wantErr bool
	}{
		{JobDraft, JobPublish, JobActive, false},
		{JobDraft, JobClose, JobClosed, false},
		{JobActive, JobPublish, JobActive, false},
		{JobActive, JobClose, JobClosed, false},
		{JobClosed, JobClose, JobClosed, false},
		{JobClosed, JobPublish, JobClosed, true},
		{JobSyncing, JobPublish, JobActive, false},
		{JobError, JobClose, JobClosed, false},
		{"", JobPublish, JobActive, false},
		{JobDraft, "archive", JobDraft, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.action), func(t *testing.T) {
			got, err := tt.from.Next(tt.action)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidTransition))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJobStatusEditable(t *testing.T) {
	assert.True(t, JobDraft.Editable())
	assert.True(t, JobSyncing.Editable())
	assert.False(t, JobActive.Editable())
	assert.False(t, JobClosed.Editable())
}

func TestJobStatusValid(t *testing.T) {
	assert.True(t, JobActive.Valid())
	assert.True(t, JobError.Valid())
	assert.False(t, JobStatus("archived").Valid())
}
