package dto_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	actionsDomain "github.com/allisson/actionserver/internal/actions/domain"
	"github.com/allisson/actionserver/internal/actions/http/dto"
)

func TestMapActionToResponse(t *testing.T) {
	action := actionsDomain.Action{
		Name:        "deploy",
		Description: "Deploy the application",
		Command:     []string{"/usr/local/bin/deploy.sh", "--env", "prod"},
		Timeout:     90 * time.Second,
	}

	response := dto.MapActionToResponse(action)

	assert.Equal(t, "deploy", response.Name)
	assert.Equal(t, "Deploy the application", response.Description)
	assert.Equal(t, 90, response.TimeoutSeconds)
}

func TestMapRunToResponse(t *testing.T) {
	t.Run("FinishedRun", func(t *testing.T) {
		now := time.Now().UTC()
		started := now.Add(10 * time.Millisecond)
		finished := started.Add(2 * time.Second)
		exitCode := 0
		run := &actionsDomain.Run{
			ID:         uuid.Must(uuid.NewV7()),
			ActionName: "deploy",
			Status:     actionsDomain.RunStatusSucceeded,
			ExitCode:   &exitCode,
			Output:     "deployed\n",
			CreatedAt:  now,
			StartedAt:  &started,
			FinishedAt: &finished,
		}

		response := dto.MapRunToResponse(run)

		assert.Equal(t, run.ID.String(), response.ID)
		assert.Equal(t, "deploy", response.ActionName)
		assert.Equal(t, "succeeded", response.Status)
		assert.Equal(t, &exitCode, response.ExitCode)
		assert.Equal(t, "deployed\n", response.Output)
		assert.Empty(t, response.Error)
		assert.Equal(t, now, response.CreatedAt)
		assert.Equal(t, &started, response.StartedAt)
		assert.Equal(t, &finished, response.FinishedAt)
	})

	t.Run("NeverStartedRun", func(t *testing.T) {
		run := &actionsDomain.Run{
			ID:         uuid.Must(uuid.NewV7()),
			ActionName: "deploy",
			Status:     actionsDomain.RunStatusFailed,
			Error:      "failed to start action process",
			CreatedAt:  time.Now().UTC(),
		}

		response := dto.MapRunToResponse(run)

		assert.Equal(t, "failed", response.Status)
		assert.Nil(t, response.ExitCode)
		assert.Nil(t, response.StartedAt)
		assert.Nil(t, response.FinishedAt)
		assert.Equal(t, "failed to start action process", response.Error)
	})
}
