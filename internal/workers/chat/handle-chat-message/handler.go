// internal/workers/chat/handle-chat-message/handler.go
package handlechatmessage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"facility-chat/internal/chat/orchestrator"
	apperrors "facility-chat/internal/common/errors"
	"facility-chat/internal/common/logger"
	"facility-chat/internal/common/metrics"
)

const (
	TaskType = "handle-chat-message"
)

// Handler runs the whole pipeline in one job. The connected flag comes from
// the process, not from the connection store.
type Handler struct {
	config     *Config
	orch       *orchestrator.Orchestrator
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, orch *orchestrator.Orchestrator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		orch:       orch,
		errHandler: apperrors.NewErrorHandler(log),
		logger:     log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.run(ctx, []byte(job.Variables))
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.CodeOf(err))).Inc()
		h.errHandler.HandleJobError(context.Background(), client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

func (h *Handler) run(ctx context.Context, variables []byte) (*Output, error) {
	if result := inputValidator.Validate(variables); !result.Valid {
		return nil, apperrors.NewInvalidInputError(result.Error())
	}
	var input Input
	if err := json.Unmarshal(variables, &input); err != nil {
		return nil, apperrors.NewInvalidInputError(err.Error())
	}
	return h.execute(ctx, &input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	session := orchestrator.NewSession(input.SessionID, input.Connected)

	reply, err := h.orch.HandleMessage(ctx, session, input.Message)
	if errors.Is(err, orchestrator.ErrEmptyMessage) {
		return nil, apperrors.NewEmptyMessageError()
	}
	if err != nil {
		return nil, err
	}

	out := reply.Response(input.SessionID)
	return &out, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
