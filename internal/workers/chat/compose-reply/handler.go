// internal/workers/chat/compose-reply/handler.go
package composereply

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"facility-chat/internal/chat/compose"
	apperrors "facility-chat/internal/common/errors"
	"facility-chat/internal/common/logger"
	"facility-chat/internal/common/metrics"
	"facility-chat/internal/models"
)

const (
	TaskType = "compose-reply"
)

type Composer interface {
	Compose(intent models.IntentResult, data *models.DomainData) (*models.ComposedReply, bool)
	ConnectPrompt(domain models.DomainTag) *models.ComposedReply
	FetchFailed() *models.ComposedReply
}

type Handler struct {
	config     *Config
	composer   Composer
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, composer Composer, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		composer:   composer,
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
		h.errHandler.HandleJobError(ctx, client, job, err)
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

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input.Intent.NeedsData() && !input.Intent.Domain.Valid() {
		return nil, apperrors.NewInvalidDomainError(string(input.Intent.Domain))
	}

	if input.FetchError != "" {
		return newOutput(h.composer.FetchFailed(), true, false), nil
	}

	data := input.Data
	if !input.DataAvailable {
		data = nil
	}
	if reply, ok := h.composer.Compose(input.Intent, data); ok {
		return newOutput(reply, true, false), nil
	}
	return newOutput(h.composer.ConnectPrompt(input.Intent.Domain), false, true), nil
}

func newOutput(reply *models.ComposedReply, hasReply, requestCredentials bool) *Output {
	return &Output{
		Reply:              reply,
		HTML:               compose.RenderHTML(reply.Text),
		HasReply:           hasReply,
		RequestCredentials: requestCredentials,
	}
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
