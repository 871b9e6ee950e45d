// internal/workers/chat/query-facility-data/handler.go
package queryfacilitydata

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"facility-chat/internal/chat/gateway"
	apperrors "facility-chat/internal/common/errors"
	"facility-chat/internal/common/logger"
	"facility-chat/internal/common/metrics"
	"facility-chat/internal/models"
)

const (
	TaskType = "query-facility-data"
)

type Handler struct {
	config     *Config
	gateway    gateway.Gateway
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, gw gateway.Gateway, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		gateway:    gw,
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
	if !validDomain(input.Domain) {
		return nil, apperrors.NewInvalidDomainError(string(input.Domain))
	}

	opts := gateway.OptionsFor(models.IntentResult{Domain: input.Domain, TimeRange: input.TimeRange})
	data, err := h.gateway.Fetch(ctx, input.Domain, opts)
	if err == nil && data == nil {
		err = apperrors.NewDataSourceUnavailableError(string(input.Domain))
	}
	if err != nil {
		code := apperrors.CodeOf(err)
		h.logger.Warn("fetch failed", map[string]interface{}{
			"domain":    input.Domain,
			"errorCode": code,
			"error":     err.Error(),
		})
		return &Output{DataAvailable: false, FetchError: string(code)}, nil
	}

	return &Output{DataAvailable: true, Data: data}, nil
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
