// internal/workers/chat/classify-intent/handler.go
package classifyintent

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "facility-chat/internal/common/errors"
	"facility-chat/internal/common/logger"
	"facility-chat/internal/common/metrics"
	"facility-chat/internal/models"
)

const (
	TaskType = "classify-intent"
)

type Classifier interface {
	Classify(text string) models.IntentResult
}

type Handler struct {
	config     *Config
	classifier Classifier
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, classifier Classifier, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		classifier: classifier,
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
	text := strings.TrimSpace(input.Message)
	if text == "" {
		return nil, apperrors.NewEmptyMessageError()
	}

	result := h.classifier.Classify(text)
	if result.Intent == models.IntentUnknown && h.config.FlagUnmatched {
		return nil, apperrors.NewClassificationAmbiguousError(text)
	}

	h.logger.Debug("message classified", map[string]interface{}{
		"intent": result.Intent,
		"domain": result.Domain,
	})
	return &Output{Intent: result, NeedsData: result.NeedsData()}, nil
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
