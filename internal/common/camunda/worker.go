// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"

	"facility-chat/internal/common/config"
)

// JobHandler is implemented by every chat worker handler.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

// StartWorker opens a job worker for taskType. It returns nil when the worker
// is disabled in config.
func StartWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler JobHandler, log *zap.Logger) worker.JobWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return nil
	}

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(handler.Handle).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
	return jobWorker
}

// Workers closes every started job worker on shutdown.
type Workers []worker.JobWorker

func (ws *Workers) Add(w worker.JobWorker) {
	if w != nil {
		*ws = append(*ws, w)
	}
}

// Close stops polling and waits for in-flight jobs up to timeout.
func (ws Workers) Close(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		for _, w := range ws {
			w.Close()
			w.AwaitClose()
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
