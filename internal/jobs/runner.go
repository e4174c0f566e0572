package jobs

import (
	"fmt"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	cron "github.com/robfig/cron"
	"github.com/sirupsen/logrus"
)

type Job interface {
	Name() string
	Run()
}

type CronJob interface {
	Schedule() string
	Job
}

// TaskExecutor runs cron jobs, skipping a tick while the previous run of the same job is
// still in progress.
type TaskExecutor struct {
	cron            *cron.Cron
	cronJobs        []CronJob
	runningCronJobs mapset.Set[string]
	muCronJobs      sync.Mutex
	wg              sync.WaitGroup
}

func NewTaskExecutor(cronJobs []CronJob) *TaskExecutor {
	return &TaskExecutor{
		cron:            cron.New(),
		cronJobs:        cronJobs,
		runningCronJobs: mapset.NewThreadUnsafeSet[string](),
	}
}

// Run schedules every job and starts the cron. Each run happens in its own goroutine.
func (t *TaskExecutor) Run() error {
	for _, job := range t.cronJobs {
		job := job
		err := t.cron.AddFunc(job.Schedule(), func() {
			t.execute(job)
		})
		if err != nil {
			return fmt.Errorf("schedule %s (%q): %w", job.Name(), job.Schedule(), err)
		}
		logrus.Infof("scheduled job %s: %s", job.Name(), job.Schedule())
	}

	t.cron.Start()
	return nil
}

func (t *TaskExecutor) execute(job CronJob) {
	if !t.acquire(job.Name()) {
		logrus.Warnf("job %s is still running, skipping", job.Name())
		return
	}
	t.wg.Add(1)
	defer func() {
		t.release(job.Name())
		t.wg.Done()
	}()

	job.Run()
}

func (t *TaskExecutor) acquire(name string) bool {
	t.muCronJobs.Lock()
	defer t.muCronJobs.Unlock()

	if t.runningCronJobs.Contains(name) {
		return false
	}
	t.runningCronJobs.Add(name)
	return true
}

func (t *TaskExecutor) release(name string) {
	t.muCronJobs.Lock()
	defer t.muCronJobs.Unlock()
	t.runningCronJobs.Remove(name)
}

// Stop stops scheduling and waits for the runs in progress.
func (t *TaskExecutor) Stop() {
	logrus.Infof("stopping all tasks")
	t.cron.Stop()
	t.wg.Wait()
}
