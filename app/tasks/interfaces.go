package tasks

import "github.com/lysyi3m/rss-ticker/app/ticker"

// TaskSchedulerInterface defines the interface for task scheduling operations.
// It doubles as the widget cycle dispatcher.
// Example usage:
//
//	scheduler := NewScheduler(workerCount, queueSize)
//	scheduler.Start()
//	defer scheduler.Stop()
//	widget := ticker.NewWidget(name, kind, pipeline, scheduler)
type TaskSchedulerInterface interface {
	ticker.Dispatcher
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	QueueLength() int
}
