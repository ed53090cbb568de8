package factors

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler periodically refreshes the variation factor list on a cron
// schedule, adapted from the original data fetcher service's scheduled-job
// pattern. Cooldown/circuit-breaking still happens inside Client.Fetch, so
// a too-frequent schedule simply degrades to no-ops rather than hammering
// the endpoint.
type Scheduler struct {
	client  *Client
	cron    *cron.Cron
	logger  *logrus.Logger
	onFetch func(*Result)
}

// NewScheduler builds a Scheduler; the schedule itself is given to Start.
func NewScheduler(client *Client, logger *logrus.Logger, onFetch func(*Result)) *Scheduler {
	return &Scheduler{
		client:  client,
		cron:    cron.New(),
		logger:  logger,
		onFetch: onFetch,
	}
}

// Start schedules periodic fetches and begins running them. spec is a
// standard 5-field cron expression or a descriptor such as "@every 5m".
// It returns an error only if the schedule expression itself is invalid.
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		result, err := s.client.Fetch(context.Background())
		if err != nil {
			s.logger.WithError(err).Debug("scheduled variation factor refresh skipped")
			return
		}
		if s.onFetch != nil {
			s.onFetch(result)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the schedule and waits for any in-flight job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
