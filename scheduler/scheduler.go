/*
 * MIT License
 *
 * Copyright (c) 2022-2025 The Orbit Authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package scheduler wraps go-quartz for the runtime's cross-actor, delayed
// work: supervisor restart backoff and the delayed stop of a cluster
// identity that moved to another member. It is deliberately not used for an actor's own
// receive-timeout timer, which stays a plain time.Timer owned by the
// actor's run loop so it never races with user message delivery.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reugn/go-quartz/job"
	quartzlogger "github.com/reugn/go-quartz/logger"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/atomic"

	"github.com/veyron-actor/orbit/errors"
	"github.com/veyron-actor/orbit/log"
)

// Scheduler runs one-shot and recurring functions at a future time.
type Scheduler struct {
	mu      sync.Mutex
	quartz  quartz.Scheduler
	started atomic.Bool
	logger  log.Logger
}

// New creates a Scheduler. Call Start before scheduling any work.
func New(logger log.Logger) *Scheduler {
	if logger == nil {
		logger = log.DiscardLogger
	}
	qs, _ := quartz.NewStdScheduler(quartz.WithLogger(quartzlogger.NewSimpleLogger(nil, quartzlogger.LevelOff)))
	return &Scheduler{quartz: qs, logger: logger}
}

// Start starts the underlying quartz scheduler.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Info("starting job scheduler...")
	s.quartz.Start(ctx)
	s.started.Store(s.quartz.IsStarted())
}

// Stop clears all pending jobs and stops the scheduler, waiting up to the
// context's deadline for in-flight jobs to finish.
func (s *Scheduler) Stop(ctx context.Context) {
	if !s.started.Load() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.quartz.Clear()
	s.quartz.Stop()
	s.started.Store(s.quartz.IsStarted())
	s.quartz.Wait(ctx)
	s.logger.Info("job scheduler stopped.")
}

// ScheduleOnce runs fn once, after delay.
func (s *Scheduler) ScheduleOnce(fn func(ctx context.Context) error, delay time.Duration) (key string, err error) {
	return s.schedule(fn, quartz.NewRunOnceTrigger(delay))
}

// ScheduleRepeating runs fn every interval, starting after the first interval
// elapses.
func (s *Scheduler) ScheduleRepeating(fn func(ctx context.Context) error, interval time.Duration) (key string, err error) {
	return s.schedule(fn, quartz.NewSimpleTrigger(interval))
}

// ScheduleCron runs fn on cronExpression's schedule, interpreted in the
// local time zone.
func (s *Scheduler) ScheduleCron(fn func(ctx context.Context) error, cronExpression string) (key string, err error) {
	trigger, err := quartz.NewCronTriggerWithLoc(cronExpression, time.Local)
	if err != nil {
		return "", fmt.Errorf("parse cron expression: %w", err)
	}
	return s.schedule(fn, trigger)
}

func (s *Scheduler) schedule(fn func(ctx context.Context) error, trigger quartz.Trigger) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started.Load() {
		return "", errors.ErrSchedulerNotStarted
	}

	j := job.NewFunctionJob(func(ctx context.Context) (bool, error) {
		err := fn(ctx)
		return err == nil, err
	})

	key := uuid.NewString()
	detail := quartz.NewJobDetail(j, quartz.NewJobKey(key))
	if err := s.quartz.ScheduleJob(detail, trigger); err != nil {
		return "", fmt.Errorf("schedule job: %w", err)
	}
	return key, nil
}

// Cancel removes a previously scheduled job by key. It is a no-op if the job
// already ran or was never scheduled.
func (s *Scheduler) Cancel(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quartz.DeleteJob(quartz.NewJobKey(key))
}
