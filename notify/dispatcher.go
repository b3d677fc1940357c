// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/quickly-survey/auth"
	"github.com/danielhkuo/quickly-survey/metrics"
	"github.com/danielhkuo/quickly-survey/models"
)

// sendTimeout bounds a single delivery attempt
const sendTimeout = 30 * time.Second

// EmailRecorder stores the outcome of each delivery attempt
type EmailRecorder interface {
	AppendEmail(ctx context.Context, rec models.EmailRecord) error
}

// Result reports a dispatch. Queued is set when delivery continues in the background.
type Result struct {
	EmailID string
	Sent    bool
	Queued  bool
	Err     error
}

// Dispatcher sends notifications best-effort and records every attempt.
// Failures never propagate beyond Result.
type Dispatcher struct {
	notifier Notifier
	recorder EmailRecorder
	metrics  *metrics.Metrics
	async    bool

	wg sync.WaitGroup
}

func NewDispatcher(n Notifier, recorder EmailRecorder, m *metrics.Metrics, async bool) *Dispatcher {
	return &Dispatcher{notifier: n, recorder: recorder, metrics: m, async: async}
}

// Enabled reports whether a real notifier is configured
func (d *Dispatcher) Enabled() bool {
	_, disabled := d.notifier.(Disabled)
	return !disabled
}

// Dispatch delivers msg synchronously, or in the background when async
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) Result {
	emailID := auth.NewEmailID()

	if !d.async {
		return d.deliver(ctx, emailID, msg)
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		// The request may finish before delivery does
		bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
		defer cancel()
		d.deliver(bg, emailID, msg)
	}()

	return Result{EmailID: emailID, Queued: true}
}

// Send always delivers synchronously, for explicit resend requests
func (d *Dispatcher) Send(ctx context.Context, msg Message) Result {
	return d.deliver(ctx, auth.NewEmailID(), msg)
}

// Close waits for background deliveries to finish
func (d *Dispatcher) Close() {
	d.wg.Wait()
}

func (d *Dispatcher) deliver(ctx context.Context, emailID string, msg Message) Result {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	receipt, err := d.notifier.Send(ctx, msg)

	record := models.EmailRecord{
		ID:         emailID,
		Recipient:  msg.To,
		Subject:    msg.Subject,
		ResponseID: msg.ResponseID,
		SentAt:     receipt.SentAt,
		Status:     models.EmailStatusSent,
	}
	if err != nil {
		record.Status = models.EmailStatusFailed
		record.SentAt = time.Now()
		record.Error = err.Error()
		slog.Warn("notification failed", "email_id", emailID, "response_id", msg.ResponseID, "error", err)
	} else {
		slog.Info("notification sent", "email_id", emailID, "response_id", msg.ResponseID)
	}
	d.metrics.Notification(record.Status)

	if !errors.Is(err, ErrNotConfigured) && d.recorder != nil {
		if recErr := d.recorder.AppendEmail(context.WithoutCancel(ctx), record); recErr != nil {
			d.metrics.StoreError("append_email")
			slog.Error("failed to record email", "email_id", emailID, "error", recErr)
		}
	}

	return Result{EmailID: emailID, Sent: err == nil, Err: err}
}
