// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/notify"
	"github.com/danielhkuo/quickly-survey/store"
)

var errBroken = errors.New("disk on fire")

// brokenStore fails every write and read
type brokenStore struct {
	store.Store
}

func (brokenStore) Append(ctx context.Context, rec models.SurveyResponse) (int, error) {
	return 0, errBroken
}

func (brokenStore) List(ctx context.Context) ([]models.SurveyResponse, error) {
	return nil, errBroken
}

func (brokenStore) Count(ctx context.Context) (int, error) {
	return 0, errBroken
}

func (brokenStore) Clear(ctx context.Context) (int, error) {
	return 0, errBroken
}

// fakeNotifier records messages and optionally fails
type fakeNotifier struct {
	mu   sync.Mutex
	sent []notify.Message
	err  error
}

func (f *fakeNotifier) Send(ctx context.Context, msg notify.Message) (notify.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return notify.Receipt{}, f.err
	}
	f.sent = append(f.sent, msg)
	return notify.Receipt{SentAt: time.Now()}, nil
}

func (f *fakeNotifier) messages() []notify.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notify.Message(nil), f.sent...)
}

func intPtr(v int) *int {
	return &v
}
