package main

import (
	"net"
	"net/http"
	"os"
	"sync/atomic"
	"testing"
	"time"
)

func TestServeWaitsForInFlightRequests(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool

	server := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		finished.Store(true)
		w.WriteHeader(http.StatusCreated)
	})}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}

	stop := make(chan os.Signal, 1)
	served := make(chan error, 1)
	go func() {
		served <- serve(server, ln, stop, 5*time.Second)
	}()

	clientDone := make(chan int, 1)
	go func() {
		resp, err := http.Post("http://"+ln.Addr().String()+"/api/survey", "application/json", nil)
		if err != nil {
			clientDone <- 0
			return
		}
		resp.Body.Close()
		clientDone <- resp.StatusCode
	}()

	<-started
	stop <- os.Interrupt

	select {
	case err := <-served:
		t.Fatalf("serve returned while a request was in flight: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	close(release)

	select {
	case err := <-served:
		if err != nil {
			t.Fatalf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after the request finished")
	}

	if !finished.Load() {
		t.Error("Expected the in-flight request to finish before serve returned")
	}
	if code := <-clientDone; code != http.StatusCreated {
		t.Errorf("Expected the client to get 201, got %d", code)
	}
}

func TestServeReportsDrainTimeout(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)

	server := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
	})}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}

	stop := make(chan os.Signal, 1)
	served := make(chan error, 1)
	go func() {
		served <- serve(server, ln, stop, 50*time.Millisecond)
	}()

	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/")
		if err == nil {
			resp.Body.Close()
		}
	}()

	<-started
	stop <- os.Interrupt

	select {
	case err := <-served:
		if err == nil {
			t.Error("Expected a drain timeout error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after the drain timeout")
	}
}
