package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-survey/cliparse"
	"github.com/danielhkuo/quickly-survey/metrics"
	"github.com/danielhkuo/quickly-survey/notify"
	"github.com/danielhkuo/quickly-survey/questionnaire"
	"github.com/danielhkuo/quickly-survey/router"
	"github.com/danielhkuo/quickly-survey/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Open response store
	st, err := store.Open(cfg)
	if err != nil {
		slog.Error("store open failed", "store", cfg.StoreType, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	count, err := st.Count(context.Background())
	if err != nil {
		slog.Error("store read failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Store ready", "store", cfg.StoreType, "responses", humanize.Comma(int64(count)))

	// Question set for server-side scoring
	def := questionnaire.Default()
	if cfg.QuestionsFile != "" {
		def, err = questionnaire.Load(cfg.QuestionsFile)
		if err != nil {
			slog.Error("question set load failed", "file", cfg.QuestionsFile, "error", err)
			os.Exit(1)
		}
	}

	m := metrics.New()

	dispatcher := notify.NewDispatcher(notify.New(cfg), st, m, cfg.NotifyAsync)
	defer dispatcher.Close()
	if !dispatcher.Enabled() {
		slog.Info("Email notifications disabled: SMTP_HOST or MAIL_FROM not set")
	}

	// Create router
	handler := router.NewRouter(router.Deps{
		Store:      st,
		Config:     cfg,
		Questions:  def.Questions,
		Dispatcher: dispatcher,
		Metrics:    m,
	})

	// Create server
	server := http.Server{
		Handler:           handler,
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		slog.Error("listen failed", "addr", server.Addr, "error", err)
		return
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)

	// Start server
	slog.Info("Listening", "port", cfg.Port, "questions", len(def.Questions))
	if err := serve(&server, ln, ctrlc, shutdownTimeout); err != nil {
		slog.Error("Server closed", "error", err)
		return
	}
	slog.Info("Server closed")
}

// serve runs server on ln until stop fires, then shuts it down. It returns
// only after Shutdown has drained in-flight requests or timed out, so the
// caller's deferred closes never race a running handler.
func serve(server *http.Server, ln net.Listener, stop <-chan os.Signal, timeout time.Duration) error {
	shutdownDone := make(chan error, 1)
	go func() {
		// Wait for Ctrl-C signal, then let in-flight requests finish
		<-stop
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		shutdownDone <- server.Shutdown(ctx)
	}()

	err := server.Serve(ln)
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	// Serve returns as soon as Shutdown starts
	if err := <-shutdownDone; err != nil {
		return fmt.Errorf("shutdown did not drain all requests: %w", err)
	}
	return nil
}
