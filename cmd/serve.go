package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	listenAddr string  // HTTP listen address
	frameMs    float64 // Wall-clock frame interval in milliseconds
	autoStart  bool    // Start ticking without waiting for a client
)

// serveCmd streams a live comparison over a websocket
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Advance both clinics in real time and stream snapshots over a websocket",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		arms, label, err := loadArms(cmd, baselineRooms, candidateRooms)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		run, err := newComparativeRun(arms)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if frameMs <= 0 {
			logrus.Fatalf("--frame-ms must be positive, got %f", frameMs)
		}

		live := NewLiveServer(run)
		if autoStart {
			live.apply(controlStart)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := &http.Server{Addr: listenAddr, Handler: live.Handler()}
		go live.Run(ctx, time.Duration(frameMs*float64(time.Millisecond)))
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		logrus.Infof("Serving %s on %s (ws: /ws, bootstrap: /bootstrap)", label, listenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("listen: %v", err)
		}
		logrus.Info("Server stopped.")
	},
}

func init() {
	registerClinicFlags(serveCmd)
	serveCmd.Flags().IntVar(&baselineRooms, "baseline-rooms", 1, "Nurse rooms of the standard clinic")
	serveCmd.Flags().IntVar(&candidateRooms, "candidate-rooms", 3, "Nurse rooms of the AI-augmented clinic")
	serveCmd.Flags().StringVar(&listenAddr, "addr", "127.0.0.1:8080", "HTTP listen address")
	serveCmd.Flags().Float64Var(&frameMs, "frame-ms", 1000.0/60.0, "Wall-clock frame interval in milliseconds")
	serveCmd.Flags().BoolVar(&autoStart, "autostart", false, "Start ticking immediately")

	rootCmd.AddCommand(serveCmd)
}
