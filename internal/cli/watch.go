package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/harun/jsonstudio/internal/observability"
	"github.com/harun/jsonstudio/pkg/filewatch"
	"github.com/harun/jsonstudio/pkg/jsonstats"
	"github.com/harun/jsonstudio/pkg/session"
	"github.com/spf13/cobra"
)

// watchDebounce is overridden by tests.
var watchDebounce = filewatch.DefaultDebounce

var watchCmd = &cobra.Command{
	Use:   "watch [FILE...]",
	Short: "Open files and follow the session until interrupted",
	Long: `Open each FILE in a new tab and keep the session open. When editor.watch_files
is enabled, tabs are marked modified as soon as their file changes on disk. The tab
list is printed after every change.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	watchCmd.Flags().Duration("for", 0, "stop after this long (0 runs until interrupted)")

	rootCmd.AddCommand(watchCmd)
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func runWatch(cmd *cobra.Command, args []string) error {
	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
	runFor, _ := cmd.Flags().GetDuration("for")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if runFor > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, runFor)
		defer cancel()
	}

	return withApp(func(a *app) error {
		log := a.componentLogger("watch")
		out := &syncWriter{w: cmd.OutOrStdout()}

		for _, f := range args {
			content, path, name, err := readFileTab(f)
			if err != nil {
				return err
			}
			tab, ok := a.store.AddTab(content, path, name)
			if !ok {
				return fmt.Errorf("cannot open %s: %d tabs already open", f, session.MaxTabs)
			}
			stats := jsonstats.ComputeStats(content)
			a.store.UpdateStats(tab.ID, &stats)
		}

		if a.cfg.Editor.WatchFiles {
			w, err := filewatch.New(a.store, a.log.GetZerolog(), filewatch.WithDebounce(watchDebounce))
			if err != nil {
				return err
			}
			defer w.Stop()
			defer w.Attach(a.store)()
			if err := w.Sync(a.store.State()); err != nil {
				log.Warn().Err(err).Msg("Some files cannot be watched")
			}
		}

		unsubscribe := a.store.Subscribe(session.EventStateChanged, func(payload interface{}) {
			if st, ok := payload.(session.State); ok {
				printTabs(out, st)
			}
		})
		defer unsubscribe()

		if metricsAddr != "" {
			srv := &http.Server{
				Addr:              metricsAddr,
				Handler:           observability.MetricsHandler(),
				ReadHeaderTimeout: 5 * time.Second,
			}
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error().Err(err).Msg("Metrics server failed")
				}
			}()
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()
			log.Info().Str("addr", metricsAddr).Msg("Serving metrics")
		}

		printTabs(out, a.store.State())
		<-ctx.Done()
		log.Info().Msg("Watch stopped")
		return nil
	})
}
