package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/Zachkp/folio/internal/choreo"
	"github.com/Zachkp/folio/internal/config"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/mail"
	"github.com/Zachkp/folio/internal/store"
)

const visitorPurgeInterval = 24 * time.Hour

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "folio",
		Short:         "Portfolio site server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the web server",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or upgrade the database and seed the guestbook",
			RunE:  runMigrate,
		},
		framesCmd(),
	)
	return root
}

func openStore(cfg *config.Config) (*store.DB, error) {
	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	if err := db.SeedGuestbook(context.Background(), time.Now()); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	fmt.Fprintf(cmd.OutOrStdout(), "database ready at %s\n", db.Path())
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	gin.SetMode(cfg.GinMode)

	catalog, err := content.Load()
	if err != nil {
		return err
	}
	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.SMTPUser == "" || cfg.SMTPPass == "" {
		log.Println("WARNING: SMTP credentials not set, contact submissions will fail.")
	}
	if cfg.DefaultAdmin() && gin.Mode() == gin.DebugMode {
		log.Println("WARNING: Using default admin credentials. Set ADMIN_USERNAME and ADMIN_PASSWORD.")
	}

	sender := &mail.SMTPSender{Host: cfg.SMTPHost, Port: cfg.SMTPPort, User: cfg.SMTPUser, Pass: cfg.SMTPPass}
	s := newServer(cfg, db, catalog, sender)
	r, err := s.router()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go s.purgeVisitorData(ctx, visitorPurgeInterval)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	errc := make(chan error, 1)
	go func() {
		log.Printf("Listening on :%s", cfg.Port)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func framesCmd() *cobra.Command {
	var (
		width   float64
		samples int
	)
	cmd := &cobra.Command{
		Use:   "frames",
		Short: "Print the process stack's card states across its scroll range",
		RunE: func(cmd *cobra.Command, args []string) error {
			if samples < 2 {
				return fmt.Errorf("samples must be at least 2")
			}
			catalog, err := content.Load()
			if err != nil {
				return err
			}
			v := choreo.VariantFor(width)
			steps := len(catalog.Process)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "progress\tfront")
			for i := 0; i < steps; i++ {
				fmt.Fprintf(w, "\tcard %d", i)
			}
			fmt.Fprintln(w, "\tfinal")
			for i := 0; i < samples; i++ {
				p := float64(i) / float64(samples-1)
				cards := choreo.SampleStack(steps, choreo.DefaultOverlap, v, p)
				fmt.Fprintf(w, "%.3f\t%d", p, choreo.Front(cards))
				for _, c := range cards {
					fmt.Fprintf(w, "\t%.2f", c.Opacity)
				}
				fmt.Fprintln(w)
			}
			return w.Flush()
		},
	}
	cmd.Flags().Float64Var(&width, "width", 1280, "viewport width in px")
	cmd.Flags().IntVar(&samples, "samples", 21, "number of progress samples")
	return cmd
}
