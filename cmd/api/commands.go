package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jwalitptl/greenwell/internal/app"
	"github.com/jwalitptl/greenwell/internal/config"
	"github.com/jwalitptl/greenwell/internal/model"
	"github.com/jwalitptl/greenwell/internal/repository/static"
	"github.com/jwalitptl/greenwell/internal/service/booking"
	"github.com/jwalitptl/greenwell/pkg/logger"
)

// errInvalidForm makes the process exit 1 after the errors were printed.
var errInvalidForm = errors.New("form is not valid")

func newRootCmd() *cobra.Command {
	var configPath string

	serve := newServeCommand(&configPath)

	root := &cobra.Command{
		Use:   "greenwell",
		Short: "GreenWell medical cannabis telehealth site",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve.RunE(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a config file (default: search for config.yml)")

	root.AddCommand(serve)
	root.AddCommand(newValidateCommand())
	root.AddCommand(newCatalogCommand())
	return root
}

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), *configPath)
		},
	}
}

func serve(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logger.NewLogger(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	log.Install()

	site, err := app.New(ctx, cfg, log, app.Options{})
	if err != nil {
		return err
	}
	defer func() {
		if err := site.Close(); err != nil {
			log.Error(err, "failed to release resources")
		}
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      site.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "port", cfg.Server.Port, "session_driver", cfg.Session.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-quit:
	case <-ctx.Done():
	}
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server exited properly")
	return nil
}

func newValidateCommand() *cobra.Command {
	var (
		step int
		file string
		form model.BookingForm
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a booking form for a step and print the errors as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := model.Step(step)
			if !s.Valid() {
				return fmt.Errorf("step must be 1, 2 or 3, got %d", step)
			}

			in := model.BookingForm{}
			if file != "" {
				if err := readForm(cmd.InOrStdin(), file, &in); err != nil {
					return err
				}
			}
			overlayFlags(cmd, &in, form)

			errs := booking.Validate(in, s)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(errs); err != nil {
				return err
			}
			if !errs.Valid() {
				return errInvalidForm
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVarP(&step, "step", "s", int(model.StepDetails), "Step to validate (1-3)")
	f.StringVarP(&file, "file", "f", "", "JSON form to validate, or - for stdin")
	f.StringVar(&form.FullName, model.FieldFullName, "", "Full name")
	f.StringVar(&form.Email, model.FieldEmail, "", "Email address")
	f.StringVar(&form.Phone, model.FieldPhone, "", "Phone number")
	f.StringVar(&form.Condition, model.FieldCondition, "", "Condition or treatment goals")
	f.StringVar(&form.Date, model.FieldDate, "", "Preferred date")
	f.StringVar(&form.Time, model.FieldTime, "", "Preferred time")
	f.StringVar(&form.DoctorID, model.FieldDoctorID, "", "Clinician id")
	f.BoolVar(&form.Consent, model.FieldConsent, false, "Consent to telehealth treatment")
	return cmd
}

func readForm(stdin io.Reader, path string, form *model.BookingForm) error {
	r := stdin
	if path != "-" {
		fh, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open form: %w", err)
		}
		defer fh.Close()
		r = fh
	}
	if err := json.NewDecoder(r).Decode(form); err != nil {
		return fmt.Errorf("failed to parse form: %w", err)
	}
	return nil
}

// overlayFlags copies the field flags that were set explicitly over the file contents.
func overlayFlags(cmd *cobra.Command, dst *model.BookingForm, src model.BookingForm) {
	set := func(name string) bool { return cmd.Flags().Changed(name) }

	if set(model.FieldFullName) {
		dst.FullName = src.FullName
	}
	if set(model.FieldEmail) {
		dst.Email = src.Email
	}
	if set(model.FieldPhone) {
		dst.Phone = src.Phone
	}
	if set(model.FieldCondition) {
		dst.Condition = src.Condition
	}
	if set(model.FieldDate) {
		dst.Date = src.Date
	}
	if set(model.FieldTime) {
		dst.Time = src.Time
	}
	if set(model.FieldDoctorID) {
		dst.DoctorID = src.DoctorID
	}
	if set(model.FieldConsent) {
		dst.Consent = src.Consent
	}
}

func newCatalogCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the built-in clinicians, products and sample data as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := static.NewCatalog()
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(c.Document()); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
