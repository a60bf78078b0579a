package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jrsteele09/recruit-console/api"
	"github.com/jrsteele09/recruit-console/internal/config"
	"github.com/jrsteele09/recruit-console/internal/utils"
	"github.com/spf13/cobra"
)

var errAdminRequired = errors.New("this command requires the admin role")

func newRootCommand(loadConfig func() config.Config, stdout, stderr io.Writer) *cobra.Command {
	var (
		a           *app
		metricsAddr string
	)

	root := &cobra.Command{
		Use:           "recruit-console",
		Short:         "Command line console for the recruitment backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadConfig()
			if err := cfg.Validate(); err != nil {
				return err
			}
			if metricsAddr == "" {
				metricsAddr = cfg.GetMetricsAddr()
			}
			logger := newLogger(cfg, stderr)

			var err error
			a, err = newApp(cfg, logger, stderr, metricsAddr)
			return err
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a == nil {
				return nil
			}
			return a.Close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			displayAppname(stdout, a.cfg.GetAppName())
			return cmd.Help()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (overrides METRICS_ADDR)")

	appFn := func() *app { return a }
	root.AddCommand(
		newLoginCommand(appFn),
		newLogoutCommand(appFn),
		newWhoamiCommand(appFn),
		newPuestosCommand(appFn),
		newAreasCommand(appFn),
		newProcesosCommand(appFn),
		newPostulantesCommand(appFn),
		newUsuariosCommand(appFn),
		newEvaluacionesCommand(appFn),
	)
	return root
}

func newLoginCommand(appFn func() *app) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFn()
			if password == "" {
				var err error
				if password, err = readLine(cmd.InOrStdin()); err != nil {
					return fmt.Errorf("read password: %w", err)
				}
			}

			tok, err := a.service.Login(cmd.Context(), username, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			a.store.Login(tok.AccessToken, tok.RefreshToken)

			displayAppname(cmd.OutOrStdout(), a.cfg.GetAppName())
			if identity := a.store.Identity(); identity != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", identity.Username, identity.Role)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (read from stdin when empty)")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLogoutCommand(appFn func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(*cobra.Command, []string) error {
			appFn().store.Logout()
			return nil
		},
	}
}

func newWhoamiCommand(appFn func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in identity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			identity := appFn().store.Identity()
			if identity == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Username\t%s\n", identity.Username)
			fmt.Fprintf(w, "Role\t%s\n", identity.Role)
			fmt.Fprintf(w, "Admin\t%t\n", identity.IsAdmin())
			if identity.ExpiresAt != nil {
				state := "valid"
				if identity.Expired() {
					state = "expired, refreshed on next request"
				}
				fmt.Fprintf(w, "Expires\t%s (%s)\n", identity.ExpiresAt.Local().Format(time.RFC1123), state)
			}
			return w.Flush()
		},
	}
}

func newPuestosCommand(appFn func() *app) *cobra.Command {
	cmd := &cobra.Command{Use: "puestos", Short: "Job positions"}
	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List job positions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := appFn().service
			fetch := svc.ListPuestos
			if all {
				fetch = svc.ListAllPuestos
			}
			puestos, err := fetch(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tAREA\tACTIVE")
			for _, p := range puestos {
				fmt.Fprintf(w, "%d\t%s\t%d\t%t\n", p.ID, p.Name, p.AreaID, p.State)
			}
			return w.Flush()
		},
	}
	list.Flags().BoolVar(&all, "all", false, "include disabled positions")
	cmd.AddCommand(list)
	return cmd
}

func newAreasCommand(appFn func() *app) *cobra.Command {
	cmd := &cobra.Command{Use: "areas", Short: "Areas"}
	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List areas",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := appFn().service
			fetch := svc.ListAreas
			if all {
				fetch = svc.ListAllAreas
			}
			areas, err := fetch(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tACTIVE")
			for _, area := range areas {
				fmt.Fprintf(w, "%d\t%s\t%t\n", area.ID, area.Name, area.State)
			}
			return w.Flush()
		},
	}
	list.Flags().BoolVar(&all, "all", false, "include disabled areas")
	cmd.AddCommand(list)
	return cmd
}

func newProcesosCommand(appFn func() *app) *cobra.Command {
	cmd := &cobra.Command{Use: "procesos", Short: "CV charge processes"}
	var (
		jobID int
		state bool
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List charge processes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var filter api.ProcesoFilter
			if cmd.Flags().Changed("job-id") {
				filter.JobID = utils.Ptr(jobID)
			}
			if cmd.Flags().Changed("state") {
				filter.State = utils.Ptr(state)
			}

			procesos, err := appFn().service.ListProcesos(cmd.Context(), filter)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCODE\tJOB\tACTIVE\tAUTHOR\tCREATED")
			for _, p := range procesos {
				fmt.Fprintf(w, "%d\t%s\t%d\t%t\t%s\t%s\n", p.ID, p.Code, p.JobID, p.State, p.Autor, p.CreateDate)
			}
			return w.Flush()
		},
	}
	list.Flags().IntVar(&jobID, "job-id", 0, "only processes for this job position")
	list.Flags().BoolVar(&state, "state", true, "only active (true) or inactive (false) processes")
	cmd.AddCommand(list)
	return cmd
}

func newPostulantesCommand(appFn func() *app) *cobra.Command {
	cmd := &cobra.Command{Use: "postulantes", Short: "Applicants"}
	var q api.PostulanteQuery
	list := &cobra.Command{
		Use:   "list",
		Short: "List applicants",
		RunE: func(cmd *cobra.Command, _ []string) error {
			postulantes, err := appFn().service.ListPostulantes(cmd.Context(), q)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DNI\tNAME\tEMAIL\tPHONE")
			for _, p := range postulantes {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.DNI, p.Name, p.Email, p.Telf)
			}
			return w.Flush()
		},
	}
	list.Flags().StringVar(&q.Search, "search", "", "match name, DNI or email")
	list.Flags().IntVar(&q.Offset, "offset", 0, "first row")
	list.Flags().IntVar(&q.Limit, "limit", api.DefaultPageSize, "rows per page")
	cmd.AddCommand(list)
	return cmd
}

// newUsuariosCommand mirrors the admin-only route: non-admins are refused before any
// request is sent.
func newUsuariosCommand(appFn func() *app) *cobra.Command {
	cmd := &cobra.Command{Use: "usuarios", Short: "Console users (admin)"}
	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFn()
			if !a.store.Identity().IsAdmin() {
				return errAdminRequired
			}

			users, err := a.service.ListUsers(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tUSERNAME\tROLE\tACTIVE")
			for _, u := range users {
				fmt.Fprintf(w, "%d\t%s\t%s\t%t\n", u.ID, u.Username, u.Role, u.State)
			}
			return w.Flush()
		},
	}
	cmd.AddCommand(list)
	return cmd
}

func newEvaluacionesCommand(appFn func() *app) *cobra.Command {
	cmd := &cobra.Command{Use: "evaluaciones", Short: "CV evaluations"}
	var (
		filter             api.EvaluationFilter
		puestoID           int
		minMatch, maxMatch int
	)
	historial := &cobra.Command{
		Use:   "historial",
		Short: "Show the evaluation history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("puesto-id") {
				filter.PuestoID = utils.Ptr(puestoID)
			}
			if cmd.Flags().Changed("min-match") {
				filter.MinMatch = utils.Ptr(minMatch)
			}
			if cmd.Flags().Changed("max-match") {
				filter.MaxMatch = utils.Ptr(maxMatch)
			}

			page, err := appFn().service.EvaluationHistory(cmd.Context(), filter)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tNAME\tPOSITION\tMATCH\tPROCESS")
			for _, e := range page.Resultados {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%s\n", e.Fecha, e.Name, e.Puesto, e.Match, e.Proceso)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d\n", len(page.Resultados), page.Total)
			return nil
		},
	}
	flags := historial.Flags()
	flags.StringVar(&filter.Search, "search", "", "match applicant name")
	flags.IntVar(&puestoID, "puesto-id", 0, "only this job position")
	flags.StringVar(&filter.FechaDesde, "from", "", "from date (YYYY-MM-DD)")
	flags.StringVar(&filter.FechaHasta, "to", "", "to date (YYYY-MM-DD)")
	flags.IntVar(&minMatch, "min-match", 0, "minimum match score")
	flags.IntVar(&maxMatch, "max-match", 100, "maximum match score")
	flags.IntVar(&filter.Offset, "offset", 0, "first row")
	flags.IntVar(&filter.Limit, "limit", api.DefaultPageSize, "rows per page")
	cmd.AddCommand(historial)
	return cmd
}
