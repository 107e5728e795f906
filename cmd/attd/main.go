package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"github.com/prasannakumar9i/blockChain-Attedence-app-main/pkg/civildate"
	"github.com/prasannakumar9i/blockChain-Attedence-app-main/pkg/client"
)

// version is overridden at release time via -ldflags "-X main.version=...".
var version = "dev"

var (
	serverURL string
	cfgFile   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "attd",
	Short: "Attendance ledger CLI",
	Long: `attd is the command-line interface for the attendance ledger.

It records daily attendance entries on a fingerprint-linked chain, prints
the chain and its summary, and verifies that no stored record has been
tampered with.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(home + "/.attd")
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
		viper.SetEnvPrefix("attd")
		viper.AutomaticEnv()
		_ = viper.ReadInConfig()

		if serverURL == "" {
			serverURL = viper.GetString("server_url")
		}
		if serverURL == "" {
			serverURL = "http://localhost:8080"
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.attd/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "ledger server URL (default http://localhost:8080)")

	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(chainCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(secretHashCmd)
	rootCmd.AddCommand(versionCmd)
}

// ── record ───────────────────────────────────────────────────────────────────

var (
	recordSubject string
	recordStatus  string
	recordDate    string
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record one attendance entry on the chain",
	Long: `record appends a single attendance entry for a subject.

The date defaults to today. Each subject can have at most one entry per
calendar day; a repeat is rejected and the existing entry is shown.

  attd record --subject student-042
  attd record --subject student-042 --status absent --date 2026-03-02`,
	RunE: runRecord,
}

func init() {
	recordCmd.Flags().StringVar(&recordSubject, "subject", "", "Subject identifier (e.g. a student ID)")
	recordCmd.Flags().StringVar(&recordStatus, "status", "present", "Attendance status: present or absent")
	recordCmd.Flags().StringVar(&recordDate, "date", "", "Calendar date YYYY-MM-DD (default today)")

	_ = recordCmd.MarkFlagRequired("subject")
}

func runRecord(cmd *cobra.Command, args []string) error {
	date := recordDate
	if date == "" {
		date = civildate.Today().String()
	}
	if _, err := civildate.Parse(date); err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}

	c, err := client.New(serverURL)
	if err != nil {
		return err
	}

	rec, err := c.RecordAttendance(context.Background(), recordSubject, recordStatus, date)
	var dup *client.DuplicateError
	if errors.As(err, &dup) {
		fmt.Printf("Entry already on the chain:\n\n")
		fmt.Printf("  Index:       %d\n", dup.Existing.Index)
		fmt.Printf("  Subject:     %s\n", dup.Existing.Payload.SubjectID)
		fmt.Printf("  Status:      %s\n", dup.Existing.Payload.Status)
		fmt.Printf("  Date:        %s\n", dup.Existing.Payload.Date)
		fmt.Printf("  Fingerprint: %s\n\n", dup.Existing.Fingerprint)
		return fmt.Errorf("duplicate entry for %s on %s", recordSubject, date)
	}
	if err != nil {
		return fmt.Errorf("record attendance: %w", err)
	}

	fmt.Printf("✓ Attendance recorded\n\n")
	fmt.Printf("  Index:       %d\n", rec.Index)
	fmt.Printf("  Subject:     %s\n", rec.Payload.SubjectID)
	fmt.Printf("  Status:      %s\n", rec.Payload.Status)
	fmt.Printf("  Date:        %s\n", rec.Payload.Date)
	fmt.Printf("  Fingerprint: %s\n", rec.Fingerprint)
	return nil
}

// ── chain ────────────────────────────────────────────────────────────────────

var (
	chainFormat string
	chainLimit  int
)

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print the attendance chain",
	Long: `chain lists every record on the chain, oldest first, genesis included.

Use --limit to show only the most recent entries:

  attd chain --limit 10
  attd chain --format json`,
	RunE: runChain,
}

func init() {
	chainCmd.Flags().StringVar(&chainFormat, "format", "text", "Output format: text or json")
	chainCmd.Flags().IntVar(&chainLimit, "limit", 0, "Show only the N most recent records; 0 shows all")
}

func runChain(cmd *cobra.Command, args []string) error {
	c, err := client.New(serverURL)
	if err != nil {
		return err
	}

	records, err := c.GetChain(context.Background())
	if err != nil {
		return fmt.Errorf("fetch chain: %w", err)
	}

	if chainLimit > 0 && len(records) > chainLimit {
		records = records[len(records)-chainLimit:]
	}

	if chainFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tDATE\tSUBJECT\tSTATUS\tCREATED\tFINGERPRINT")
	for _, r := range records {
		date, status := r.Payload.Date, r.Payload.Status
		if r.Index == 0 {
			date, status = "-", "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.Index, date, r.Payload.SubjectID, status,
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			shortFingerprint(r.Fingerprint),
		)
	}
	return w.Flush()
}

// shortFingerprint truncates a fingerprint for table display.
func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}

// ── summary ──────────────────────────────────────────────────────────────────

var summaryFormat string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the aggregate attendance summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := client.New(serverURL)
		if err != nil {
			return err
		}

		s, err := c.GetSummary(context.Background())
		if err != nil {
			return fmt.Errorf("fetch summary: %w", err)
		}

		if summaryFormat == "json" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(s)
		}

		fmt.Printf("Total days:  %d\n", s.TotalDays)
		fmt.Printf("Present:     %d\n", s.PresentDays)
		fmt.Printf("Absent:      %d\n", s.AbsentDays)
		fmt.Printf("Attendance:  %.2f%%\n", s.AttendancePercentage)
		switch s.Eligibility {
		case "n/a":
			fmt.Println("Eligibility: n/a (no attendance recorded)")
		case "not_eligible":
			fmt.Println("Eligibility: not eligible")
		default:
			fmt.Printf("Eligibility: %s\n", s.Eligibility)
		}
		return nil
	},
}

func init() {
	summaryCmd.Flags().StringVar(&summaryFormat, "format", "text", "Output format: text or json")
}

// ── verify ───────────────────────────────────────────────────────────────────

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the integrity of the whole chain",
	Long: `verify recomputes every fingerprint and link on the server and reports
the first violation found, if any. The exit code is non-zero when the
chain has been tampered with.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := client.New(serverURL)
		if err != nil {
			return err
		}

		result, err := c.Verify(context.Background())
		if err != nil {
			return fmt.Errorf("verify chain: %w", err)
		}

		if result.Valid {
			fmt.Printf("✓ Chain intact (%d entries)\n", result.Entries)
			return nil
		}

		if result.Violation != nil {
			fmt.Printf("✗ Chain violated at index %d: %s\n",
				result.Violation.Index, result.Violation.Reason)
		}
		return errors.New("integrity check failed")
	},
}

// ── reset ────────────────────────────────────────────────────────────────────

var (
	resetSecret string
	resetForce  bool
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase the chain and start over from a fresh genesis record",
	Long: `reset wipes every attendance entry and reinitialises the chain.

The server requires an operator token when auth is configured; supply the
shared secret with --secret, the ATTD_OPERATOR_SECRET environment
variable, or the operator_secret key in ~/.attd/config.yaml.`,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().StringVar(&resetSecret, "secret", "", "Operator secret (overrides config and environment)")
	resetCmd.Flags().BoolVar(&resetForce, "force", false, "Skip confirmation prompt")
}

func runReset(cmd *cobra.Command, args []string) error {
	secret := resetSecret
	if secret == "" {
		secret = viper.GetString("operator_secret")
	}

	if !resetForce {
		fmt.Print("This erases the entire chain and cannot be undone. Continue? [y/N]: ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	opts := []client.Option{}
	if secret != "" {
		opts = append(opts, client.WithOperatorSecret(secret))
	}
	c, err := client.New(serverURL, opts...)
	if err != nil {
		return err
	}

	if err := c.Reset(context.Background()); err != nil {
		return fmt.Errorf("reset chain: %w", err)
	}

	fmt.Println("✓ Chain reset to a fresh genesis record")
	return nil
}

// ── secret-hash ──────────────────────────────────────────────────────────────

var secretHashCmd = &cobra.Command{
	Use:   "secret-hash [secret]",
	Short: "Generate the bcrypt hash of an operator secret",
	Long: `secret-hash prints the bcrypt hash the server expects in
auth.operator_secret_hash. Pass the secret as an argument or enter it at
the prompt.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var secret string
		if len(args) == 1 {
			secret = args[0]
		} else {
			fmt.Print("Operator secret: ")
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("read secret: %w", err)
			}
			secret = strings.TrimSpace(line)
		}
		if secret == "" {
			return errors.New("secret must not be empty")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash secret: %w", err)
		}
		fmt.Println(string(hash))
		return nil
	},
}

// ── version ──────────────────────────────────────────────────────────────────

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the attd CLI version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("attd %s (attendance ledger)\n", version)
	},
}
