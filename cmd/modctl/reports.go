package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmerrifield20/NexusTrustSafety/pkg/client"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Work the report queue",
}

// ── reports list ─────────────────────────────────────────────────────────────

var reportsQuery client.ReportQuery

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reports, newest first",
	Long: `List reports with optional filters.

  modctl reports list --status pending
  modctl reports list --type comment --from 2025-01-01 --search scam`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		reports, err := c.ListReports(context.Background(), reportsQuery)
		if err != nil {
			return fmt.Errorf("list reports: %w", err)
		}
		if jsonOutput() {
			return printJSON(reports)
		}
		return printReports(reports)
	},
}

func printReports(reports []client.Report) error {
	if len(reports) == 0 {
		fmt.Println("no reports")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tSEVERITY\tREASON\tCONTENT\tREPORTED\tREPORTER\tCREATED")
	for _, r := range reports {
		fmt.Fprintf(w, "%s\t%s\t%s(%d)\t%s\t%s/%s\t%s\t%s\t%s\n",
			r.ID, r.Status, r.Severity, r.SeverityScore, r.Reason,
			r.ReportedContentType, r.ReportedContentID,
			r.ReportedUserName, r.ReporterName,
			r.CreatedAt.Format(time.DateTime))
	}
	return w.Flush()
}

// ── reports show ─────────────────────────────────────────────────────────────

var reportsShowCmd = &cobra.Command{
	Use:   "show <report-id>",
	Short: "Show one report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		r, err := c.GetReport(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("get report: %w", err)
		}
		if jsonOutput() {
			return printJSON(r)
		}
		fmt.Printf("ID:        %s\n", r.ID)
		fmt.Printf("Status:    %s\n", r.Status)
		fmt.Printf("Severity:  %s (%d)\n", r.Severity, r.SeverityScore)
		fmt.Printf("Reason:    %s\n", r.Reason)
		fmt.Printf("Content:   %s/%s (%d report(s))\n", r.ReportedContentType, r.ReportedContentID, r.ContentReports)
		fmt.Printf("Reported:  %s (%s)\n", r.ReportedUserName, r.ReportedUserID)
		fmt.Printf("Reporter:  %s (%s)\n", r.ReporterName, r.ReporterID)
		if r.Description != "" {
			fmt.Printf("Details:   %s\n", r.Description)
		}
		if r.ModeratorID != nil {
			fmt.Printf("Moderator: %s\n", *r.ModeratorID)
			fmt.Printf("Notes:     %s\n", r.ModeratorNotes)
		}
		return nil
	},
}

// ── reports resolve ──────────────────────────────────────────────────────────

var (
	resolveDismiss bool
	resolveNotes   string
)

var reportsResolveCmd = &cobra.Command{
	Use:   "resolve <report-id>",
	Short: "Close a report without an enforcement action",
	Long: `Resolve or dismiss a pending report. To act on the content or its author,
use 'modctl action --report <id>' instead; that closes the report too.

  modctl reports resolve 8b0c... --notes "duplicate of an earlier report"
  modctl reports resolve 8b0c... --dismiss --notes "not a violation"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		outcome := "resolved"
		if resolveDismiss {
			outcome = "dismissed"
		}
		r, err := c.ResolveReport(context.Background(), args[0], outcome, resolveNotes)
		if err != nil {
			if client.IsStatus(err, http.StatusConflict) {
				return fmt.Errorf("report %s was already resolved by another moderator", args[0])
			}
			return fmt.Errorf("resolve report: %w", err)
		}
		if jsonOutput() {
			return printJSON(r)
		}
		fmt.Printf("✓ report %s %s\n", r.ID, r.Status)
		return nil
	},
}

func init() {
	f := reportsListCmd.Flags()
	f.StringVar(&reportsQuery.Status, "status", "", "pending, resolved or dismissed")
	f.StringVar(&reportsQuery.ContentType, "type", "", "content type (post, comment, service, announcement, product, user)")
	f.StringVar(&reportsQuery.From, "from", "", "created at or after (RFC3339 or YYYY-MM-DD)")
	f.StringVar(&reportsQuery.To, "to", "", "created before (RFC3339 or YYYY-MM-DD, inclusive day)")
	f.StringVar(&reportsQuery.Search, "search", "", "free-text search over reason, description and usernames")
	f.IntVar(&reportsQuery.Limit, "limit", 50, "page size (max 200)")
	f.IntVar(&reportsQuery.Offset, "offset", 0, "page offset")

	reportsResolveCmd.Flags().BoolVar(&resolveDismiss, "dismiss", false, "dismiss instead of resolve")
	reportsResolveCmd.Flags().StringVar(&resolveNotes, "notes", "", "moderator notes")

	reportsCmd.AddCommand(reportsListCmd)
	reportsCmd.AddCommand(reportsShowCmd)
	reportsCmd.AddCommand(reportsResolveCmd)
}

// parseContentRef splits "kind/id" into its parts.
func parseContentRef(s string) (kind, id string, err error) {
	kind, id, ok := strings.Cut(s, "/")
	if !ok || kind == "" || id == "" {
		return "", "", fmt.Errorf("content must be kind/id, e.g. post/42: got %q", s)
	}
	return strings.ToLower(kind), id, nil
}
