package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmerrifield20/NexusTrustSafety/internal/identity"
	"github.com/jmerrifield20/NexusTrustSafety/pkg/client"
)

// ── status ───────────────────────────────────────────────────────────────────

var statusCmd = &cobra.Command{
	Use:   "status [user-id]",
	Short: "Show a user's ban status (default: yourself)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID := "me"
		if len(args) == 1 {
			userID = args[0]
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		st, err := c.BanStatus(context.Background(), userID)
		if err != nil {
			return fmt.Errorf("ban status: %w", err)
		}
		if jsonOutput() {
			return printJSON(st)
		}
		switch {
		case !st.Banned:
			fmt.Printf("%s: not banned\n", st.UserID)
		case st.Permanent:
			fmt.Printf("%s: banned permanently (%s)\n", st.UserID, st.Reason)
		default:
			fmt.Printf("%s: banned until %s (%s)\n", st.UserID, st.Until.Format(time.RFC3339), st.Reason)
		}
		return nil
	},
}

// ── stats ────────────────────────────────────────────────────────────────────

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show moderation statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		s, err := c.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("stats: %w", err)
		}
		if jsonOutput() {
			return printJSON(s)
		}
		fmt.Printf("Active bans:     %d\n", s.ActiveBans)
		fmt.Printf("Hidden content:  %d\n\n", s.HiddenContent)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		printCounts(w, "REPORTS BY STATUS", s.ReportsByStatus)
		printCounts(w, "REPORTS BY REASON", s.ReportsByReason)
		printCounts(w, "REPORTS BY CONTENT TYPE", s.ReportsByContentType)
		printCounts(w, "ACTIONS (LAST "+s.RecentWindow+")", s.RecentActions)
		return w.Flush()
	},
}

func printCounts(w *tabwriter.Writer, title string, counts map[string]int) {
	fmt.Fprintf(w, "%s\t\n", title)
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s\t%d\n", k, counts[k])
	}
	fmt.Fprintln(w, "\t")
}

// ── ledger ───────────────────────────────────────────────────────────────────

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Show and verify the trust ledger",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		ctx := context.Background()
		ov, err := c.LedgerOverview(ctx)
		if err != nil {
			return fmt.Errorf("ledger: %w", err)
		}
		fmt.Printf("Entries: %d\n", ov.Entries)
		fmt.Printf("Root:    %s\n", ov.Root)
		if err := c.VerifyLedger(ctx); err != nil {
			return err
		}
		fmt.Println("✓ chain verified")
		return nil
	},
}

// ── token ────────────────────────────────────────────────────────────────────

var (
	tokenUser     string
	tokenUsername string
	tokenRole     string
	tokenTTL      time.Duration
	tokenSave     bool
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API token (requires identity_secret)",
	Long: `Issue a signed API token with the server's shared secret. Operators use
this to bootstrap moderator access; regular users get tokens from the
identity service.

  MODCTL_IDENTITY_SECRET=... modctl token --user 1f2e... --username maya --role moderator --save`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		secret := viper.GetString("identity_secret")
		if secret == "" {
			return fmt.Errorf("identity_secret is not configured (MODCTL_IDENTITY_SECRET)")
		}
		role := identity.Role(tokenRole)
		if !role.Valid() {
			return fmt.Errorf("unknown role %q", tokenRole)
		}
		issuerName := viper.GetString("identity_issuer")
		if issuerName == "" {
			issuerName = "moderation"
		}
		issuer, err := identity.NewTokenIssuer([]byte(secret), issuerName, tokenTTL)
		if err != nil {
			return err
		}
		tok, err := issuer.Issue(tokenUser, tokenUsername, role)
		if err != nil {
			return fmt.Errorf("issue token: %w", err)
		}

		if !tokenSave {
			fmt.Println(tok)
			return nil
		}
		path := viper.GetString("token_file")
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(tok+"\n"), 0o600); err != nil {
			return fmt.Errorf("write token: %w", err)
		}
		info, _ := client.InspectToken(tok)
		fmt.Printf("✓ token for %s (%s) saved to %s, expires %s\n",
			tokenUsername, role, path, info.ExpiresAt.Format(time.RFC3339))
		return nil
	},
}

func init() {
	f := tokenCmd.Flags()
	f.StringVar(&tokenUser, "user", "", "user id (required)")
	f.StringVar(&tokenUsername, "username", "", "username")
	f.StringVar(&tokenRole, "role", string(identity.RoleModerator), "user, moderator or admin")
	f.DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	f.BoolVar(&tokenSave, "save", false, "write the token to token_file instead of printing it")
	_ = tokenCmd.MarkFlagRequired("user")
}
