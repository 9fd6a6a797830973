package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmerrifield20/NexusTrustSafety/pkg/client"
)

// ── action ───────────────────────────────────────────────────────────────────

var (
	actReport   string
	actContent  string
	actUser     string
	actReason   string
	actNotes    string
	actHours    int
	actWarnType string
)

var actionCmd = &cobra.Command{
	Use:   "action <hide|delete|restore|ban_user|warn_user>",
	Short: "Dispatch a moderation action",
	Long: `Dispatch a moderation action. With --report the target defaults to the
reported content and user, and the report is closed in the same step.

  modctl action hide --report 8b0c... --reason spam
  modctl action restore --content post/42 --reason "appeal upheld"
  modctl action ban_user --user 1f2e... --reason harassment --hours 72`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"hide", "delete", "restore", "ban_user", "warn_user"},
	RunE: func(cmd *cobra.Command, args []string) error {
		req := client.ActionRequest{
			ReportID:     actReport,
			TargetUserID: actUser,
			ActionType:   args[0],
			Reason:       actReason,
			Notes:        actNotes,
			WarningType:  actWarnType,
		}
		if actContent != "" {
			kind, id, err := parseContentRef(actContent)
			if err != nil {
				return err
			}
			req.TargetContentType, req.TargetContentID = kind, id
		}
		if cmd.Flags().Changed("hours") {
			req.DurationHours = &actHours
		}
		return dispatch(req)
	},
}

func dispatch(req client.ActionRequest) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	a, err := c.Dispatch(context.Background(), req)
	if err != nil {
		if client.IsRetryable(err) {
			return fmt.Errorf("%w (nothing was applied; safe to retry)", err)
		}
		return fmt.Errorf("dispatch %s: %w", req.ActionType, err)
	}
	if jsonOutput() {
		return printJSON(a)
	}
	fmt.Printf("✓ %s recorded as action %s\n", a.ActionType, a.ID)
	if a.TargetUserID != "" {
		fmt.Printf("  user:    %s\n", a.TargetUserID)
	}
	if a.TargetContentType != nil && a.TargetContentID != nil {
		fmt.Printf("  content: %s/%s\n", *a.TargetContentType, *a.TargetContentID)
	}
	if a.DurationHours != nil {
		fmt.Printf("  until:   %s\n", a.CreatedAt.Add(time.Duration(*a.DurationHours)*time.Hour).Format(time.RFC3339))
	}
	return nil
}

// ── ban / unban ──────────────────────────────────────────────────────────────

var (
	banReason string
	banHours  int
)

var banCmd = &cobra.Command{
	Use:   "ban <user-id>",
	Short: "Ban a user (permanently unless --hours is given)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := client.ActionRequest{TargetUserID: args[0], ActionType: "ban_user", Reason: banReason}
		if cmd.Flags().Changed("hours") {
			req.DurationHours = &banHours
		}
		return dispatch(req)
	},
}

var unbanCmd = &cobra.Command{
	Use:   "unban <user-id>",
	Short: "Lift a user's ban",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		was, err := c.Unban(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("unban: %w", err)
		}
		if was {
			fmt.Printf("✓ %s unbanned\n", args[0])
		} else {
			fmt.Printf("%s was not banned\n", args[0])
		}
		return nil
	},
}

// ── warn ─────────────────────────────────────────────────────────────────────

var (
	warnType    string
	warnMessage string
	warnReason  string
)

var warnCmd = &cobra.Command{
	Use:   "warn <user-id>",
	Short: "Send a warning to a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		w, err := c.SendWarning(context.Background(), client.WarningRequest{
			UserID:      args[0],
			WarningType: warnType,
			Message:     warnMessage,
			Reason:      warnReason,
		})
		if err != nil {
			return fmt.Errorf("send warning: %w", err)
		}
		if jsonOutput() {
			return printJSON(w)
		}
		fmt.Printf("✓ %s warning %s sent to %s\n", w.WarningType, w.ID, w.UserID)
		return nil
	},
}

func init() {
	f := actionCmd.Flags()
	f.StringVar(&actReport, "report", "", "report id to act on and close")
	f.StringVar(&actContent, "content", "", "target content as kind/id")
	f.StringVar(&actUser, "user", "", "target user id")
	f.StringVar(&actReason, "reason", "", "reason (required)")
	f.StringVar(&actNotes, "notes", "", "moderator notes")
	f.IntVar(&actHours, "hours", 0, "ban duration in hours (ban_user only; omit for permanent)")
	f.StringVar(&actWarnType, "warning-type", "", "general, final_warning or notice (warn_user only)")

	banCmd.Flags().StringVar(&banReason, "reason", "", "reason (required)")
	banCmd.Flags().IntVar(&banHours, "hours", 0, "ban duration in hours; omit for permanent")
	_ = banCmd.MarkFlagRequired("reason")

	warnCmd.Flags().StringVar(&warnType, "type", "", "general, final_warning or notice")
	warnCmd.Flags().StringVar(&warnMessage, "message", "", "message shown to the user")
	warnCmd.Flags().StringVar(&warnReason, "reason", "", "reason recorded in the action log")
}
