package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	policyCmd := &cobra.Command{Use: "policy", Short: "Policy operations"}

	// init
	var authority string
	var rate, minStake, maxStake, daily, total uint64
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the ledger policy (one-time)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if authority == "" {
				return fmt.Errorf("--authority required")
			}
			payload := map[string]interface{}{
				"authority":      authority,
				"decayRateBps":   rate,
				"minStake":       minStake,
				"maxStake":       maxStake,
				"dailyUserLimit": daily,
				"totalUserLimit": total,
			}
			out, err := checkResp(newClient(apiFlag, "").R().SetBody(payload).Post("/api/policy"))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, out)
			return nil
		},
	}
	initCmd.Flags().StringVar(&authority, "authority", "", "Authority address (required)")
	initCmd.Flags().Uint64Var(&rate, "rate-bps", 0, "Decay rate in basis points per day")
	initCmd.Flags().Uint64Var(&minStake, "min", 0, "Minimum stake amount")
	initCmd.Flags().Uint64Var(&maxStake, "max", 0, "Maximum stake amount")
	initCmd.Flags().Uint64Var(&daily, "daily-limit", 0, "Daily per-user limit (0 = unlimited)")
	initCmd.Flags().Uint64Var(&total, "total-limit", 0, "Lifetime per-user limit (0 = unlimited)")
	_ = initCmd.MarkFlagRequired("authority")
	policyCmd.AddCommand(initCmd)

	// show
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current policy and aggregates",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := checkResp(newClient(apiFlag, "").R().Get("/api/policy"))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, out)
			return nil
		},
	}
	policyCmd.AddCommand(showCmd)

	// update
	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Update policy fields (authority only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if authorityFlag == "" {
				return fmt.Errorf("--authority required")
			}
			payload := map[string]interface{}{}
			for name, key := range map[string]string{
				"rate-bps":    "decayRateBps",
				"min":         "minStake",
				"max":         "maxStake",
				"daily-limit": "dailyUserLimit",
				"total-limit": "totalUserLimit",
			} {
				if cmd.Flags().Changed(name) {
					v, _ := cmd.Flags().GetUint64(name)
					payload[key] = v
				}
			}
			if len(payload) == 0 {
				return fmt.Errorf("no fields to update")
			}
			out, err := checkResp(newClient(apiFlag, authorityFlag).R().SetBody(payload).Patch("/api/policy"))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, out)
			return nil
		},
	}
	updateCmd.Flags().Uint64("rate-bps", 0, "Decay rate in basis points per day")
	updateCmd.Flags().Uint64("min", 0, "Minimum stake amount")
	updateCmd.Flags().Uint64("max", 0, "Maximum stake amount")
	updateCmd.Flags().Uint64("daily-limit", 0, "Daily per-user limit")
	updateCmd.Flags().Uint64("total-limit", 0, "Lifetime per-user limit")
	policyCmd.AddCommand(updateCmd)

	// emergency
	emergencyCmd := &cobra.Command{
		Use:   "emergency on|off",
		Short: "Toggle the emergency halt (authority only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if authorityFlag == "" {
				return fmt.Errorf("--authority required")
			}
			var active bool
			switch args[0] {
			case "on":
				active = true
			case "off":
				active = false
			default:
				return fmt.Errorf("argument must be on or off")
			}
			out, err := checkResp(newClient(apiFlag, authorityFlag).R().
				SetBody(map[string]bool{"active": active}).
				Put("/api/policy/emergency"))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, out)
			return nil
		},
	}
	policyCmd.AddCommand(emergencyCmd)

	rootCmd.AddCommand(policyCmd)
}
