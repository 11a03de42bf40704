package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	stakesCmd := &cobra.Command{Use: "stakes", Short: "Stake operations"}

	// place
	var user, contentID, contentType string
	var amount uint64
	placeCmd := &cobra.Command{
		Use:   "place",
		Short: "Place or top up a stake",
		RunE: func(cmd *cobra.Command, args []string) error {
			if user == "" || contentID == "" {
				return fmt.Errorf("--user and --content required")
			}
			payload := map[string]interface{}{
				"user":      user,
				"contentId": contentID,
				"amount":    amount,
			}
			if contentType != "" {
				payload["contentType"] = contentType
			}
			out, err := checkResp(newClient(apiFlag, "").R().SetBody(payload).Post("/api/stakes"))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, out)
			return nil
		},
	}
	placeCmd.Flags().StringVarP(&user, "user", "u", "", "User address (required)")
	placeCmd.Flags().StringVarP(&contentID, "content", "c", "", "Content ID (required)")
	placeCmd.Flags().StringVarP(&contentType, "type", "t", "", "Content type label")
	placeCmd.Flags().Uint64Var(&amount, "amount", 0, "Stake amount (required)")
	_ = placeCmd.MarkFlagRequired("amount")
	stakesCmd.AddCommand(placeCmd)

	// release
	releaseCmd := &cobra.Command{
		Use:   "release USER CONTENT_ID",
		Short: "Release a stake at its settled value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := checkResp(newClient(apiFlag, "").R().
				Delete(fmt.Sprintf("/api/stakes/%s/%s", url.PathEscape(args[0]), url.PathEscape(args[1]))))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, out)
			return nil
		},
	}
	stakesCmd.AddCommand(releaseCmd)

	// value
	valueCmd := &cobra.Command{
		Use:   "value USER CONTENT_ID",
		Short: "Show the decayed effective value of a stake",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := checkResp(newClient(apiFlag, "").R().
				Get(fmt.Sprintf("/api/stakes/%s/%s/value", url.PathEscape(args[0]), url.PathEscape(args[1]))))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, out)
			return nil
		},
	}
	stakesCmd.AddCommand(valueCmd)

	// list
	listCmd := &cobra.Command{
		Use:   "list USER",
		Short: "List a user's stakes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := checkResp(newClient(apiFlag, "").R().
				Get(fmt.Sprintf("/api/stakes/%s", url.PathEscape(args[0]))))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, out)
			return nil
		},
	}
	stakesCmd.AddCommand(listCmd)

	// events
	eventsCmd := &cobra.Command{
		Use:   "events USER",
		Short: "Show a user's stake event journal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			out, err := checkResp(newClient(apiFlag, "").R().
				SetQueryParam("limit", fmt.Sprintf("%d", limit)).
				Get(fmt.Sprintf("/api/stakes/%s/events", url.PathEscape(args[0]))))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, out)
			return nil
		},
	}
	eventsCmd.Flags().Int("limit", 50, "Maximum events to return")
	stakesCmd.AddCommand(eventsCmd)

	rootCmd.AddCommand(stakesCmd)
}
