package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/investledger/internal/infrastructure/auth"
)

var (
	baseURL string
	token   string
	timeout time.Duration
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "investledger-cli",
		Short: "InvestLedger CLI tool",
		Long:  `A command line interface for interacting with the InvestLedger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the InvestLedger API")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("INVESTLEDGER_TOKEN"), "Bearer token for the API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(newAccountTypeCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newTokenCmd())

	return rootCmd
}

func newAccountTypeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account-type",
		Short: "Account type operations",
	}

	var (
		name        string
		description string
		policy      string
	)

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account type",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]string{
				"name":              name,
				"description":       description,
				"permission_policy": policy,
			}
			return doRequest(http.MethodPost, "/api/v1/account-types", payload)
		},
	}
	createCmd.Flags().StringVar(&name, "name", "", "Account type name")
	createCmd.Flags().StringVar(&description, "description", "", "Account type description")
	createCmd.Flags().StringVar(&policy, "policy", "full_access", "Permission policy: view_only, full_access or post_only")
	createCmd.MarkFlagRequired("name")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List account types",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRequest(http.MethodGet, "/api/v1/account-types", nil)
		},
	}

	cmd.AddCommand(createCmd, listCmd)

	return cmd
}

func newReportCmd() *cobra.Command {
	var (
		userID string
		from   string
		to     string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Fetch a user's transaction report (admin token required)",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/admin/users/%s/transactions?from=%s&to=%s", userID, from, to)
			return doRequest(http.MethodGet, path, nil)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "User ID to report on")
	cmd.Flags().StringVar(&from, "from", "", "Range start (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&to, "to", "", "Range end (YYYY-MM-DD or RFC 3339)")
	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")

	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		secret string
		userID string
		role   string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager := auth.NewJWTManager(secret, ttl)
			signed, err := manager.Generate(userID, auth.Role(role))
			if err != nil {
				return err
			}
			fmt.Println(signed)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "dev-secret-change-me", "JWT secret the server was started with")
	cmd.Flags().StringVar(&userID, "user", "", "User ID to embed in the token")
	cmd.Flags().StringVar(&role, "role", string(auth.RoleMember), "Role: admin or member")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	cmd.MarkFlagRequired("user")

	return cmd
}

func doRequest(method, path string, payload any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	var pretty any
	if err := json.Unmarshal(respBody, &pretty); err != nil {
		fmt.Println(string(respBody))
		return nil
	}
	printJSON(pretty)

	return nil
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to render response: %v\n", err)
		return
	}
	fmt.Println(string(data))
}
