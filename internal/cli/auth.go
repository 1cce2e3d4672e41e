package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/duet/internal/browser"
	"github.com/tessro/duet/internal/spotify/auth"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Spotify authentication",
	Long:  `Commands for managing Spotify OAuth authentication.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with Spotify",
	Long:  `Opens a browser to authenticate with Spotify using OAuth PKCE flow.`,
	RunE:  runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored Spotify credentials",
	Long:  `Removes the stored Spotify OAuth tokens from the local machine.`,
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show authentication status",
	Long:  `Shows the current Spotify authentication status.`,
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	if cfg.Spotify.ClientID == "" {
		return fmt.Errorf("spotify.client_id not configured. Set it in ~/.duetrc or via DUET_SPOTIFY_CLIENT_ID")
	}

	pkce, err := auth.NewPKCE()
	if err != nil {
		return fmt.Errorf("failed to generate PKCE: %w", err)
	}

	callbackServer, err := auth.NewCallbackServer(8888)
	if err != nil {
		return fmt.Errorf("failed to start callback server: %w", err)
	}
	callbackServer.Start()
	defer func() { _ = callbackServer.Shutdown(context.Background()) }()

	authConfig := auth.NewConfig(cfg.Spotify.ClientID)
	if cfg.Spotify.RedirectURI != "" {
		authConfig.RedirectURI = cfg.Spotify.RedirectURI
	}
	authURL := authConfig.BuildAuthURL(pkce)

	fmt.Println("Opening browser for Spotify authentication...")
	if err := browser.Open(authURL); err != nil {
		fmt.Printf("Could not open browser automatically.\n")
		fmt.Printf("Please open this URL in your browser:\n\n%s\n\n", authURL)
	}

	fmt.Println("Waiting for authentication...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := callbackServer.Wait(ctx)
	if err != nil {
		return fmt.Errorf("authentication timed out: %w", err)
	}
	if result.Error != "" {
		return fmt.Errorf("authentication failed: %s", result.Error)
	}
	if result.State != pkce.State {
		return fmt.Errorf("state mismatch: possible CSRF attack")
	}

	fmt.Println("Exchanging code for tokens...")
	token, err := auth.ExchangeCode(ctx, cfg.Spotify.ClientID, result.Code, authConfig.RedirectURI, pkce.Verifier)
	if err != nil {
		return fmt.Errorf("failed to exchange code: %w", err)
	}

	tokenStorage, err := auth.NewTokenStorage("")
	if err != nil {
		return fmt.Errorf("failed to initialize token storage: %w", err)
	}
	if err := tokenStorage.Save(token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	if JSONOutput() {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]string{"status": "authenticated"})
	} else {
		fmt.Println("Authentication successful! Token stored.")
	}
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	tokenStorage, err := auth.NewTokenStorage("")
	if err != nil {
		return fmt.Errorf("failed to initialize token storage: %w", err)
	}

	if !tokenStorage.Exists() {
		if JSONOutput() {
			_ = json.NewEncoder(os.Stdout).Encode(map[string]string{"status": "not_authenticated"})
		} else {
			fmt.Println("Not authenticated with Spotify.")
		}
		return nil
	}

	if err := tokenStorage.Delete(); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	if JSONOutput() {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]string{"status": "logged_out"})
	} else {
		fmt.Println("Logged out of Spotify.")
	}
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	tokenStorage, err := auth.NewTokenStorage("")
	if err != nil {
		return fmt.Errorf("failed to initialize token storage: %w", err)
	}

	if !tokenStorage.Exists() {
		if JSONOutput() {
			_ = json.NewEncoder(os.Stdout).Encode(map[string]interface{}{"authenticated": false})
		} else {
			fmt.Println("Not authenticated. Run 'duet auth login' to get started.")
		}
		return nil
	}

	token, err := tokenStorage.Load()
	if err != nil {
		return fmt.Errorf("failed to load token: %w", err)
	}

	if JSONOutput() {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"authenticated": true,
			"expired":       token.IsExpired(),
			"expires_at":    token.ExpiresAt,
		})
	} else {
		if token.IsExpired() {
			fmt.Println("Authenticated (token expired, will refresh on next use).")
		} else {
			fmt.Printf("Authenticated. Token valid until %s.\n", token.ExpiresAt.Format(time.RFC1123))
		}
	}
	return nil
}
