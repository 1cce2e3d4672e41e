package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/tessro/duet/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and editing duet configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration values.`,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long:  `Open the configuration file in your default editor.`,
	RunE:  runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long:  `Create a new configuration file with default values.`,
	RunE:  runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Supported keys:
  spotify.client_id       Spotify client ID
  spotify.device          Playback device name or ID
  ai.model                Chat model for the AI persona
  ai.persona              Persona style description
  ai.max_attempts         Max selection attempts per AI turn
  session.recency_limit   Tracks remembered per persona

Examples:
  duet config set spotify.device "Kitchen Speaker"
  duet config set ai.persona "late-night jazz curator"`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(cfg)
	}

	// Pretty print as TOML
	encoder := toml.NewEncoder(os.Stdout)
	encoder.Indent = "  "
	return encoder.Encode(cfg)
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found at %s. Run 'duet config init' first", configPath)
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"nano", "vim", "vi", "notepad"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Set EDITOR environment variable")
	}

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	return editorCmd.Run()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", configPath)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	defaultCfg := config.Default()

	f, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	_, _ = fmt.Fprintln(f, "# Duet Configuration")
	_, _ = fmt.Fprintln(f, "# https://github.com/tessro/duet")
	_, _ = fmt.Fprintln(f, "")

	encoder := toml.NewEncoder(f)
	encoder.Indent = "  "
	if err := encoder.Encode(defaultCfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if JSONOutput() {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]string{
			"status": "created",
			"path":   configPath,
		})
	} else {
		fmt.Printf("Created config file: %s\n", configPath)
		fmt.Println("\nNext steps:")
		fmt.Println("  1. Set your Spotify client ID in the config file or via DUET_SPOTIFY_CLIENT_ID")
		fmt.Println("  2. Export OPENAI_API_KEY for the AI persona")
		fmt.Println("  3. Run 'duet auth login' to authenticate with Spotify")
		fmt.Println("  4. Run 'duet session start' to begin")
	}

	return nil
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".duetrc"
	}

	return filepath.Join(home, ".duetrc")
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	configPath := getConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found at %s. Run 'duet config init' first", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	var rawConfig map[string]interface{}
	if _, err := toml.Decode(string(data), &rawConfig); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return fmt.Errorf("invalid key format. Use 'section.key' (e.g., spotify.device)")
	}

	section, field := parts[0], parts[1]

	sectionMap, ok := rawConfig[section].(map[string]interface{})
	if !ok {
		sectionMap = make(map[string]interface{})
		rawConfig[section] = sectionMap
	}

	// Convert value to appropriate type based on field
	var typedValue interface{}
	switch key {
	case "ai.max_attempts", "session.recency_limit", "session.search_limit",
		"session.enqueue_timeout", "session.enqueue_interval", "tui.refresh_interval":
		var intVal int
		if _, err := fmt.Sscanf(value, "%d", &intVal); err != nil {
			return fmt.Errorf("value must be an integer for %s", key)
		}
		typedValue = intVal
	case "ai.temperature":
		var floatVal float64
		if _, err := fmt.Sscanf(value, "%g", &floatVal); err != nil {
			return fmt.Errorf("value must be a number for %s", key)
		}
		typedValue = floatVal
	default:
		typedValue = value
	}

	sectionMap[field] = typedValue

	f, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer func() { _ = f.Close() }()

	_, _ = fmt.Fprintln(f, "# Duet Configuration")
	_, _ = fmt.Fprintln(f, "# https://github.com/tessro/duet")
	_, _ = fmt.Fprintln(f, "")

	encoder := toml.NewEncoder(f)
	encoder.Indent = "  "
	if err := encoder.Encode(rawConfig); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if JSONOutput() {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	} else {
		fmt.Printf("Set %s = %s\n", key, value)
	}

	return nil
}
