package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wilbur182/recents/internal/app"
	"github.com/wilbur182/recents/internal/config"
	"github.com/wilbur182/recents/internal/keymap"
	"github.com/wilbur182/recents/internal/state"
	"github.com/wilbur182/recents/internal/styles"
	"github.com/wilbur182/recents/internal/tracker"
	"github.com/wilbur182/recents/internal/vault"
)

// Version is set at build time via ldflags
var Version = ""

var (
	configPath   = flag.String("config", "", "path to config file")
	vaultDir     = flag.String("vault", "", "vault directory (overrides config)")
	debugFlag    = flag.Bool("debug", false, "enable debug logging")
	versionFlag  = flag.Bool("version", false, "print version and exit")
	shortVersion = flag.Bool("v", false, "print version and exit (short)")
)

func main() {
	flag.Parse()

	if *versionFlag || *shortVersion {
		fmt.Printf("recents version %s\n", effectiveVersion(Version))
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *debugFlag {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	root := cfg.Vault.Root
	if *vaultDir != "" {
		root = *vaultDir
	}
	v, err := vault.New(config.ExpandHome(root))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open vault: %v\n", err)
		os.Exit(1)
	}

	styles.ApplyTheme(cfg.UI.Theme.Name)

	statePath := cfg.Vault.StatePath
	if statePath == "" {
		statePath = state.DefaultPath()
	}
	store := state.NewStore(config.ExpandHome(statePath), logger)

	tr := tracker.New(v, store, logger)
	rec, err := store.Load()
	if err != nil {
		// A corrupt state file should not block startup.
		logger.Warn("failed to load saved state", "path", store.Path(), "error", err)
	}
	tr.Restore(rec)
	if err := tr.Refresh(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to scan vault: %v\n", err)
		os.Exit(1)
	}

	km := keymap.NewRegistry()
	keymap.RegisterDefaults(km)
	for key, cmdID := range cfg.Keymap.Overrides {
		km.SetUserOverride(key, cmdID)
	}

	model := app.New(cfg, tr, v, km, logger, effectiveVersion(Version))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	_, runErr := p.Run()
	model.Stop()
	store.Flush()
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", runErr)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// effectiveVersion returns the version string, with fallback to build info.
func effectiveVersion(v string) string {
	if v != "" {
		return v
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	var revision string
	var dirty bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if revision != "" {
		ver := "devel+" + revision
		if len(ver) > 20 {
			ver = ver[:20]
		}
		if dirty {
			ver += "+dirty"
		}
		return ver
	}
	return "devel"
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: recents [options]\n\n")
		fmt.Fprintf(os.Stderr, "A TUI for your most recently modified vault files.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
}
