package cli

import (
	"fmt"

	"github.com/vburojevic/slotw/internal/config"
	"github.com/vburojevic/slotw/internal/output"
)

// ConfigCmd shows or manages configuration
type ConfigCmd struct {
	Show     ConfigShowCmd     `cmd:"" default:"withargs" help:"Show current configuration"`
	Path     ConfigPathCmd     `cmd:"" help:"Show configuration file path"`
	Generate ConfigGenerateCmd `cmd:"" help:"Generate sample configuration file"`
}

// configOutput is the NDJSON form of the effective configuration
type configOutput struct {
	Type          string         `json:"type"`
	SchemaVersion int            `json:"schemaVersion"`
	Source        string         `json:"source,omitempty"`
	Config        *config.Config `json:"config"`
}

// ConfigShowCmd shows current configuration
type ConfigShowCmd struct{}

// Run executes the config show command
func (c *ConfigShowCmd) Run(globals *Globals) error {
	cfg := globals.Config
	if cfg == nil {
		cfg = config.Default()
	}

	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteRaw(&configOutput{
			Type:          "config",
			SchemaVersion: output.SchemaVersion,
			Source:        config.ConfigFile(),
			Config:        cfg,
		})
	}

	data, err := cfg.YAML()
	if err != nil {
		return outputErrorCommon(globals, codeConfigGenerate, err.Error())
	}
	fmt.Fprintln(globals.Stdout, "Current Configuration:")
	fmt.Fprintln(globals.Stdout, "")
	fmt.Fprint(globals.Stdout, string(data))

	if path := config.ConfigFile(); path != "" {
		fmt.Fprintln(globals.Stdout, "")
		fmt.Fprintf(globals.Stdout, "Loaded from: %s\n", path)
	}
	return nil
}

// ConfigPathCmd shows config file path
type ConfigPathCmd struct{}

// Run executes the config path command
func (c *ConfigPathCmd) Run(globals *Globals) error {
	path := config.ConfigFile()

	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteRaw(map[string]interface{}{
			"type":          "config_path",
			"schemaVersion": output.SchemaVersion,
			"path":          path,
		})
	}

	if path == "" {
		fmt.Fprintln(globals.Stdout, "No configuration file found")
		fmt.Fprintln(globals.Stdout, "")
		fmt.Fprintln(globals.Stdout, "Create one at:")
		fmt.Fprintln(globals.Stdout, "  ./.slotw.yaml")
		fmt.Fprintln(globals.Stdout, "  ~/.slotw.yaml")
		fmt.Fprintln(globals.Stdout, "  ~/.config/slotw/config.yaml")
	} else {
		fmt.Fprintf(globals.Stdout, "Config file: %s\n", path)
	}
	return nil
}

// ConfigGenerateCmd prints a config file populated with the defaults
type ConfigGenerateCmd struct{}

const configHeader = `# slotw configuration file
# Place this file at ./.slotw.yaml, ~/.slotw.yaml or ~/.config/slotw/config.yaml
# Environment overrides: SLOTW_FILE, SLOTW_ENCODING, SLOTW_PREFIX, SLOTW_SLOT,
# SLOTW_LOG_DIR, SLOTW_FORMAT, SLOTW_VERBOSE, SLOTW_QUIET

`

// Run executes the config generate command
func (c *ConfigGenerateCmd) Run(globals *Globals) error {
	data, err := config.Default().YAML()
	if err != nil {
		return outputErrorCommon(globals, codeConfigGenerate, err.Error())
	}
	fmt.Fprint(globals.Stdout, configHeader+string(data))
	return nil
}
