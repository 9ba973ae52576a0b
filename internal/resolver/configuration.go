// SPDX-License-Identifier: MPL-2.0

package resolver

const (
	// ModeConfigFile identifies ConfigFileMode in rendered output.
	ModeConfigFile Mode = "config-file"
	// ModeCliOptions identifies CliOptionsMode in rendered output.
	ModeCliOptions Mode = "cli-options"
)

type (
	// Mode names a Configuration variant.
	Mode string

	// Environment is the set of variables exported to the generator process.
	Environment map[string]string

	// Configuration is the resolved generator invocation. It is implemented by
	// exactly two variants: ConfigFileMode and CliOptionsMode.
	Configuration interface {
		// Mode returns the variant name.
		Mode() Mode
		// Environment returns the derived environment.
		Environment() Environment

		isConfiguration()
	}

	// ConfigFileMode delegates all generator settings to a declarative config file.
	ConfigFileMode struct {
		ConfigPath string      `json:"config_path" yaml:"config_path"`
		Env        Environment `json:"env" yaml:"env"`
	}

	// CliOptionsMode passes sources, templates and extra flags on the command line.
	CliOptionsMode struct {
		Sources   string      `json:"sources" yaml:"sources"`
		Templates []string    `json:"templates" yaml:"templates"`
		ExtraArgs []string    `json:"extra_args" yaml:"extra_args"`
		Env       Environment `json:"env" yaml:"env"`
	}
)

// Mode implements Configuration.
func (ConfigFileMode) Mode() Mode { return ModeConfigFile }

// Environment implements Configuration.
func (c ConfigFileMode) Environment() Environment { return c.Env }

func (ConfigFileMode) isConfiguration() {}

// Mode implements Configuration.
func (CliOptionsMode) Mode() Mode { return ModeCliOptions }

// Environment implements Configuration.
func (c CliOptionsMode) Environment() Environment { return c.Env }

func (CliOptionsMode) isConfiguration() {}

// String returns the string representation of the Mode.
func (m Mode) String() string { return string(m) }
