package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/framewin/internal/opt"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawSize struct {
	Width  *opt.Int `yaml:"width"`
	Height *opt.Int `yaml:"height"`
}

type RawPosition struct {
	X *opt.Int `yaml:"x"`
	Y *opt.Int `yaml:"y"`
}

type RawWindow struct {
	Size          *RawSize     `yaml:"size"`
	Position      *RawPosition `yaml:"position"`
	TitleBarColor []int        `yaml:"title_bar_color"`
	Resizable     *bool        `yaml:"resizable"`
	TopMost       *bool        `yaml:"top_most"`
	Foreground    *bool        `yaml:"foreground"`
	Minimized     *bool        `yaml:"minimized"`
	Undestroyable *bool        `yaml:"undestroyable"`
	Icon          *string      `yaml:"icon"`
	Source        *string      `yaml:"source"`
	NoWarnings    *bool        `yaml:"no_warnings"`
}

type RawLoggingConfig struct {
	Level     *string `yaml:"level"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

type RawConfig struct {
	Include    IncludeList          `yaml:"include"`
	Backend    *string              `yaml:"backend"`
	Presenter  *string              `yaml:"presenter"`
	FPS        *int                 `yaml:"fps"`
	NoWarnings *bool                `yaml:"no_warnings"`
	Logging    *RawLoggingConfig    `yaml:"logging"`
	Windows    map[string]RawWindow `yaml:"windows"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Backend != nil {
		out.Backend = overlay.Backend
	}
	if overlay.Presenter != nil {
		out.Presenter = overlay.Presenter
	}
	if overlay.FPS != nil {
		out.FPS = overlay.FPS
	}
	if overlay.NoWarnings != nil {
		out.NoWarnings = overlay.NoWarnings
	}

	if overlay.Logging != nil {
		logging := RawLoggingConfig{}
		if out.Logging != nil {
			logging = *out.Logging
		}
		out.Logging = &logging
		if overlay.Logging.Level != nil {
			out.Logging.Level = overlay.Logging.Level
		}
		if overlay.Logging.File != nil {
			out.Logging.File = overlay.Logging.File
		}
		if overlay.Logging.MaxSizeMB != nil {
			out.Logging.MaxSizeMB = overlay.Logging.MaxSizeMB
		}
		if overlay.Logging.MaxFiles != nil {
			out.Logging.MaxFiles = overlay.Logging.MaxFiles
		}
	}

	if overlay.Windows != nil {
		merged := make(map[string]RawWindow, len(out.Windows)+len(overlay.Windows))
		for name, w := range out.Windows {
			merged[name] = w
		}
		for name, w := range overlay.Windows {
			base, ok := merged[name]
			if !ok {
				merged[name] = w
				continue
			}
			merged[name] = mergeRawWindow(base, w)
		}
		out.Windows = merged
	}

	return out
}

func mergeRawWindow(base RawWindow, overlay RawWindow) RawWindow {
	out := base
	if overlay.Size != nil {
		size := RawSize{}
		if base.Size != nil {
			size = *base.Size
		}
		if overlay.Size.Width != nil {
			size.Width = overlay.Size.Width
		}
		if overlay.Size.Height != nil {
			size.Height = overlay.Size.Height
		}
		out.Size = &size
	}
	if overlay.Position != nil {
		pos := RawPosition{}
		if base.Position != nil {
			pos = *base.Position
		}
		if overlay.Position.X != nil {
			pos.X = overlay.Position.X
		}
		if overlay.Position.Y != nil {
			pos.Y = overlay.Position.Y
		}
		out.Position = &pos
	}
	if overlay.TitleBarColor != nil {
		out.TitleBarColor = overlay.TitleBarColor
	}
	if overlay.Resizable != nil {
		out.Resizable = overlay.Resizable
	}
	if overlay.TopMost != nil {
		out.TopMost = overlay.TopMost
	}
	if overlay.Foreground != nil {
		out.Foreground = overlay.Foreground
	}
	if overlay.Minimized != nil {
		out.Minimized = overlay.Minimized
	}
	if overlay.Undestroyable != nil {
		out.Undestroyable = overlay.Undestroyable
	}
	if overlay.Icon != nil {
		out.Icon = overlay.Icon
	}
	if overlay.Source != nil {
		out.Source = overlay.Source
	}
	if overlay.NoWarnings != nil {
		out.NoWarnings = overlay.NoWarnings
	}
	return out
}
