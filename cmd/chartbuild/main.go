// Command chartbuild builds a trend chart document from an export file in
// one shot: extract, style, render and write.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/chart-builder/backend/internal/config"
	"github.com/chart-builder/backend/internal/export"
	"github.com/chart-builder/backend/internal/models"
	"github.com/chart-builder/backend/internal/parser"
	"github.com/chart-builder/backend/internal/session"
	"github.com/chart-builder/backend/internal/trend"
	"github.com/google/uuid"
)

var errIncompatible = errors.New("the file is not compatible or was not chosen")

type options struct {
	configPath string
	source     string
	outDir     string
	name       string
	version    string
	server     string
	analogPath string
	binaryPath string
	analogFile string
	binaryFile string
	modbus     bool
	presets    string
	template   string

	set map[string]bool // flags given on the command line
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("chartbuild", flag.ContinueOnError)
	fs.SetOutput(stderr)

	o := &options{}
	fs.StringVar(&o.configPath, "config", "", "XML config file providing defaults")
	fs.StringVar(&o.source, "source", "", "export document to extract trends from")
	fs.StringVar(&o.outDir, "out", "", "output directory (default from config)")
	fs.StringVar(&o.name, "name", "", "output file name (default DD-MM-YYYY-HH-MM-SS.xml)")
	fs.StringVar(&o.version, "version", "", "server version")
	fs.StringVar(&o.server, "server", "", "server path")
	fs.StringVar(&o.analogPath, "analog-path", "", "analog trend path")
	fs.StringVar(&o.binaryPath, "binary-path", "", "binary trend path")
	fs.StringVar(&o.analogFile, "analog", "", "file with analog trend names, one per line")
	fs.StringVar(&o.binaryFile, "binary", "", "file with binary trend names, one per line")
	fs.BoolVar(&o.modbus, "modbus", false, "trends live under a Modbus device folder")
	fs.StringVar(&o.presets, "presets", "", "YAML style presets")
	fs.StringVar(&o.template, "template", "", "chart template file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	o.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o, nil
}

func loadConfig(path string) (*config.AppConfig, error) {
	if path == "" {
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(path)
}

// run executes one build and returns the operator message.
func run(o *options) (string, error) {
	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return "", err
	}

	s := session.NewEditSession(uuid.New().String(), session.Defaults{
		ServerVersion:   cfg.Defaults.ServerVersion,
		ServerPath:      cfg.Defaults.ServerPath,
		TrendPathAnalog: cfg.Defaults.TrendPathAnalog,
		TrendPathBinary: cfg.Defaults.TrendPathBinary,
		IsModbus:        cfg.Defaults.IsModbus,
	}, time.Now())

	if o.source != "" {
		result, ok := parser.ExtractEBOExportFile(o.source)
		if !ok {
			return "", errIncompatible
		}
		s.ApplyExtraction(o.source, result)
	}

	// Explicit flags win over config defaults and extracted values.
	var u session.FieldsUpdate
	if o.set["name"] {
		u.FileName = &o.name
	}
	if o.set["version"] {
		u.ServerVersion = &o.version
	}
	if o.set["server"] {
		u.ServerPath = &o.server
	}
	if o.set["analog-path"] {
		u.TrendPathAnalog = &o.analogPath
	}
	if o.set["binary-path"] {
		u.TrendPathBinary = &o.binaryPath
	}
	if o.set["modbus"] {
		u.IsModbus = &o.modbus
	}
	s.UpdateFields(u)

	for group, file := range map[models.TrendGroup]string{
		models.GroupAnalog: o.analogFile,
		models.GroupBinary: o.binaryFile,
	} {
		if file == "" {
			continue
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s trend names: %w", group, err)
		}
		if err := s.SetTrendNames(group, string(data)); err != nil {
			return "", err
		}
	}

	presetsFile := o.presets
	if presetsFile == "" {
		presetsFile = cfg.Storage.PresetsFile
	}
	if presetsFile != "" {
		presets, err := trend.ParseStylePresets(presetsFile)
		if err != nil {
			return "", fmt.Errorf("loading presets: %w", err)
		}
		for _, group := range []models.TrendGroup{models.GroupAnalog, models.GroupBinary} {
			if _, err := s.ApplyPresets(group, presets); err != nil {
				return "", err
			}
		}
	}

	templateFile := o.template
	if templateFile == "" {
		templateFile = cfg.Storage.TemplateFile
	}
	renderer := export.NewRenderer()
	if templateFile != "" {
		renderer, err = export.NewRendererFromFile(templateFile)
		if err != nil {
			return "", fmt.Errorf("loading template: %w", err)
		}
	}

	outDir := o.outDir
	if outDir == "" {
		outDir = cfg.Storage.OutputDirectory
	}

	fileName, _, err := s.Export(export.NewWriter(outDir, renderer))
	if err != nil {
		return export.Message("", err), err
	}
	return export.Message(fileName, nil), nil
}

func main() {
	o, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	msg, err := run(o)
	if err != nil {
		if msg == "" {
			msg = export.Message("", err)
		}
		fmt.Println(msg)
		os.Exit(1)
	}
	fmt.Println(msg)
}
