// Command htmlview renders one view to stdout.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"gopkg.in/yaml.v3"

	"golazy.dev/htmlview"
	"golazy.dev/htmlview/placeholder"
)

func main() {
	configFile := flag.String("config", "", "YAML config file (base_dir, views_dir)")
	baseDir := flag.String("base", "", "application base directory, overrides the config")
	controller := flag.String("controller", "Home", "controller name")
	action := flag.String("action", "Index", "action name")
	relPath := flag.String("path", "", "view path relative to the views directory, overrides controller and action")
	varsFile := flag.String("vars", "", "YAML file with placeholder values")
	interactive := flag.Bool("i", false, "ask for placeholder values that are missing")
	verbose := flag.Bool("v", false, "log view resolution")
	flag.Parse()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *baseDir != "" {
		cfg.BaseDir = *baseDir
	}

	var logger *slog.Logger
	if *verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	views := cfg.Views(logger)

	model, err := loadModel(*varsFile)
	if err != nil {
		log.Fatalf("vars: %v", err)
	}
	if model == nil && *interactive {
		model = placeholder.Model{}
	}

	opts := htmlview.Options{
		Ctx:        context.Background(),
		Controller: *controller,
		Action:     *action,
		Path:       *relPath,
		Model:      model,
	}

	out, err := render(views, opts, *interactive)
	if err != nil {
		log.Fatalf("render: %v", err)
	}
	fmt.Print(out)
}

func loadConfig(file string) (htmlview.Config, error) {
	if file == "" {
		return htmlview.Config{}, nil
	}
	f, err := os.Open(file)
	if err != nil {
		return htmlview.Config{}, err
	}
	defer f.Close()
	return htmlview.LoadConfig(f)
}

func loadModel(file string) (placeholder.Model, error) {
	if file == "" {
		return nil, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	model := placeholder.Model{}
	if err := yaml.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return model, nil
}

// render retries after asking for every token the model lacks.
func render(views *htmlview.Views, opts htmlview.Options, interactive bool) (string, error) {
	for {
		out, err := views.RenderString(opts)
		var rerr *placeholder.ResolutionError
		if !interactive || !errors.As(err, &rerr) || rerr.Matches != 0 {
			return out, err
		}
		var value string
		if err := survey.AskOne(&survey.Input{Message: fmt.Sprintf("{%s}", rerr.Token)}, &value); err != nil {
			return "", err
		}
		opts.Model[rerr.Token] = value
	}
}
