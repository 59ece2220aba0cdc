package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plx/internal/dialogs"
	"github.com/desertthunder/plx/internal/repositories"
	"github.com/desertthunder/plx/internal/services"
	"github.com/desertthunder/plx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Backend is everything the commands need from the music server.
type Backend interface {
	services.Provider
	services.Browser
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	backend    Backend
	store      dialogs.Store
	logger     *log.Logger
	output     io.Writer
	input      *bufio.Reader
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Backend    Backend       // defaults to a [services.RemoteProvider] built from Config
	Store      dialogs.Store // defaults to the SQLite database at Config.State.Path
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Backend == nil {
		opts.Backend = services.NewRemoteProvider(services.RemoteOpts{
			BaseURL:   opts.Config.Server.URL,
			Token:     opts.Config.Server.Token,
			RateLimit: opts.Config.Server.RateLimit,
			Burst:     opts.Config.Server.Burst,
			Logger:    opts.Logger,
		})
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		backend:    opts.Backend,
		store:      opts.Store,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      bufio.NewReader(opts.Input),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, playlistCommand, stateCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the runner's logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// openStore returns the dialog state store and a func releasing it.
func (r *Runner) openStore() (dialogs.Store, func(), error) {
	if r.store != nil {
		return r.store, func() {}, nil
	}

	db, err := shared.OpenState(r.config.State)
	if err != nil {
		return nil, nil, err
	}
	return repositories.NewDialogStateRepository(db), func() { db.Close() }, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) readLine() (string, error) {
	line, err := r.input.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return line, nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
