package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/cells/model"
	"github.com/sheikhrachel/cells/utils"
)

const defaultConfigPath = "config.json"

var (
	errHelp  = errors.New("help requested")
	errUsage = errors.New("usage")
)

// command is a parsed invocation
type command struct {
	mode   string
	rows   int
	cols   int
	path   string
	config utils.Config
}

func newFlagSet(config *utils.Config, configPath *string, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("cells", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(configPath, "config", defaultConfigPath, "JSON configuration file")
	config.Bind(fs)
	fs.Usage = func() {
		fmt.Fprint(output, usageText)
		fs.PrintDefaults()
	}
	return fs
}

// parseArgs reads global flags, the optional config file and the run mode.
// Flags given on the command line override values from the config file.
func parseArgs(args []string, stderr io.Writer) (command, error) {
	var (
		config     = utils.DefaultConfig()
		configPath string
		fs         = newFlagSet(&config, &configPath, stderr)
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return command{}, errHelp
		}
		return command{}, errors.Wrap(errUsage, err.Error())
	}

	explicit := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicit = true
		}
	})

	fileConfig, err := utils.LoadConfig(configPath)
	switch {
	case err == nil:
		// Parse again on top of the file values so flags still win
		config = fileConfig
		if err = newFlagSet(&config, &configPath, io.Discard).Parse(args); err != nil {
			return command{}, errors.Wrap(errUsage, err.Error())
		}
	case !explicit && errors.Is(err, os.ErrNotExist):
		// No config file, keep defaults plus flags
	default:
		return command{}, err
	}

	if err = config.Validate(); err != nil {
		return command{}, err
	}

	cmd := command{config: config}
	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return command{}, errHelp
	}

	cmd.mode = rest[0]
	switch cmd.mode {
	case "random":
		if len(rest) != 3 {
			return command{}, errors.Wrap(errUsage, "random expects M and N")
		}
		if cmd.rows, err = strconv.Atoi(rest[1]); err != nil {
			return command{}, errors.Wrapf(errUsage, "M must be an integer, got %q", rest[1])
		}
		if cmd.cols, err = strconv.Atoi(rest[2]); err != nil {
			return command{}, errors.Wrapf(errUsage, "N must be an integer, got %q", rest[2])
		}
	case "from":
		if len(rest) != 2 {
			return command{}, errors.Wrap(errUsage, "from expects a single FILE")
		}
		cmd.path = rest[1]
	default:
		return command{}, errors.Wrapf(errUsage, "unknown mode %q", cmd.mode)
	}

	return cmd, nil
}

// loadSeed produces the starting grid and checks it fits the display.
// Random seeds are validated before any cells are allocated.
func loadSeed(cmd command, bounds model.DisplayBounds) (*model.Grid, error) {
	switch cmd.mode {
	case "random":
		if err := model.ValidateSize(cmd.rows, cmd.cols, bounds); err != nil {
			return nil, err
		}
		rng := model.NewRNG(cmd.config.Seed)
		return model.RandomGrid(cmd.rows, cmd.cols, cmd.config.RandomDensity, rng), nil
	case "from":
		grid, err := model.LoadGridFile(cmd.path)
		if err != nil {
			return nil, err
		}
		if err = model.ValidateSize(grid.Rows(), grid.Cols(), bounds); err != nil {
			return nil, err
		}
		return grid, nil
	}
	return nil, errors.Wrapf(errUsage, "unknown mode %q", cmd.mode)
}

// run seeds the grid and drives the simulation to completion. In screen mode
// the final grid stays visible until q, Esc or Ctrl+C is pressed.
func run(
	ctx context.Context,
	cmd command,
	stdout io.Writer,
	newScreen func() (tcell.Screen, error),
) (model.Result, error) {
	var (
		config = cmd.config
		screen tcell.Screen
		bounds model.DisplayBounds
	)

	if config.Screen {
		var err error
		if screen, err = newScreen(); err != nil {
			return model.Result{}, errors.Wrap(err, "[run] failed to create screen")
		}
		if err = screen.Init(); err != nil {
			return model.Result{}, errors.Wrap(err, "[run] failed to initialise screen")
		}
		defer screen.Fini()

		bounds = model.DiscoverBounds(config, func() (model.DisplayBounds, error) {
			return model.ScreenBounds(screen), nil
		})
	} else {
		bounds = model.DiscoverBounds(config, func() (model.DisplayBounds, error) {
			probe, err := newScreen()
			if err != nil {
				return model.DisplayBounds{}, err
			}
			return model.ProbeBounds(probe)
		})
	}

	grid, err := loadSeed(cmd, bounds)
	if err != nil {
		return model.Result{}, err
	}

	var renderer model.Renderer
	if screen != nil {
		renderer = model.NewScreenRenderer(screen, config.AliveGlyph, config.DeadGlyph)
	} else {
		renderer = model.NewTextRenderer(stdout, config.AliveGlyph, config.DeadGlyph)
	}

	if config.ShowStats {
		log.Printf("grid: %dx%d | display: %s | initial living cells: %d",
			grid.Rows(), grid.Cols(), bounds, grid.CountLivingCells())
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		eg, egCtx = errgroup.WithContext(ctx)
		sim       = model.NewSimulation(grid, renderer, config)
		res       model.Result
	)

	eg.Go(func() error {
		var runErr error
		res, runErr = sim.Run(egCtx)
		if runErr != nil {
			return runErr
		}
		if screen == nil {
			return nil
		}
		if res.State != model.StateCancelled {
			showMessage(screen, res.Grid.Rows(), fmt.Sprintf("%s after %d generations, press q to quit", res.State, res.Generations))
		}
		return nil
	})

	if screen != nil {
		eg.Go(func() error {
			watchKeys(egCtx, screen, cancel)
			return nil
		})
	}

	if err = eg.Wait(); err != nil {
		return res, err
	}
	return res, nil
}

// watchKeys cancels the run when q, Esc or Ctrl+C is pressed
func watchKeys(ctx context.Context, screen tcell.Screen, cancel context.CancelFunc) {
	events := make(chan tcell.Event)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			key, ok := ev.(*tcell.EventKey)
			if !ok {
				continue
			}
			if key.Key() == tcell.KeyEscape || key.Key() == tcell.KeyCtrlC || key.Rune() == 'q' {
				cancel()
				return
			}
		}
	}
}

// showMessage writes msg on the given screen row if there is room for it
func showMessage(screen tcell.Screen, row int, msg string) {
	width, height := screen.Size()
	if row >= height {
		return
	}
	col := 0
	for _, r := range msg {
		if col >= width {
			break
		}
		screen.SetContent(col, row, r, nil, tcell.StyleDefault)
		col++
	}
	screen.Show()
}
