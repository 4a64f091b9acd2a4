// Copyright 2018 Fabian Wenzelmann
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package deepmosaic

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/FabianWe/deepmosaic/cache"
	homedir "github.com/mitchellh/go-homedir"
)

var (
	// ErrCmdSyntaxErr is returned by a CommandFunc if the syntax for the command
	// is invalid.
	ErrCmdSyntaxErr = errors.New("Invalid command syntax")
)

// ExecutorState is the state during a CommandHandler execution, see that
// type for more details of the workflow.
//
// The variables in the state are shared among the executions of the command
// functions.
type ExecutorState struct {
	// WorkingDir is the current directory. It must always be an absolute path.
	WorkingDir string

	// Config is changed by the set command, it is copied before each mosaic
	// or pyramid run.
	Config *Config

	// Cache stores match thumbnails, it may be nil.
	Cache cache.Cache

	// Tiles are the tiles loaded by "tiles load".
	Tiles []*Tile

	// Target is the target loaded by "target".
	Target *Tile

	// Composition is the result of the last "mosaic" command.
	Composition *Composition

	// Verbose is true if detailed output should be generated.
	Verbose bool

	// In is the source to read commands from (line by line).
	In io.Reader

	// Out is used to write state information.
	Out io.Writer

	Ctx context.Context
}

// NewExecutorState returns a state with the working directory set to the
// current directory.
func NewExecutorState(config *Config, c cache.Cache, in io.Reader, out io.Writer) (*ExecutorState, error) {
	dir, err := filepath.Abs(".")
	if err != nil {
		return nil, fmt.Errorf("Unable to retrieve path: %w", err)
	}
	if config == nil {
		config = DefaultConfig()
	}
	return &ExecutorState{
		WorkingDir: dir,
		Config:     config,
		Cache:      c,
		Verbose:    true,
		In:         in,
		Out:        out,
		Ctx:        context.Background(),
	}, nil
}

// GetPath returns the absolute path given some other path.
// Relative paths are relative to the working directory, the home directory
// can be used like on Unix: ~/Pictures is the Pictures directory in the home
// directory of the user.
func (state *ExecutorState) GetPath(path string) (string, error) {
	res, pathErr := homedir.Expand(path)
	if pathErr != nil {
		return "", pathErr
	}
	if !filepath.IsAbs(res) {
		res = filepath.Join(state.WorkingDir, res)
	}
	return filepath.Abs(res)
}

func (state *ExecutorState) runContext() context.Context {
	if state.Ctx == nil {
		return context.Background()
	}
	return state.Ctx
}

// CommandFunc is a function that is applied to the current states and
// arguments to that command.
type CommandFunc func(state *ExecutorState, args ...string) error

// Command a command consists of a function to actually execute the command
// and some information about the command.
type Command struct {
	Exec        CommandFunc
	Usage       string
	Description string
}

// CommandMap maps command names to Commands.
type CommandMap map[string]Command

// DefaultCommands contains all commands of the mosaic shell.
var DefaultCommands CommandMap

// CommandHandler together with Execute implements a high-level command
// execution loop. CommandFuncs are applied to the current state until there
// are no more commands to execute (no more input).
//
// A command has the form "COMMAND ARG1 ... ARGN" where COMMAND is the command
// name and ARG1 to ARGN are the arguments for the command.
//
// Execute first creates an initial state by calling Init and then calls Start.
// For each line read from the state's reader Before is called, then the line
// is parsed and executed. Each of the On* methods returns true if the
// execution should continue despite the error: OnParseErr is called for lines
// that can't be parsed, OnInvalidCmd for unknown commands and OnError if the
// command returned an error. Commands return ErrCmdSyntaxErr if they were
// called with invalid arguments. OnSuccess is called after a successful
// command, After after each line that didn't stop the execution.
// OnScanErr is called if reading from the state's reader fails.
type CommandHandler interface {
	Init() (*ExecutorState, error)
	Start(s *ExecutorState)
	Before(s *ExecutorState)
	After(s *ExecutorState)
	OnParseErr(s *ExecutorState, err error) bool
	OnInvalidCmd(s *ExecutorState, cmd string) bool
	OnSuccess(s *ExecutorState, cmd Command)
	OnError(s *ExecutorState, err error, cmd Command) bool
	OnScanErr(s *ExecutorState, err error)
}

// Execute implements the high-level execution loop as described in the
// documentation of CommandHandler. commandMap is used to lookup commands.
//
// It returns an error if the state can't be created or if the handler stopped
// the execution. In the latter case the error is the one reported to the
// handler.
func Execute(handler CommandHandler, commandMap CommandMap) error {
	state, initErr := handler.Init()
	if initErr != nil {
		return initErr
	}
	handler.Start(state)
	scanner := bufio.NewScanner(state.In)
	for scanner.Scan() {
		handler.Before(state)
		parsedCmd, parseErr := ParseCommand(scanner.Text())
		if parseErr != nil {
			if !handler.OnParseErr(state, parseErr) {
				return parseErr
			}
			handler.After(state)
			continue
		}
		if len(parsedCmd) == 0 {
			handler.After(state)
			continue
		}
		cmd := parsedCmd[0]
		nextCmd, ok := commandMap[cmd]
		if !ok {
			if !handler.OnInvalidCmd(state, cmd) {
				return fmt.Errorf("Invalid command %q", cmd)
			}
			handler.After(state)
			continue
		}
		if execErr := nextCmd.Exec(state, parsedCmd[1:]...); execErr != nil {
			if !handler.OnError(state, execErr, nextCmd) {
				return execErr
			}
		} else {
			handler.OnSuccess(state, nextCmd)
		}
		handler.After(state)
	}
	if scanErr := scanner.Err(); scanErr != nil {
		handler.OnScanErr(state, scanErr)
		return scanErr
	}
	return nil
}

func isEOF(r []rune, i int) bool {
	return i == len(r)
}

// ParseCommand parses a command of the form "COMMAND ARG1 ... ARGN".
// Examples:
//
// foo bar is the command "foo" with argument "bar". Arguments might also
// be enclosed in quotes, so foo "bar bar" is parsed as command foo with
// argument bar bar (a single argument). Inside and outside of quotes \" and
// \\ escape a quote and a backslash.
func ParseCommand(s string) ([]string, error) {
	parseErr := errors.New("Error parsing command line")
	res := make([]string, 0)
	// states of the automaton:
	// 0: between arguments
	// 1: inside an unquoted argument
	// 2: after a backslash in an unquoted argument
	// 3: inside a quoted argument
	// 4: after a backslash in a quoted argument
	r := []rune(s)
	state := 0
	currentArg := make([]rune, 0)
L:
	for i := 0; i <= len(r); i++ {
		switch state {
		case 0:
			if isEOF(r, i) {
				break L
			}
			switch r[i] {
			case ' ', '\t':
			case '\\':
				state = 2
			case '"':
				state = 3
			default:
				currentArg = append(currentArg, r[i])
				state = 1
			}
		case 1:
			if isEOF(r, i) {
				break L
			}
			switch r[i] {
			case ' ', '\t':
				res = append(res, string(currentArg))
				currentArg = nil
				state = 0
			case '\\':
				state = 2
			case '"':
				return nil, parseErr
			default:
				currentArg = append(currentArg, r[i])
			}
		case 2, 4:
			if isEOF(r, i) {
				return nil, parseErr
			}
			switch r[i] {
			case '\\', '"':
				currentArg = append(currentArg, r[i])
				if state == 2 {
					state = 1
				} else {
					state = 3
				}
			default:
				return nil, parseErr
			}
		case 3:
			if isEOF(r, i) {
				return nil, parseErr
			}
			switch r[i] {
			case '"':
				res = append(res, string(currentArg))
				currentArg = nil
				state = 0
			case '\\':
				state = 4
			default:
				currentArg = append(currentArg, r[i])
			}
		}
	}
	if len(currentArg) > 0 {
		res = append(res, string(currentArg))
	}
	return res, nil
}

// PwdCommand is a command that prints the current working directory.
func PwdCommand(state *ExecutorState, args ...string) error {
	fmt.Fprintln(state.Out, state.WorkingDir)
	return nil
}

// CdCommand is a command that changes the current directory.
func CdCommand(state *ExecutorState, args ...string) error {
	if len(args) != 1 {
		return ErrCmdSyntaxErr
	}
	path, pathErr := state.GetPath(args[0])
	if pathErr != nil {
		return fmt.Errorf("Changing directory failed: %w", pathErr)
	}
	fi, statErr := os.Stat(path)
	if statErr != nil {
		return fmt.Errorf("Changing directory failed: %w", statErr)
	}
	if !fi.IsDir() {
		return fmt.Errorf("Changing directory failed: \"%s\" is not a directory", path)
	}
	state.WorkingDir = path
	return nil
}

func formatDim(w, h int) string {
	return fmt.Sprintf("%dx%d", w, h)
}

func stateVariables(state *ExecutorState) map[string]interface{} {
	c := state.Config
	return map[string]interface{}{
		"verbose":          state.Verbose,
		"match":            formatDim(c.MatchTileWidth, c.MatchTileHeight),
		"render":           formatDim(c.RenderTileWidth, c.RenderTileHeight),
		"thumb":            formatDim(c.ThumbWidth, c.ThumbHeight),
		"candidates":       c.CandidatePool,
		"penalty-weight":   c.PenaltyWeight,
		"neighbor-penalty": c.NeighborPenalty,
		"diagonal-penalty": c.DiagonalPenalty,
		"decay":            c.DecayInterval,
		"max-tiles":        c.MaxTiles,
		"scale":            c.TargetScale,
		"metric":           c.Metric,
		"pyramid-tile":     c.PyramidTileSize,
		"jpeg-quality":     c.JPGQuality,
		"interp":           c.Interpolation,
		"routines":         c.NumRoutines,
		"seed":             c.Seed,
		"cache":            c.ImageCacheSize,
	}
}

// StatsCommand is a command that prints variable / value pairs.
func StatsCommand(state *ExecutorState, args ...string) error {
	m := stateVariables(state)
	if len(args) == 1 {
		val, has := m[args[0]]
		if !has {
			return fmt.Errorf("Unknown variable %s", args[0])
		}
		fmt.Fprintf(state.Out, "%s ==> %v\n", args[0], val)
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, variable := range keys {
		fmt.Fprintf(state.Out, "%s ==> %v\n", variable, m[variable])
	}
	return nil
}

func setDim(valueStr string, w, h *int) error {
	width, height, err := ParseDimensions(valueStr)
	if err != nil {
		return err
	}
	*w, *h = width, height
	return nil
}

func setInt(valueStr string, dst *int) error {
	val, err := strconv.Atoi(valueStr)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func setFloat(valueStr string, dst *float64) error {
	val, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

// SetVarCommand sets a variable to a new value. The configuration is
// validated after the change, an invalid value leaves the configuration
// unchanged.
func SetVarCommand(state *ExecutorState, args ...string) error {
	if len(args) != 2 {
		return errors.New("Invalid set syntax: Requires variable and value. For a list of variables use \"stats\"")
	}
	name, valueStr := args[0], args[1]
	if name == "verbose" {
		val, parseErr := strconv.ParseBool(valueStr)
		if parseErr != nil {
			return fmt.Errorf("Invalid value for verbose (must be true or false): %w", parseErr)
		}
		state.Verbose = val
		return nil
	}
	c := *state.Config
	var err error
	switch name {
	case "match":
		err = setDim(valueStr, &c.MatchTileWidth, &c.MatchTileHeight)
	case "render":
		err = setDim(valueStr, &c.RenderTileWidth, &c.RenderTileHeight)
	case "thumb":
		err = setDim(valueStr, &c.ThumbWidth, &c.ThumbHeight)
	case "candidates":
		err = setInt(valueStr, &c.CandidatePool)
	case "penalty-weight":
		err = setFloat(valueStr, &c.PenaltyWeight)
	case "neighbor-penalty":
		err = setFloat(valueStr, &c.NeighborPenalty)
	case "diagonal-penalty":
		err = setFloat(valueStr, &c.DiagonalPenalty)
	case "decay":
		err = setInt(valueStr, &c.DecayInterval)
	case "max-tiles":
		err = setInt(valueStr, &c.MaxTiles)
	case "scale":
		err = setFloat(valueStr, &c.TargetScale)
	case "metric":
		c.Metric = valueStr
	case "pyramid-tile":
		err = setInt(valueStr, &c.PyramidTileSize)
	case "jpeg-quality":
		err = setInt(valueStr, &c.JPGQuality)
	case "interp":
		var val int
		if err = setInt(valueStr, &val); err == nil {
			if val < 0 {
				return fmt.Errorf("Invalid value for interpolation function, must be integer >= 0: %d", val)
			}
			c.Interpolation = uint(val)
		}
	case "routines":
		err = setInt(valueStr, &c.NumRoutines)
		if err == nil && c.NumRoutines <= 0 {
			return fmt.Errorf("Invalid value for routines (must be positive int): %d", c.NumRoutines)
		}
	case "seed":
		var val int
		if err = setInt(valueStr, &val); err == nil {
			c.Seed = int64(val)
		}
	case "cache":
		err = setInt(valueStr, &c.ImageCacheSize)
	default:
		return fmt.Errorf("Invalid variable \"%s\". For a list use \"stats\"", name)
	}
	if err != nil {
		return fmt.Errorf("Invalid value for %s: %w", name, err)
	}
	if validErr := c.Validate(); validErr != nil {
		return validErr
	}
	*state.Config = c
	return nil
}

// ConfigCommand loads a configuration file, replacing all values.
func ConfigCommand(state *ExecutorState, args ...string) error {
	if len(args) != 1 {
		return ErrCmdSyntaxErr
	}
	path, pathErr := state.GetPath(args[0])
	if pathErr != nil {
		return pathErr
	}
	config, err := LoadConfig(path)
	if err != nil {
		return err
	}
	*state.Config = *config
	fmt.Fprintln(state.Out, "Configuration loaded from", path)
	return nil
}

// TilesCommand loads and lists the tile library.
// Without arguments it prints the number of tiles, "tiles list" prints the
// path of each tile and "tiles load DIR..." replaces the library with the
// images found in the directories (working directory if none is given).
func TilesCommand(state *ExecutorState, args ...string) error {
	switch {
	case len(args) == 0:
		fmt.Fprintln(state.Out, "Number of tiles:", len(state.Tiles))
		return nil
	case args[0] == "list":
		for _, tile := range state.Tiles {
			fmt.Fprintf(state.Out, "  %4d %s %s\n", tile.ID, tile.Color, tile.Path)
		}
		fmt.Fprintln(state.Out, "Total:", len(state.Tiles))
		return nil
	case args[0] == "load":
		roots := make([]string, 0, len(args)-1)
		for _, arg := range args[1:] {
			dir, pathErr := state.GetPath(arg)
			if pathErr != nil {
				return pathErr
			}
			roots = append(roots, dir)
		}
		if len(roots) == 0 {
			roots = append(roots, state.WorkingDir)
		}
		fmt.Fprintln(state.Out, "Loading images from", strings.Join(roots, ", "))
		state.Tiles = nil
		state.Composition = nil
		start := time.Now()
		lib := NewLibrary(state.Config, state.Cache)
		tiles, loadErr := lib.Load(state.runContext(), roots, RoleInput)
		if loadErr != nil {
			return loadErr
		}
		state.Tiles = tiles
		fmt.Fprintln(state.Out, "Successfully read", len(tiles), "images")
		if state.Verbose {
			fmt.Fprintln(state.Out, "Loading took", time.Since(start))
		}
		return nil
	default:
		return ErrCmdSyntaxErr
	}
}

// TargetCommand loads the target image from a file or directory.
func TargetCommand(state *ExecutorState, args ...string) error {
	if len(args) != 1 {
		return ErrCmdSyntaxErr
	}
	path, pathErr := state.GetPath(args[0])
	if pathErr != nil {
		return pathErr
	}
	lib := NewLibrary(state.Config, state.Cache)
	target, loadErr := lib.LoadTarget(state.runContext(), path)
	if loadErr != nil {
		return loadErr
	}
	state.Target = target
	state.Composition = nil
	bounds := target.Image.Bounds()
	fmt.Fprintf(state.Out, "Target %s with size %dx%d\n", target.Path, bounds.Dx(), bounds.Dy())
	return nil
}

// outputSize computes the size of the saved mosaic, dims is of the form
// accepted by ParseDimensionsEmpty. Missing values keep the ratio.
func outputSize(bounds image.Rectangle, dims string) (int, int, error) {
	width, height, err := ParseDimensionsEmpty(dims)
	if err != nil {
		return -1, -1, err
	}
	origW, origH := bounds.Dx(), bounds.Dy()
	switch {
	case width < 0 && height < 0:
		width, height = origW, origH
	case width < 0:
		width = KeepRatioWidth(origW, origH, height)
	case height < 0:
		height = KeepRatioHeight(origW, origH, width)
	}
	if width == 0 || height == 0 {
		return -1, -1, fmt.Errorf("Mosaic image would be empty, dimensions %dx%d", width, height)
	}
	return width, height, nil
}

// MosaicCommand composes the mosaic of the current target from the current
// tiles and saves it: mosaic <out> [dimension]. The optional dimension
// scales the saved image, "1024x" keeps the ratio of the mosaic.
func MosaicCommand(state *ExecutorState, args ...string) error {
	if len(args) == 0 || len(args) > 2 {
		return ErrCmdSyntaxErr
	}
	if len(state.Tiles) == 0 {
		return fmt.Errorf("%w, use \"tiles load\"", ErrEmptyLibrary)
	}
	if state.Target == nil {
		return errors.New("No target loaded, use \"target\"")
	}
	outPath, outPathErr := state.GetPath(args[0])
	if outPathErr != nil {
		return outPathErr
	}
	if !JPGAndPNG(filepath.Ext(outPath)) {
		return fmt.Errorf("Supported files are .jpg and .png, got file %s", outPath)
	}
	config := *state.Config
	composer := NewComposer(&config)
	if state.Verbose {
		scaledW, scaledH := ScaledSize(state.Target.Image.Bounds(), config.TargetScale)
		cols, rows, gridErr := GridSize(image.Rect(0, 0, scaledW, scaledH),
			config.MatchTileWidth, config.MatchTileHeight)
		if gridErr != nil {
			return gridErr
		}
		numBlocks := cols * rows
		composer.Progress = StdProgressFunc(state.Out, "Blocks", numBlocks, IntMax(1, numBlocks/10))
	}
	start := time.Now()
	composition, composeErr := composer.Compose(state.Tiles, state.Target.Image)
	if composeErr != nil {
		return composeErr
	}
	state.Composition = composition
	if state.Verbose {
		fmt.Fprintf(state.Out, "Composed %dx%d blocks with %d distinct tiles in %v\n",
			composition.Cols, composition.Rows, len(composition.Placements.Count()), time.Since(start))
	}
	var img image.Image = composition.Canvas
	if len(args) == 2 {
		width, height, sizeErr := outputSize(img.Bounds(), args[1])
		if sizeErr != nil {
			return sizeErr
		}
		img = composer.Resizer.Resize(uint(width), uint(height), img)
	}
	if writeErr := SaveImage(outPath, img, config.JPGQuality); writeErr != nil {
		return writeErr
	}
	fmt.Fprintln(state.Out, "Mosaic saved to", outPath)
	return nil
}

// PyramidCommand writes the pyramid of the last composed mosaic, or of the
// given image file: pyramid <dir> [image].
func PyramidCommand(state *ExecutorState, args ...string) error {
	if len(args) == 0 || len(args) > 2 {
		return ErrCmdSyntaxErr
	}
	dir, dirErr := state.GetPath(args[0])
	if dirErr != nil {
		return dirErr
	}
	var img image.Image
	if len(args) == 2 {
		path, pathErr := state.GetPath(args[1])
		if pathErr != nil {
			return pathErr
		}
		var loadErr error
		if img, loadErr = LoadImage(path); loadErr != nil {
			return loadErr
		}
	} else {
		if state.Composition == nil {
			return errors.New("No mosaic composed, use \"mosaic\" or provide an image")
		}
		img = state.Composition.Canvas
	}
	config := *state.Config
	gen := NewPyramidGenerator(&config)
	start := time.Now()
	res, genErr := gen.Generate(state.runContext(), img, dir)
	if genErr != nil {
		return genErr
	}
	fmt.Fprintf(state.Out, "Pyramid with %d levels and %d tiles written, descriptor %s\n",
		len(res.Levels), res.NumTiles, res.DescriptorPath)
	if state.Verbose {
		fmt.Fprintln(state.Out, "Generation took", time.Since(start))
	}
	return nil
}

func init() {
	DefaultCommands = make(map[string]Command, 10)
	DefaultCommands["pwd"] = Command{
		Exec:        PwdCommand,
		Usage:       "pwd",
		Description: "Show current working directory.",
	}
	DefaultCommands["cd"] = Command{
		Exec:        CdCommand,
		Usage:       "cd <dir>",
		Description: "Change working directory to the specified directory",
	}
	DefaultCommands["stats"] = Command{
		Exec:        StatsCommand,
		Usage:       "stats [var]",
		Description: "Show value of variables that can be changed via set, if var is given only value of that variable",
	}
	DefaultCommands["set"] = Command{
		Exec:  SetVarCommand,
		Usage: "set <variable> <value>",
		Description: "Set value for a variable. Sizes (match, render, thumb) are" +
			" given as WIDTHxHEIGHT, for a list of variables use \"stats\".",
	}
	DefaultCommands["config"] = Command{
		Exec:        ConfigCommand,
		Usage:       "config <file>",
		Description: "Load all variables from a TOML configuration file.",
	}
	DefaultCommands["tiles"] = Command{
		Exec:  TilesCommand,
		Usage: "tiles [list] or tiles load [dir...]",
		Description: "Controls the tile library. \"load\" replaces the library with" +
			" all jpg and png images found recursively in the directories (working" +
			" directory if none is given), at most max-tiles images are loaded." +
			" \"list\" prints all tiles with their average color.",
	}
	DefaultCommands["target"] = Command{
		Exec:  TargetCommand,
		Usage: "target <file or dir>",
		Description: "Load the target image. If a directory is given the first" +
			" image in it is used.",
	}
	DefaultCommands["mosaic"] = Command{
		Exec:  MosaicCommand,
		Usage: "mosaic <out> [dimension]",
		Description: "Compose the mosaic of the target and save it to out (.jpg or .png)." +
			" dimension optionally scales the saved image, a value can be omitted" +
			" to keep the ratio: \"1024x\" or \"x768\".\n\nValid metrics (set metric):\n\n" +
			strings.Join(GetVectorMetricNames(), " "),
	}
	DefaultCommands["pyramid"] = Command{
		Exec:  PyramidCommand,
		Usage: "pyramid <dir> [image]",
		Description: "Write a Deep Zoom pyramid of the last mosaic (or the given image)" +
			" to dir. The descriptor is written next to dir, foo_files gets foo.dzi.",
	}
}

// ReplHandler implements CommandHandler by reading commands from stdin and
// writing output to stdout.
type ReplHandler struct {
	Config *Config
	Cache  cache.Cache
}

// Init creates an initial ExecutorState with the working directory set to
// the current directory.
func (h ReplHandler) Init() (*ExecutorState, error) {
	return NewExecutorState(h.Config, h.Cache, os.Stdin, os.Stdout)
}

func (h ReplHandler) Start(s *ExecutorState) {
	fmt.Println("Welcome to the deepmosaic generator")
	fmt.Println("Copyright © 2019 Fabian Wenzelmann")
	fmt.Print(">>> ")
}

func (h ReplHandler) Before(s *ExecutorState) {}

func (h ReplHandler) After(s *ExecutorState) {
	fmt.Print(">>> ")
}

func (h ReplHandler) OnParseErr(s *ExecutorState, err error) bool {
	fmt.Println("Syntax error", err)
	return true
}

func (h ReplHandler) OnInvalidCmd(s *ExecutorState, cmd string) bool {
	fmt.Printf("Invalid command \"%s\"\n", cmd)
	return true
}

func (h ReplHandler) OnSuccess(s *ExecutorState, cmd Command) {}

func (h ReplHandler) OnError(s *ExecutorState, err error, cmd Command) bool {
	if errors.Is(err, ErrCmdSyntaxErr) {
		fmt.Println("Invalid syntax for command.")
		fmt.Println("Usage:", cmd.Usage)
	} else {
		fmt.Println("Error while executing command:", err.Error())
	}
	return true
}

func (h ReplHandler) OnScanErr(s *ExecutorState, err error) {
	fmt.Println("Error while reading:", err.Error())
}

// ScriptHandler implements CommandHandler. It writes the output to Out
// (stdout if nil) and reads from Source. It stops whenever an error is
// encountered.
type ScriptHandler struct {
	Source io.Reader
	Out    io.Writer
	Config *Config
	Cache  cache.Cache
}

// NewScriptHandler returns a new script handler that reads input from the given
// source.
func NewScriptHandler(source io.Reader, config *Config, c cache.Cache) ScriptHandler {
	return ScriptHandler{Source: source, Out: os.Stdout, Config: config, Cache: c}
}

// Init creates an initial ExecutorState with the working directory set to
// the current directory.
func (h ScriptHandler) Init() (*ExecutorState, error) {
	out := h.Out
	if out == nil {
		out = os.Stdout
	}
	return NewExecutorState(h.Config, h.Cache, h.Source, out)
}

func (h ScriptHandler) Start(s *ExecutorState) {}

func (h ScriptHandler) Before(s *ExecutorState) {}

func (h ScriptHandler) After(s *ExecutorState) {}

func (h ScriptHandler) OnParseErr(s *ExecutorState, err error) bool {
	fmt.Fprintln(os.Stderr, "Syntax error:", err)
	return false
}

func (h ScriptHandler) OnInvalidCmd(s *ExecutorState, cmd string) bool {
	fmt.Fprintf(os.Stderr, "Invalid command \"%s\"\n", cmd)
	return false
}

func (h ScriptHandler) OnSuccess(s *ExecutorState, cmd Command) {}

func (h ScriptHandler) OnError(s *ExecutorState, err error, cmd Command) bool {
	if errors.Is(err, ErrCmdSyntaxErr) {
		fmt.Fprintln(os.Stderr, "Error: Invalid syntax for command.")
		fmt.Fprintln(os.Stderr, "Usage:", cmd.Usage)
	} else {
		fmt.Fprintln(os.Stderr, "Error while executing command:", err.Error())
	}
	return false
}

func (h ScriptHandler) OnScanErr(s *ExecutorState, err error) {
	fmt.Fprintln(os.Stderr, "Error while reading:", err.Error())
}

// ReaderFromCmdLines returns a reader for a script source that reads the
// content of the combined lines.
func ReaderFromCmdLines(lines []string) io.Reader {
	return strings.NewReader(strings.Join(lines, "\n"))
}

// Parameterized is used to transform parameterized commands into executable
// commands, that means replacing variables $i with the provided argument.
// Example:
// The command "tiles load $1" can be called with one argument that will
// replace the placeholder $1.
//
// The whole reader is read before the replacement, scripts are usually
// short.
func Parameterized(r io.Reader, args ...string) (io.Reader, error) {
	// replace $10 before $1
	replaceArgs := make([]string, 0, 2*len(args))
	for i := len(args) - 1; i >= 0; i-- {
		replaceArgs = append(replaceArgs, fmt.Sprintf("$%d", i+1), args[i])
	}
	replacer := strings.NewReplacer(replaceArgs...)
	lines := make([]string, 0, 20)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, replacer.Replace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ReaderFromCmdLines(lines), nil
}
