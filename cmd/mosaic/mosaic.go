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
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/FabianWe/deepmosaic"
	"github.com/FabianWe/deepmosaic/cache"
	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// options shared by all sub commands
type options struct {
	configFile string
	verbose    bool
	seed       int64
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "mosaic",
		Short:        "Create photo mosaics and Deep Zoom pyramids",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				log.SetLevel(log.DebugLevel)
			} else {
				log.SetLevel(log.InfoLevel)
			}
		},
	}
	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "TOML configuration file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().Int64Var(&opts.seed, "seed", 0, "seed of the tile selection (overrides the config, 0 keeps it)")

	root.AddCommand(newBuildCmd(opts))
	root.AddCommand(newPyramidCmd(opts))
	root.AddCommand(newReplCmd(opts))
	root.AddCommand(newScriptCmd(opts))
	return root
}

func expand(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	return homedir.Expand(path)
}

func loadConfig(opts *options) (*deepmosaic.Config, error) {
	config := deepmosaic.DefaultConfig()
	if opts.configFile != "" {
		path, err := expand(opts.configFile)
		if err != nil {
			return nil, err
		}
		if config, err = deepmosaic.LoadConfig(path); err != nil {
			return nil, err
		}
	}
	if opts.seed != 0 {
		config.Seed = opts.seed
	}
	return config, config.Validate()
}

func setup(ctx context.Context, opts *options) (*deepmosaic.Config, cache.Cache, error) {
	config, err := loadConfig(opts)
	if err != nil {
		return nil, nil, err
	}
	c, cacheErr := deepmosaic.OpenCache(ctx, config)
	if cacheErr != nil {
		return nil, nil, cacheErr
	}
	return config, c, nil
}

func newBuildCmd(opts *options) *cobra.Command {
	var output, pyramidDir string
	cmd := &cobra.Command{
		Use:   "build <target> <tile-dir>...",
		Short: "Compose a mosaic and optionally its pyramid",
		Long: `Compose the mosaic of target (an image or a directory containing it)
from all jpg and png images found recursively in the tile directories.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			config, c, err := setup(ctx, opts)
			if err != nil {
				return err
			}
			defer c.Close()
			job := deepmosaic.Job{}
			if job.Target, err = expand(args[0]); err != nil {
				return err
			}
			for _, arg := range args[1:] {
				root, rootErr := expand(arg)
				if rootErr != nil {
					return rootErr
				}
				job.InputRoots = append(job.InputRoots, root)
			}
			if job.Output, err = expand(output); err != nil {
				return err
			}
			if job.PyramidDir, err = expand(pyramidDir); err != nil {
				return err
			}
			if job.Output == "" && job.PyramidDir == "" {
				return fmt.Errorf("nothing to do, use --output and / or --pyramid")
			}
			report, runErr := deepmosaic.NewPipeline(config, c).Run(ctx, job)
			if runErr != nil {
				return runErr
			}
			fmt.Fprintln(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "mosaic.jpg", "mosaic file (.jpg or .png), empty to skip")
	cmd.Flags().StringVarP(&pyramidDir, "pyramid", "p", "", "pyramid directory, e.g. out/mosaic_files")
	return cmd
}

func newPyramidCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "pyramid <image> <dir>",
		Short: "Write the Deep Zoom pyramid of an image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(opts)
			if err != nil {
				return err
			}
			path, pathErr := expand(args[0])
			if pathErr != nil {
				return pathErr
			}
			dir, dirErr := expand(args[1])
			if dirErr != nil {
				return dirErr
			}
			img, loadErr := deepmosaic.LoadImage(path)
			if loadErr != nil {
				return loadErr
			}
			res, genErr := deepmosaic.NewPyramidGenerator(config).Generate(cmd.Context(), img, dir)
			if genErr != nil {
				return genErr
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d levels, %d tiles, descriptor %s\n",
				len(res.Levels), res.NumTiles, res.DescriptorPath)
			return nil
		},
	}
}

func newReplCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive mosaic shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, c, err := setup(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer c.Close()
			// errors are reported by the handler
			deepmosaic.Execute(deepmosaic.ReplHandler{Config: config, Cache: c}, withHelp(deepmosaic.DefaultCommands))
			return nil
		},
	}
}

func newScriptCmd(opts *options) *cobra.Command {
	var predefined bool
	cmd := &cobra.Command{
		Use:   "script <file or name> [args...]",
		Short: "Execute a mosaic script",
		Long: `Execute the commands of a script file. $1, $2, ... are replaced by the
arguments. With --predefined the first argument is the name of a predefined
script: ` + strings.Join(predefinedNames(), ", "),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, c, err := setup(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer c.Close()
			var source io.Reader
			if predefined {
				script, ok := deepmosaic.PredefinedScripts[args[0]]
				if !ok {
					return fmt.Errorf("unknown script %q, available: %s", args[0],
						strings.Join(predefinedNames(), ", "))
				}
				source = strings.NewReader(script)
			} else {
				path, pathErr := expand(args[0])
				if pathErr != nil {
					return pathErr
				}
				f, openErr := os.Open(path)
				if openErr != nil {
					return openErr
				}
				defer f.Close()
				source = f
			}
			if len(args) > 1 {
				if source, err = deepmosaic.Parameterized(source, args[1:]...); err != nil {
					return err
				}
			}
			handler := deepmosaic.NewScriptHandler(source, config, c)
			handler.Out = cmd.OutOrStdout()
			return deepmosaic.Execute(handler, deepmosaic.DefaultCommands)
		},
	}
	cmd.Flags().BoolVar(&predefined, "predefined", false, "run a predefined script")
	return cmd
}

func predefinedNames() []string {
	names := make([]string, 0, len(deepmosaic.PredefinedScripts))
	for name := range deepmosaic.PredefinedScripts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// withHelp adds the help command, it needs the full command map.
func withHelp(commands deepmosaic.CommandMap) deepmosaic.CommandMap {
	res := make(deepmosaic.CommandMap, len(commands)+1)
	for name, cmd := range commands {
		res[name] = cmd
	}
	res["help"] = deepmosaic.Command{
		Exec: func(state *deepmosaic.ExecutorState, args ...string) error {
			names := make([]string, 0, len(res))
			for name := range res {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				if len(args) > 0 && args[0] != name {
					continue
				}
				cmd := res[name]
				fmt.Fprintf(state.Out, "%s\n    %s\n", cmd.Usage, cmd.Description)
			}
			return nil
		},
		Usage:       "help [command]",
		Description: "Show usage of all commands or of the given command.",
	}
	return res
}
