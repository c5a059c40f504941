package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledsim/sketchhost/internal/buildflags"
	"github.com/ledsim/sketchhost/internal/manifest"
	"github.com/ledsim/sketchhost/internal/paths"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func RootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sketchhost",
		Short: "Host runtime and build toolkit for wasm LED sketch modules",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cmd.Flags().Lookup("debug").Changed {
				log.SetLevel(log.DebugLevel)
			}
		},
	}

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newManifestCmd())
	rootCmd.AddCommand(newFlagsCmd())
	rootCmd.AddCommand(newPrintenvCmd())
	rootCmd.AddCommand(newUpdateCmd())
	rootCmd.PersistentFlags().Bool("debug", false, "Turn on debug logging.")

	return rootCmd
}

var (
	buildTime    = "unknown"
	buildVersion = "dev"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s (built: %s)\n", buildVersion, buildTime)
		},
	}
}

func newRunCmd() *cobra.Command {
	configFile := ""
	cmd := cobra.Command{
		Use:   "run",
		Short: "Runs the sketch module: declare files, setup, then loop",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if err := runSketch(configFile); err != nil {
				log.Fatal(err)
			}
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "config.yaml", "Configuration file to use.")

	return &cmd
}

func newManifestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "manifest <dataDir> <outDir>",
		Short: "Generate the files.json manifest for a sketch data directory",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			m, err := manifest.Build(args[0], args[1])
			if err != nil {
				log.Fatal(err)
			}

			path, err := m.Write(args[1])
			if err != nil {
				log.Fatal(err)
			}
			log.Infof("Wrote manifest with %d entries to %s", len(m), path)
		},
	}
}

func newFlagsCmd() *cobra.Command {
	var (
		profileFile string
		mode        string
		scope       string
		link        bool
	)
	cmd := cobra.Command{
		Use:   "flags",
		Short: "Print the compilation flags for a scope and build mode",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			conf, err := buildflags.Load(profileFile, paths.LibrarySrc())
			if err != nil {
				log.Fatal(err)
			}

			var flags []string
			if link {
				flags, err = conf.LinkFlags(mode)
			} else {
				flags, err = conf.Flags(buildflags.Scope(scope), mode)
				if err == nil {
					flags = append(flags, conf.IncludeFlags(paths.LibrarySrc())...)
				}
			}
			if err != nil {
				log.Fatal(err)
			}

			fmt.Println(strings.Join(flags, "\n"))
		},
	}

	cmd.Flags().StringVarP(&profileFile, "file", "f", "", "Flag profile to use instead of the installed one.")
	cmd.Flags().StringVarP(&mode, "mode", "m", "quick", "Build mode: quick, debug or release.")
	cmd.Flags().StringVarP(&scope, "scope", "s", "sketch", "Compilation scope: sketch or library.")
	cmd.Flags().BoolVar(&link, "link", false, "Print linker flags instead of compile flags.")

	return &cmd
}

func newPrintenvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "printenv",
		Short: "Print the process environment as the toolchain sees it",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			paths.Printenv(os.Stdout)
			if missing := paths.MissingEnv(); len(missing) > 0 {
				log.Debugf("Unset override variables: %s", strings.Join(missing, ", "))
			}
		},
	}
}

func newUpdateCmd() *cobra.Command {
	configFile := ""
	cmd := cobra.Command{
		Use:   "update",
		Short: "Download the upstream library source into the library root",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if err := updateLibrary(configFile); err != nil {
				log.Fatal(err)
			}
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "config.yaml", "Configuration file to use.")

	return &cmd
}
