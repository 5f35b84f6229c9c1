/*
Copyright © 2017 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command sigma is a command-line interface for the dynamical core.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Potopoles/sigma"
)

var configPath string

var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sigma",
		Short: "sigma runs a sigma-coordinate hydrostatic atmospheric dynamical core",
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "sigma.toml", "path to the run configuration file")
	root.AddCommand(runCmd(), validateCmd(), versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the sigma version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(version)
			return nil
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "load and validate a run configuration without running it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sigma.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			fmt.Printf("configuration %s is valid: %dx%dx%d grid, dt=%.0fs, stepping=%s\n",
				configPath, cfg.Nx, cfg.Ny, cfg.Nz, cfg.Dt, cfg.TimeStepping)
			return nil
		},
	}
}

func runCmd() *cobra.Command {
	var restartIn, restartOut string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "run the dynamical core to completion",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, restartIn, restartOut)
		},
	}
	cmd.Flags().StringVar(&restartIn, "restart-in", "", "restart file to initialize the run from")
	cmd.Flags().StringVar(&restartOut, "restart-out", "", "restart file to write after the run completes")
	return cmd
}

func run(configPath, restartIn, restartOut string) error {
	logger := logrus.StandardLogger()

	cfg, err := sigma.LoadConfig(configPath)
	if err != nil {
		return err
	}
	o, err := sigma.NewOrchestrator(cfg)
	if err != nil {
		return err
	}

	if restartIn != "" {
		f, err := os.Open(restartIn)
		if err != nil {
			return err
		}
		err = sigma.Load(f, o.Grid, o.Fields)
		f.Close()
		if err != nil {
			return err
		}
		logger.WithField("path", restartIn).Info("restored state from restart file")
	}

	o.AppendStep(sigma.Log(os.Stdout))

	var status *sigma.StatusServer
	if cfg.HTTPPort != "" {
		status = sigma.NewStatusServer()
		go func() {
			if err := status.ListenAndServe(cfg.HTTPPort); err != nil {
				logger.WithError(err).Error("status server stopped")
			}
		}()
		o.AppendStep(sigma.StepBroadcaster(status))
	}

	if err := o.Run(); err != nil {
		return err
	}

	if restartOut != "" {
		f, err := os.Create(restartOut)
		if err != nil {
			return err
		}
		err = sigma.Save(f)(o.Grid, o.Fields, cfg.Dt)
		f.Close()
		if err != nil {
			return err
		}
		logger.WithField("path", restartOut).Info("wrote restart file")
	}
	return nil
}
