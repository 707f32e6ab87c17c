package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	bgpls "github.com/opendaylight/bgpcep-sub008"
)

const envPrefix = "LSDECODE"

// app is the state shared by every subcommand of one invocation.
type app struct {
	v       *viper.Viper
	logger  *logrus.Logger
	reg     *prometheus.Registry
	metrics *bgpls.Metrics
}

func newRootCmd() *cobra.Command {
	a := &app{
		v:      viper.New(),
		logger: logrus.New(),
	}

	rootCmd := &cobra.Command{
		Use:          "lsdecode",
		Short:        "decode bgp-ls nlri and attributes",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "config file (yaml, toml or json)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level")
	rootCmd.PersistentFlags().String("log-file", "", "also write logs to this file")
	rootCmd.PersistentFlags().StringP("format", "f", "yaml", "output format, yaml or text")
	rootCmd.PersistentFlags().Bool("vpn", false, "expect route distinguishers ahead of nlri")
	rootCmd.PersistentFlags().Bool("stats", false, "print decode counters after the result")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.init(cmd)
	}
	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if !a.v.GetBool("stats") {
			return nil
		}
		return a.printStats(cmd)
	}

	rootCmd.AddCommand(newNlriCmd(a), newAttrCmd(a), newUpdateCmd(a))
	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("can't read config file %s: %v", path, err)
		}
	}

	level, err := logrus.ParseLevel(a.v.GetString("log-level"))
	if err != nil {
		return err
	}
	a.logger.SetLevel(level)
	a.logger.SetOutput(cmd.ErrOrStderr())

	if file := a.v.GetString("log-file"); file != "" {
		a.logger.AddHook(lfshook.NewHook(lfshook.PathMap{
			logrus.TraceLevel: file,
			logrus.DebugLevel: file,
			logrus.InfoLevel:  file,
			logrus.WarnLevel:  file,
			logrus.ErrorLevel: file,
		}, &logrus.JSONFormatter{}))
	}

	a.reg = prometheus.NewRegistry()
	a.metrics, err = bgpls.NewMetrics(a.reg)
	return err
}

func (a *app) options() []bgpls.Option {
	return []bgpls.Option{
		bgpls.WithLogger(a.logger.WithField("codec", "bgpls")),
		bgpls.WithMetrics(a.metrics),
	}
}

func (a *app) printStats(cmd *cobra.Command) error {
	mfs, err := a.reg.Gather()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
			}
			fmt.Fprintf(out, "%s{%s} %v\n", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue())
		}
	}

	return nil
}

// decodeHex accepts hex with optional whitespace, colons and a 0x prefix.
func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	s = strings.NewReplacer(" ", "", ":", "", "\n", "", "\t", "").Replace(s)

	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %v", err)
	}

	return b, nil
}
